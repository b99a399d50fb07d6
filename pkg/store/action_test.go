package store

import (
	"testing"

	"github.com/matst80/slask-shelf/pkg/common/jsoncompat"
	"github.com/matst80/slask-shelf/pkg/types"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeActionAcceptsNumericAndStringIds(t *testing.T) {
	a, err := DecodeAction([]byte(`{"type":"REMOVE_FROM_CART","payload":7}`))
	require.NoError(t, err)
	assert.Equal(t, RemoveFromCart{Id: "7"}, a)

	a, err = DecodeAction([]byte(`{"type":"REMOVE_FROM_FAVORITES","payload":"abc"}`))
	require.NoError(t, err)
	assert.Equal(t, RemoveFromFavorites{Id: "abc"}, a)
}

func TestDecodeActionPayloads(t *testing.T) {
	a, err := DecodeAction([]byte(`{"type":"ADD_TO_CART","payload":{"id":1,"name":"Laptop","price":999,"category":"Electronics"}}`))
	require.NoError(t, err)
	assert.Equal(t, AddToCart{Item: types.CatalogItem{Id: "1", Name: "Laptop", Price: 999, Category: "Electronics"}}, a)

	a, err = DecodeAction([]byte(`{"type":"UPDATE_CART_QUANTITY","payload":{"itemId":1,"quantity":0}}`))
	require.NoError(t, err)
	assert.Equal(t, UpdateCartQuantity{Id: "1", Quantity: 0}, a)

	a, err = DecodeAction([]byte(`{"type":"TOGGLE_THEME"}`))
	require.NoError(t, err)
	assert.Equal(t, ToggleTheme{}, a)
}

func TestDecodeActionRejectsUnknownType(t *testing.T) {
	_, err := DecodeAction([]byte(`{"type":"CHECKOUT"}`))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownAction))
}

func TestDecodeActionRequiresPayload(t *testing.T) {
	_, err := DecodeAction([]byte(`{"type":"ADD_TO_FAVORITES"}`))
	assert.Error(t, err)
}

func TestEncodeActionRoundTrip(t *testing.T) {
	original := UpdateCartQuantity{Id: "12", Quantity: 3}
	data, err := EncodeAction(original)
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"UPDATE_CART_QUANTITY","payload":{"itemId":12,"quantity":3}}`, string(data))

	decoded, err := DecodeAction(data)
	require.NoError(t, err)
	assert.Equal(t, original, decoded)
}

func TestSnapshotJSON(t *testing.T) {
	st := NewStore()
	st.AddToFavorites(laptop)
	st.AddToCart(mug)
	st.AddToCart(mug)
	st.ToggleTheme()

	data, err := jsoncompat.Marshal(st.Snapshot())
	require.NoError(t, err)

	var restored Snapshot
	require.NoError(t, jsoncompat.Unmarshal(data, &restored))
	assert.Equal(t, st.Snapshot().View(), restored.View())
}

func TestFromViewRestoresInvariants(t *testing.T) {
	s := FromView(SnapshotView{
		Favorites: []types.CatalogItem{laptop, laptop, book},
		Cart: []types.CartEntry{
			{CatalogItem: mug, Quantity: 2},
			{CatalogItem: mug, Quantity: 5},
			{CatalogItem: book, Quantity: 0},
		},
	})
	assert.Equal(t, []types.ItemId{"1", "3"}, favoriteIds(s))
	assert.Equal(t, map[types.ItemId]int{"4": 2}, cartQuantities(s))
}

func TestEmptySnapshotEncodesEmptyLists(t *testing.T) {
	data, err := jsoncompat.Marshal(Snapshot{})
	require.NoError(t, err)
	assert.JSONEq(t, `{"version":0,"theme":"light","user":{"name":"","email":""},"favorites":[],"cart":[]}`, string(data))
}

func TestDescribe(t *testing.T) {
	ev := Describe(UpdateCartQuantity{Id: "5", Quantity: 2}, 9)
	assert.Equal(t, types.CommandEvent{Type: "UPDATE_CART_QUANTITY", Item: "5", Quantity: 2, Version: 9}, ev)
}
