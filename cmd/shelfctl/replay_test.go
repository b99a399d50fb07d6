package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/matst80/slask-shelf/pkg/catalog"
	"github.com/matst80/slask-shelf/pkg/common/jsoncompat"
	"github.com/matst80/slask-shelf/pkg/stats"
	"github.com/matst80/slask-shelf/pkg/store"
	"github.com/matst80/slask-shelf/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const script = `
- type: ADD_TO_CART
  payload: {id: 1}
- type: ADD_TO_CART
  payload: {id: "3"}
- type: UPDATE_CART_QUANTITY
  payload: {itemId: 3, quantity: 4}
- type: ADD_TO_FAVORITES
  payload: {id: 101}
- type: ADD_TO_FAVORITES
  payload: {id: x9, name: Poster, price: 12.5, category: Decor}
- type: TOGGLE_THEME
- type: UPDATE_USER
  payload: {name: Ada}
`

func TestParseScript(t *testing.T) {
	actions, err := parseScript(strings.NewReader(script), catalog.Default())
	require.NoError(t, err)
	require.Len(t, actions, 7)

	add, ok := actions[0].(store.AddToCart)
	require.True(t, ok)
	assert.Equal(t, "Laptop", add.Item.Name)
	assert.Equal(t, store.UpdateCartQuantity{Id: "3", Quantity: 4}, actions[2])

	fav := actions[4].(store.AddToFavorites)
	assert.Equal(t, types.ItemId("x9"), fav.Item.Id)
	assert.Equal(t, 12.5, fav.Item.Price)
}

func TestReplay(t *testing.T) {
	actions, err := parseScript(strings.NewReader(script), catalog.Default())
	require.NoError(t, err)
	s := replay(actions)

	assert.Equal(t, uint64(7), s.Version())
	assert.Equal(t, types.ThemeDark, s.Theme())
	assert.Equal(t, "Ada", s.User().Name)
	report := stats.BuildReport(s, stats.FilterOptions{})
	assert.Equal(t, 5, report.Cart.TotalItems)
	assert.InDelta(t, 999+4*29, report.Cart.TotalValue, 0.001)
}

func TestParseScriptErrors(t *testing.T) {
	_, err := parseScript(strings.NewReader("- type: ADD_TO_CART\n"), catalog.Default())
	assert.ErrorContains(t, err, "step 1")

	_, err = parseScript(strings.NewReader("- type: ADD_TO_CART\n  payload: {id: 42}\n"), catalog.Default())
	assert.ErrorIs(t, err, catalog.ErrUnknownItem)

	_, err = parseScript(strings.NewReader("- type: CHECKOUT\n"), catalog.Default())
	assert.ErrorIs(t, err, store.ErrUnknownAction)

	actions, err := parseScript(strings.NewReader(""), catalog.Default())
	require.NoError(t, err)
	assert.Empty(t, actions)
}

func TestWriteReport(t *testing.T) {
	actions, err := parseScript(strings.NewReader(script), catalog.Default())
	require.NoError(t, err)
	report := stats.BuildReport(replay(actions), stats.FilterOptions{Category: stats.AllCategories})

	var text bytes.Buffer
	require.NoError(t, writeReport(&text, report, "text"))
	assert.Contains(t, text.String(), "theme:        dark")
	assert.Contains(t, text.String(), "top category Electronics")

	var out bytes.Buffer
	require.NoError(t, writeReport(&out, report, "json"))
	var decoded stats.Report
	require.NoError(t, jsoncompat.Unmarshal(out.Bytes(), &decoded))
	assert.Equal(t, report.PerformanceScore, decoded.PerformanceScore)

	assert.Error(t, writeReport(&out, report, "xml"))
}
