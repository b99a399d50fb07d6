package storage

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/matst80/slask-shelf/pkg/store"
	"github.com/matst80/slask-shelf/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGzippedJsonRoundTrip(t *testing.T) {
	disk := NewDiskStorage("se", t.TempDir())
	in := map[string]int{"a": 1, "b": 2}

	require.NoError(t, disk.SaveGzippedJson(in, "nested/zipped.json.gz"))
	zipped := map[string]int{}
	require.NoError(t, disk.LoadGzippedJson(&zipped, "nested/zipped.json.gz"))
	assert.Equal(t, in, zipped)
}

func TestSessionMirror(t *testing.T) {
	ctx := context.Background()
	m := NewSessionMirror(NewDiskStorage("se", t.TempDir()))
	id := uuid.NewString()

	_, found, err := m.Load(ctx, id)
	require.NoError(t, err)
	assert.False(t, found)

	s := store.NewStore()
	s.AddToCart(types.CatalogItem{Id: "1", Name: "Laptop", Price: 999, Category: "Electronics"})
	s.ToggleTheme()
	s.AddToFavorites(types.CatalogItem{Id: "007", Name: "Bond", Price: 7, Category: "Film"})
	require.NoError(t, m.Save(ctx, id, s.Snapshot()))

	loaded, found, err := m.Load(ctx, id)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, s.Snapshot().View(), loaded.View())

	require.NoError(t, m.Delete(ctx, id))
	require.NoError(t, m.Delete(ctx, id))
	_, found, err = m.Load(ctx, id)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestSessionMirrorRejectsPaths(t *testing.T) {
	m := NewSessionMirror(NewDiskStorage("se", t.TempDir()))
	_, _, err := m.Load(context.Background(), "../../etc/passwd")
	assert.Error(t, err)
}
