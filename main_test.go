package main

import (
	"testing"

	"github.com/kelseyhightower/envconfig"
	"github.com/matst80/slask-shelf/pkg/store"
	"github.com/matst80/slask-shelf/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultUserFallsBackToGuest(t *testing.T) {
	var cfg Config
	require.NoError(t, envconfig.Process("", &cfg))

	assert.Equal(t, types.User{Name: "Guest"}, defaultUser(cfg))
}

func TestDefaultUserFromEnvironment(t *testing.T) {
	t.Setenv("DEFAULT_USER_NAME", "Ada")
	t.Setenv("DEFAULT_USER_EMAIL", "ada@example.com")
	t.Setenv("DEFAULT_USER_AVATAR", "https://example.com/ada.png")

	var cfg Config
	require.NoError(t, envconfig.Process("", &cfg))

	s := store.NewStore(store.WithUser(defaultUser(cfg)))
	assert.Equal(t, types.User{
		Name:   "Ada",
		Email:  "ada@example.com",
		Avatar: "https://example.com/ada.png",
	}, s.Snapshot().User())
}
