package credential

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kbchat/internal/database"
)

func TestRedisBackend(t *testing.T) {
	url := os.Getenv("REDIS_URL")
	if url == "" {
		t.Skip("REDIS_URL not set")
	}
	ctx := context.Background()

	client, err := database.NewRedisClient(ctx, url)
	require.NoError(t, err)
	defer client.Close()

	exerciseBackend(t, NewRedisBackend(client, "kbchat-test:"))
}

func TestPostgresBackend(t *testing.T) {
	url := os.Getenv("DATABASE_URL")
	if url == "" {
		t.Skip("DATABASE_URL not set")
	}
	ctx := context.Background()

	pool, err := database.NewPostgresPool(ctx, url)
	require.NoError(t, err)
	defer pool.Close()

	backend, err := NewPostgresBackend(ctx, pool)
	require.NoError(t, err)

	exerciseBackend(t, backend)
}

func exerciseBackend(t *testing.T, backend Backend) {
	t.Helper()
	ctx := context.Background()
	store := NewStore(backend)

	require.NoError(t, store.Clear(ctx))
	require.NoError(t, store.SetToken(ctx, "first"))
	require.NoError(t, store.SetToken(ctx, "second"))

	token, err := store.Token(ctx)
	require.NoError(t, err)
	assert.Equal(t, "second", token)

	require.NoError(t, store.Clear(ctx))
	token, err = store.Token(ctx)
	require.NoError(t, err)
	assert.Empty(t, token)
}
