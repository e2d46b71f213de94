package redis_test

import (
	"context"
	"testing"
	"time"

	cartredis "ms-storefront/internal/cart/redis"
	"ms-storefront/internal/models"

	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestCartStoreIntegration exercises the cart store against a real redis
// container.
func TestCartStoreIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping redis integration test in short mode")
	}

	ctx := context.Background()
	redisContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:latest",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections"),
		},
		Started: true,
	})
	if err != nil {
		t.Fatalf("Failed to start redis container: %v", err)
	}
	defer redisContainer.Terminate(ctx)

	host, err := redisContainer.Host(ctx)
	require.NoError(t, err)
	port, err := redisContainer.MappedPort(ctx, "6379")
	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{
		Addr: host + ":" + port.Port(),
	})
	store := &cartredis.Store{Client: client, TTL: time.Hour}

	// Empty cart reads as empty, not an error.
	items, err := store.Get("user-1")
	require.NoError(t, err)
	assert.Empty(t, items)

	// Append two items.
	require.NoError(t, store.Append("user-1", models.LineItem{ID: "li-1", UserID: "user-1", TotalPrice: 4800}))
	require.NoError(t, store.Append("user-1", models.LineItem{ID: "li-2", UserID: "user-1", TotalPrice: 2999}))

	items, err = store.Get("user-1")
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "li-1", items[0].ID)
	assert.Equal(t, int64(2999), items[1].TotalPrice)

	// Carts are per user.
	other, err := store.Get("user-2")
	require.NoError(t, err)
	assert.Empty(t, other)

	// Remove one item; removing an unknown id is a no-op.
	require.NoError(t, store.Remove("user-1", "li-1"))
	require.NoError(t, store.Remove("user-1", "li-unknown"))

	items, err = store.Get("user-1")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "li-2", items[0].ID)

	// Clear after checkout.
	require.NoError(t, store.Clear("user-1"))
	items, err = store.Get("user-1")
	require.NoError(t, err)
	assert.Empty(t, items)
}
