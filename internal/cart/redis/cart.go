package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"ms-storefront/internal/models"

	"github.com/go-redis/redis/v8"
)

// Store keeps server-side carts in redis, one JSON-encoded line-item list
// per user, expiring after the configured TTL so abandoned carts clean
// themselves up.
type Store struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewStore(client *redis.Client) *Store {
	return &Store{
		Client: client,
		TTL:    cartTTLFromEnv(),
	}
}

func cartTTLFromEnv() time.Duration {
	defaultTTL := 72 * time.Hour

	ttlStr := os.Getenv("CART_TTL_HOURS")
	if ttlStr == "" {
		return defaultTTL
	}
	hours, err := strconv.Atoi(ttlStr)
	if err != nil || hours <= 0 {
		return defaultTTL
	}
	return time.Duration(hours) * time.Hour
}

func cartKey(userID string) string {
	return "cart:" + userID
}

// Get returns the user's cart, empty when none exists.
func (s *Store) Get(userID string) ([]models.LineItem, error) {
	val, err := s.Client.Get(context.Background(), cartKey(userID)).Result()
	if err == redis.Nil {
		return []models.LineItem{}, nil
	}
	if err != nil {
		return nil, err
	}

	var items []models.LineItem
	if err := json.Unmarshal([]byte(val), &items); err != nil {
		return nil, fmt.Errorf("corrupt cart for user %s: %w", userID, err)
	}
	return items, nil
}

// Append adds a line item to the user's cart and refreshes the TTL.
func (s *Store) Append(userID string, item models.LineItem) error {
	items, err := s.Get(userID)
	if err != nil {
		return err
	}
	items = append(items, item)
	return s.put(userID, items)
}

// Remove drops one line item by id. Removing an id that isn't present is
// not an error.
func (s *Store) Remove(userID, lineItemID string) error {
	items, err := s.Get(userID)
	if err != nil {
		return err
	}
	kept := items[:0]
	for _, item := range items {
		if item.ID != lineItemID {
			kept = append(kept, item)
		}
	}
	if len(kept) == 0 {
		return s.Clear(userID)
	}
	return s.put(userID, kept)
}

// Clear deletes the cart, typically after checkout.
func (s *Store) Clear(userID string) error {
	_, err := s.Client.Del(context.Background(), cartKey(userID)).Result()
	return err
}

func (s *Store) put(userID string, items []models.LineItem) error {
	data, err := json.Marshal(items)
	if err != nil {
		return err
	}
	return s.Client.Set(context.Background(), cartKey(userID), data, s.TTL).Err()
}
