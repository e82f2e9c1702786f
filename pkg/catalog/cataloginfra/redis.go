package cataloginfra

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/Abraxas-365/ensamble/pkg/catalog"
	"github.com/redis/go-redis/v9"
)

const ratingKeyPrefix = "rating:"

// RedisRatingStore caches entity ratings in Redis with a TTL.
type RedisRatingStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisRatingStore crea un store de ratings sobre Redis. Un TTL de cero
// significa sin expiración.
func NewRedisRatingStore(client *redis.Client, ttl time.Duration) catalog.RatingStore {
	return &RedisRatingStore{client: client, ttl: ttl}
}

// ByEntity implements catalog.RatingStore. A cache miss returns
// catalog.ErrRatingNotFound so the backend can synthesize and Put.
func (s *RedisRatingStore) ByEntity(ctx context.Context, entityID string) (catalog.Rating, error) {
	val, err := s.client.Get(ctx, ratingKeyPrefix+entityID).Result()
	if err == redis.Nil {
		return catalog.Rating{}, catalog.ErrRatingNotFound().WithDetail("entity_id", entityID)
	}
	if err != nil {
		return catalog.Rating{}, catalog.ErrStoreUnavailable(err).WithDetail("entity_id", entityID)
	}

	rating, err := strconv.Atoi(val)
	if err != nil {
		return catalog.Rating{}, catalog.ErrStoreUnavailable(
			fmt.Errorf("corrupt rating value %q: %w", val, err)).WithDetail("entity_id", entityID)
	}
	return catalog.Rating{EntityID: entityID, Rating: rating}, nil
}

// Put implements catalog.RatingStore.
func (s *RedisRatingStore) Put(ctx context.Context, rating catalog.Rating) error {
	err := s.client.Set(ctx, ratingKeyPrefix+rating.EntityID, rating.Rating, s.ttl).Err()
	if err != nil {
		return catalog.ErrStoreUnavailable(err).WithDetail("entity_id", rating.EntityID)
	}
	return nil
}
