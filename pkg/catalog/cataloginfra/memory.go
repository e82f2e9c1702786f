package cataloginfra

import (
	"context"
	"fmt"
	"hash/fnv"
	"sync"

	"github.com/Abraxas-365/ensamble/pkg/catalog"
	"github.com/google/uuid"
)

// The in-memory implementations fabricate plausible data for any id, the
// way a demo backend would, so the system runs with no external stores.

var categories = []string{"Movies", "Series", "Music", "Books", "Games"}

func entityHash(id string) uint32 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(id))
	return h.Sum32()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// MemoryRecommendationSource fabricates a fixed number of recommendations
// per user, each pointing at a fresh entity recommended by a fresh user.
type MemoryRecommendationSource struct {
	perUser int
}

// NewMemoryRecommendationSource creates a source producing perUser entries
// per request. A non-positive count defaults to 3.
func NewMemoryRecommendationSource(perUser int) *MemoryRecommendationSource {
	if perUser <= 0 {
		perUser = 3
	}
	return &MemoryRecommendationSource{perUser: perUser}
}

// ForUser implements catalog.RecommendationSource.
func (s *MemoryRecommendationSource) ForUser(ctx context.Context, userID string) ([]catalog.Recommendation, error) {
	recs := make([]catalog.Recommendation, s.perUser)
	for i := range recs {
		recs[i] = catalog.Recommendation{
			EntityID:      uuid.NewString(),
			RecommendedBy: uuid.NewString(),
		}
	}
	return recs, nil
}

// MemoryMetadataRepository serves seeded metadata and synthesizes an entry
// for unknown entities.
type MemoryMetadataRepository struct {
	mu      sync.RWMutex
	entries map[string]catalog.Metadata
}

// NewMemoryMetadataRepository creates an empty repository.
func NewMemoryMetadataRepository() *MemoryMetadataRepository {
	return &MemoryMetadataRepository{entries: make(map[string]catalog.Metadata)}
}

// Seed registers fixed metadata for an entity.
func (r *MemoryMetadataRepository) Seed(m catalog.Metadata) {
	r.mu.Lock()
	r.entries[m.EntityID] = m
	r.mu.Unlock()
}

// ByEntity implements catalog.MetadataRepository.
func (r *MemoryMetadataRepository) ByEntity(ctx context.Context, entityID string) (catalog.Metadata, error) {
	r.mu.RLock()
	m, ok := r.entries[entityID]
	r.mu.RUnlock()
	if ok {
		return m, nil
	}
	h := entityHash(entityID)
	return catalog.Metadata{
		EntityID: entityID,
		Name:     fmt.Sprintf("Entity %s", shortID(entityID)),
		Category: categories[h%uint32(len(categories))],
	}, nil
}

// MemoryRatingStore is a mutex-guarded rating cache. Misses return
// catalog.ErrRatingNotFound, mirroring the redis store's contract.
type MemoryRatingStore struct {
	mu      sync.RWMutex
	ratings map[string]catalog.Rating
}

// NewMemoryRatingStore creates an empty store.
func NewMemoryRatingStore() *MemoryRatingStore {
	return &MemoryRatingStore{ratings: make(map[string]catalog.Rating)}
}

// ByEntity implements catalog.RatingStore.
func (s *MemoryRatingStore) ByEntity(ctx context.Context, entityID string) (catalog.Rating, error) {
	s.mu.RLock()
	r, ok := s.ratings[entityID]
	s.mu.RUnlock()
	if !ok {
		return catalog.Rating{}, catalog.ErrRatingNotFound().WithDetail("entity_id", entityID)
	}
	return r, nil
}

// Put implements catalog.RatingStore.
func (s *MemoryRatingStore) Put(ctx context.Context, rating catalog.Rating) error {
	s.mu.Lock()
	s.ratings[rating.EntityID] = rating
	s.mu.Unlock()
	return nil
}

// MemoryUserRepository serves seeded users and synthesizes a profile for
// unknown ids.
type MemoryUserRepository struct {
	mu    sync.RWMutex
	users map[string]catalog.User
}

// NewMemoryUserRepository creates an empty repository.
func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{users: make(map[string]catalog.User)}
}

// Seed registers a fixed user profile.
func (r *MemoryUserRepository) Seed(u catalog.User) {
	r.mu.Lock()
	r.users[u.UserID] = u
	r.mu.Unlock()
}

// ByID implements catalog.UserRepository.
func (r *MemoryUserRepository) ByID(ctx context.Context, userID string) (catalog.User, error) {
	r.mu.RLock()
	u, ok := r.users[userID]
	r.mu.RUnlock()
	if ok {
		return u, nil
	}
	return catalog.User{
		UserID:     userID,
		Name:       fmt.Sprintf("User %s", shortID(userID)),
		ProfileURL: fmt.Sprintf("https://profiles.ensamble.dev/users/%s", userID),
	}, nil
}
