package catalog

import "context"

// RecommendationSource produces the recommendations for a user.
type RecommendationSource interface {
	ForUser(ctx context.Context, userID string) ([]Recommendation, error)
}

// MetadataRepository resolves entity metadata.
type MetadataRepository interface {
	ByEntity(ctx context.Context, entityID string) (Metadata, error)
}

// RatingStore reads and caches entity ratings.
type RatingStore interface {
	ByEntity(ctx context.Context, entityID string) (Rating, error)
	Put(ctx context.Context, rating Rating) error
}

// UserRepository resolves user profiles.
type UserRepository interface {
	ByID(ctx context.Context, userID string) (User, error)
}
