// Package catalog holds the domain model of the composed-recommendation
// system: what the backends serve and what the gateway assembles.
package catalog

// Recommendation is one entity recommended to a user, as served by the
// recommendation backend.
type Recommendation struct {
	EntityID      string `json:"entity_id"`
	RecommendedBy string `json:"recommended_by"`
}

// Metadata describes a catalog entity, as served by the metadata backend.
type Metadata struct {
	EntityID string `json:"entity_id"`
	Name     string `json:"name"`
	Category string `json:"category"`
}

// Rating is the aggregate rating of an entity, as served by the rating
// backend. Rating is in the 1..5 range.
type Rating struct {
	EntityID string `json:"entity_id"`
	Rating   int    `json:"rating"`
}

// User is the profile of the user who produced a recommendation, as served
// by the user backend.
type User struct {
	UserID     string `json:"user_id"`
	Name       string `json:"name"`
	ProfileURL string `json:"profile_url"`
}

// FullRecommendation is the gateway's composition of one recommendation
// with its metadata, rating and recommending user.
type FullRecommendation struct {
	EntityID      string `json:"entity_id"`
	Name          string `json:"name"`
	Category      string `json:"category"`
	Rating        int    `json:"rating"`
	RecommendedBy User   `json:"recommended_by"`
}

// Compose assembles a FullRecommendation from its three backend answers.
func Compose(m Metadata, r Rating, u User) FullRecommendation {
	return FullRecommendation{
		EntityID:      m.EntityID,
		Name:          m.Name,
		Category:      m.Category,
		Rating:        r.Rating,
		RecommendedBy: u,
	}
}
