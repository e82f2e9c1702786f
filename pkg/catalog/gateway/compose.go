package gateway

import (
	"context"
	"time"

	"github.com/Abraxas-365/ensamble/pkg/catalog"
	"github.com/Abraxas-365/ensamble/pkg/singlex"
)

// Composer assembles full recommendations: one recommendations call, then
// per entry a three-way join of metadata, rating and recommending user, all
// bounded by a single composition deadline.
type Composer struct {
	client  Client
	timer   singlex.Timer
	timeout time.Duration
}

// NewComposer creates a Composer using timer for the composition deadline.
func NewComposer(client Client, timer singlex.Timer, timeout time.Duration) *Composer {
	return &Composer{client: client, timer: timer, timeout: timeout}
}

// Composed returns the fully assembled recommendations for userID. When the
// deadline passes first the error is a *singlex.TimeoutError and every
// in-flight backend call is cancelled.
func (c *Composer) Composed(ctx context.Context, userID string) ([]catalog.FullRecommendation, error) {
	overall := singlex.Go(func(ctx context.Context) ([]catalog.FullRecommendation, error) {
		recs, err := c.client.Recommendations(ctx, userID)
		if err != nil {
			return nil, err
		}

		joins := make([]*singlex.Single[catalog.FullRecommendation], len(recs))
		for i, rec := range recs {
			joins[i] = c.joinOne(rec)
		}

		out := make([]catalog.FullRecommendation, len(joins))
		for i, join := range joins {
			full, err := join.Await(ctx)
			if err != nil {
				for _, rest := range joins[i+1:] {
					rest.Cancel()
				}
				return nil, err
			}
			out[i] = full
		}
		return out, nil
	})

	return singlex.WithTimeout(overall, c.timer, c.timeout).Await(ctx)
}

// joinOne fans out the three lookups for one recommendation and joins them
// positionally into a FullRecommendation.
func (c *Composer) joinOne(rec catalog.Recommendation) *singlex.Single[catalog.FullRecommendation] {
	meta := singlex.Go(func(ctx context.Context) (catalog.Metadata, error) {
		return c.client.Metadata(ctx, rec.EntityID)
	})
	rating := singlex.Go(func(ctx context.Context) (catalog.Rating, error) {
		return c.client.Rating(ctx, rec.EntityID)
	})
	user := singlex.Go(func(ctx context.Context) (catalog.User, error) {
		return c.client.User(ctx, rec.RecommendedBy)
	})

	return singlex.Join3(meta, rating, user,
		func(m catalog.Metadata, r catalog.Rating, u catalog.User) (catalog.FullRecommendation, error) {
			return catalog.Compose(m, r, u), nil
		})
}
