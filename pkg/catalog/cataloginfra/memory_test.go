package cataloginfra_test

import (
	"context"
	"testing"

	"github.com/Abraxas-365/ensamble/pkg/catalog"
	"github.com/Abraxas-365/ensamble/pkg/catalog/cataloginfra"
	"github.com/Abraxas-365/ensamble/pkg/errx"
)

func TestMemoryRatingStore_MissThenPut(t *testing.T) {
	store := cataloginfra.NewMemoryRatingStore()
	ctx := context.Background()

	_, err := store.ByEntity(ctx, "e1")
	var e *errx.Error
	if !errx.As(err, &e) || e.Type != errx.TypeNotFound {
		t.Fatalf("expected a not-found errx error on miss, got %v", err)
	}

	if err := store.Put(ctx, catalog.Rating{EntityID: "e1", Rating: 5}); err != nil {
		t.Fatalf("put failed: %v", err)
	}
	r, err := store.ByEntity(ctx, "e1")
	if err != nil || r.Rating != 5 {
		t.Fatalf("expected cached rating 5, got (%+v, %v)", r, err)
	}
}

func TestMemoryMetadataRepository_SynthesisIsStable(t *testing.T) {
	repo := cataloginfra.NewMemoryMetadataRepository()
	ctx := context.Background()

	first, err := repo.ByEntity(ctx, "some-entity")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, _ := repo.ByEntity(ctx, "some-entity")
	if first != second {
		t.Fatalf("synthesized metadata must be stable: %+v vs %+v", first, second)
	}
	if first.Name == "" || first.Category == "" {
		t.Fatalf("synthesized metadata incomplete: %+v", first)
	}
}

func TestMemoryMetadataRepository_SeededWins(t *testing.T) {
	repo := cataloginfra.NewMemoryMetadataRepository()
	seeded := catalog.Metadata{EntityID: "e1", Name: "The Matrix", Category: "Movies"}
	repo.Seed(seeded)

	got, err := repo.ByEntity(context.Background(), "e1")
	if err != nil || got != seeded {
		t.Fatalf("expected seeded metadata, got (%+v, %v)", got, err)
	}
}

func TestMemoryUserRepository_Synthesizes(t *testing.T) {
	repo := cataloginfra.NewMemoryUserRepository()

	u, err := repo.ByID(context.Background(), "abcdef12-0000")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if u.UserID != "abcdef12-0000" || u.Name == "" || u.ProfileURL == "" {
		t.Fatalf("synthesized user incomplete: %+v", u)
	}
}

func TestMemoryRecommendationSource_ProducesRequestedCount(t *testing.T) {
	src := cataloginfra.NewMemoryRecommendationSource(4)

	recs, err := src.ForUser(context.Background(), "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(recs) != 4 {
		t.Fatalf("expected 4 recommendations, got %d", len(recs))
	}
	for i, r := range recs {
		if r.EntityID == "" || r.RecommendedBy == "" {
			t.Fatalf("entry %d incomplete: %+v", i, r)
		}
	}
}
