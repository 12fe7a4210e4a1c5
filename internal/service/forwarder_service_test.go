package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/logiscore/logiscore-backend/internal/domain"
	"github.com/logiscore/logiscore-backend/internal/repository"
)

type forwarderFixture struct {
	db      *gorm.DB
	svc     *ForwarderService
	cache   *countingRatingCache
	acme    *domain.FreightForwarder
	dormant *domain.FreightForwarder
}

// countingRatingCache wraps the noop cache and records calls so tests
// can see whether Get hit the cache path.
type countingRatingCache struct {
	store map[string]RatingSummary
	gets  int
	sets  int
}

func newCountingRatingCache() *countingRatingCache {
	return &countingRatingCache{store: map[string]RatingSummary{}}
}

func (c *countingRatingCache) Get(_ context.Context, forwarderID string) (*RatingSummary, bool, error) {
	c.gets++
	if s, ok := c.store[forwarderID]; ok {
		return &s, true, nil
	}
	return nil, false, nil
}

func (c *countingRatingCache) Set(_ context.Context, forwarderID string, summary RatingSummary, _ time.Duration) error {
	c.sets++
	c.store[forwarderID] = summary
	return nil
}

func (c *countingRatingCache) Invalidate(_ context.Context, forwarderID string) error {
	delete(c.store, forwarderID)
	return nil
}

func newForwarderFixture(t *testing.T) *forwarderFixture {
	t.Helper()
	db := newServiceDBForTest(t)
	forwarders := repository.NewForwarderRepository(db)
	reviews := repository.NewReviewRepository(db)
	cache := newCountingRatingCache()

	acme := &domain.FreightForwarder{Name: "Acme Logistics", Headquarters: "Hamburg, Germany", IsActive: true}
	dormant := &domain.FreightForwarder{Name: "Dormant Shipping", IsActive: false}
	for _, f := range []*domain.FreightForwarder{acme, dormant} {
		if err := forwarders.Create(f); err != nil {
			t.Fatal(err)
		}
	}
	return &forwarderFixture{
		db:      db,
		svc:     NewForwarderService(forwarders, reviews, cache),
		cache:   cache,
		acme:    acme,
		dormant: dormant,
	}
}

func TestForwarderList(t *testing.T) {
	fx := newForwarderFixture(t)
	page, err := fx.svc.List(context.Background(), repository.PageRequest{}, "")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(page.Items) != 1 || page.Items[0].Name != "Acme Logistics" {
		t.Fatalf("public listing must hide inactive forwarders: %+v", page.Items)
	}
}

func TestForwarderGet(t *testing.T) {
	fx := newForwarderFixture(t)

	seedApproved := func(rating float64) {
		review := &domain.Review{
			UserID:             "u1",
			FreightForwarderID: fx.acme.ID,
			OverallRating:      rating,
			Status:             domain.ReviewStatusApproved,
			IsActive:           true,
		}
		if err := fx.db.Create(review).Error; err != nil {
			t.Fatal(err)
		}
	}
	seedApproved(4)
	seedApproved(5)

	detail, err := fx.svc.Get(context.Background(), fx.acme.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if detail.AverageRating != 4.5 || detail.ReviewCount != 2 {
		t.Fatalf("aggregate = %v/%d, want 4.5/2", detail.AverageRating, detail.ReviewCount)
	}
	if fx.cache.sets != 1 {
		t.Fatalf("aggregate not cached, sets = %d", fx.cache.sets)
	}

	// Second read must come from the cache even after the data moves.
	seedApproved(1)
	again, err := fx.svc.Get(context.Background(), fx.acme.ID)
	if err != nil {
		t.Fatal(err)
	}
	if again.AverageRating != 4.5 {
		t.Fatalf("cached aggregate = %v, want 4.5", again.AverageRating)
	}

	if _, err := fx.svc.Get(context.Background(), fx.dormant.ID); !errors.Is(err, ErrForwarderNotFound) {
		t.Fatalf("inactive forwarder must read as missing, got %v", err)
	}
	if _, err := fx.svc.Get(context.Background(), "missing"); !errors.Is(err, ErrForwarderNotFound) {
		t.Fatalf("expected ErrForwarderNotFound, got %v", err)
	}
}

func TestForwarderSearchAndSuggest(t *testing.T) {
	fx := newForwarderFixture(t)

	t.Run("empty query short-circuits", func(t *testing.T) {
		results, err := fx.svc.Search(context.Background(), "   ", 10)
		if err != nil {
			t.Fatal(err)
		}
		if len(results) != 0 {
			t.Fatalf("expected no results, got %d", len(results))
		}
	})

	t.Run("matches headquarters", func(t *testing.T) {
		results, err := fx.svc.Search(context.Background(), "hamburg", 10)
		if err != nil {
			t.Fatal(err)
		}
		if len(results) != 1 || results[0].Name != "Acme Logistics" {
			t.Fatalf("unexpected results: %+v", results)
		}
	})

	t.Run("suggest is prefix only", func(t *testing.T) {
		results, err := fx.svc.Suggest(context.Background(), "Acm", 5)
		if err != nil {
			t.Fatal(err)
		}
		if len(results) != 1 {
			t.Fatalf("prefix suggest returned %d results, want 1", len(results))
		}
		none, err := fx.svc.Suggest(context.Background(), "cme", 5)
		if err != nil {
			t.Fatal(err)
		}
		if len(none) != 0 {
			t.Fatalf("mid-word match must not suggest: %+v", none)
		}
	})
}
