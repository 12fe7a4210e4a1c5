package service

import (
	"context"
	"errors"
	"strings"

	"github.com/logiscore/logiscore-backend/internal/domain"
	"github.com/logiscore/logiscore-backend/internal/observability"
	"github.com/logiscore/logiscore-backend/internal/repository"
)

var ErrForwarderNotFound = errors.New("freight forwarder not found")

const (
	defaultSearchLimit  = 20
	defaultSuggestLimit = 10
	maxSearchLimit      = 100
)

// ForwarderDetail augments the catalog record with its review
// aggregate.
type ForwarderDetail struct {
	domain.FreightForwarder
	AverageRating float64 `json:"average_rating"`
	ReviewCount   int64   `json:"review_count"`
}

type ForwarderService struct {
	forwarders repository.ForwarderRepository
	reviews    repository.ReviewRepository
	ratings    RatingCache
}

func NewForwarderService(forwarders repository.ForwarderRepository, reviews repository.ReviewRepository, ratings RatingCache) *ForwarderService {
	if ratings == nil {
		ratings = NewNoopRatingCache()
	}
	return &ForwarderService{forwarders: forwarders, reviews: reviews, ratings: ratings}
}

func (s *ForwarderService) List(ctx context.Context, req repository.PageRequest, search string) (repository.PageResult[domain.FreightForwarder], error) {
	return s.forwarders.ListPaged(req, repository.ForwarderFilter{ActiveOnly: true, Search: search})
}

func (s *ForwarderService) Get(ctx context.Context, id string) (*ForwarderDetail, error) {
	fwd, err := s.forwarders.FindByID(id)
	if err != nil {
		if errors.Is(err, repository.ErrForwarderNotFound) {
			return nil, ErrForwarderNotFound
		}
		return nil, err
	}
	if !fwd.IsActive {
		return nil, ErrForwarderNotFound
	}
	if cached, ok, err := s.ratings.Get(ctx, id); err == nil && ok {
		return &ForwarderDetail{FreightForwarder: *fwd, AverageRating: cached.AverageRating, ReviewCount: cached.ReviewCount}, nil
	}
	avg, count, err := s.reviews.AverageRating(id)
	if err != nil {
		return nil, err
	}
	// Cache failures only cost the next reader a recompute.
	_ = s.ratings.Set(ctx, id, RatingSummary{AverageRating: avg, ReviewCount: count}, ratingCacheTTL)
	return &ForwarderDetail{FreightForwarder: *fwd, AverageRating: avg, ReviewCount: count}, nil
}

func (s *ForwarderService) Branches(ctx context.Context, forwarderID string) ([]domain.Branch, error) {
	if _, err := s.Get(ctx, forwarderID); err != nil {
		return nil, err
	}
	return s.forwarders.ListBranches(forwarderID)
}

func (s *ForwarderService) Search(ctx context.Context, query string, limit int) ([]domain.FreightForwarder, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []domain.FreightForwarder{}, nil
	}
	if limit < 1 {
		limit = defaultSearchLimit
	}
	if limit > maxSearchLimit {
		limit = maxSearchLimit
	}
	results, err := s.forwarders.Search(query, limit)
	if err != nil {
		return nil, err
	}
	observability.RecordSearchQuery(ctx, "forwarders", len(results))
	return results, nil
}

// Suggest returns name-prefix completions for the search box.
func (s *ForwarderService) Suggest(ctx context.Context, prefix string, limit int) ([]domain.FreightForwarder, error) {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return []domain.FreightForwarder{}, nil
	}
	if limit < 1 || limit > maxSearchLimit {
		limit = defaultSuggestLimit
	}
	results, err := s.forwarders.Suggest(prefix, limit)
	if err != nil {
		return nil, err
	}
	observability.RecordSearchQuery(ctx, "suggestions", len(results))
	return results, nil
}
