package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/logiscore/logiscore-backend/internal/domain"
	"github.com/logiscore/logiscore-backend/internal/observability"
	"github.com/logiscore/logiscore-backend/internal/repository"
)

var (
	ErrReviewNotFound  = errors.New("review not found")
	ErrInvalidRating   = errors.New("overall rating must be between 0 and 5")
	ErrInvalidScore    = errors.New("category scores must be between 0 and 4")
	ErrDisputeNotFound = errors.New("dispute not found")
)

type ReviewSubmission struct {
	ForwarderID    string             `json:"freight_forwarder_id"`
	BranchID       string             `json:"branch_id,omitempty"`
	OverallRating  float64            `json:"overall_rating"`
	ReviewText     string             `json:"review_text"`
	IsAnonymous    bool               `json:"is_anonymous"`
	CategoryScores map[string]float64 `json:"category_scores"`
}

type ReviewService struct {
	reviews    repository.ReviewRepository
	forwarders repository.ForwarderRepository
	disputes   repository.DisputeRepository
}

func NewReviewService(reviews repository.ReviewRepository, forwarders repository.ForwarderRepository, disputes repository.DisputeRepository) *ReviewService {
	return &ReviewService{reviews: reviews, forwarders: forwarders, disputes: disputes}
}

// Submit validates and persists a review; it enters the moderation
// queue as pending.
func (s *ReviewService) Submit(ctx context.Context, userID string, sub ReviewSubmission) (*domain.Review, error) {
	if sub.OverallRating < 0 || sub.OverallRating > 5 {
		return nil, ErrInvalidRating
	}
	for _, score := range sub.CategoryScores {
		if score < 0 || score > 4 {
			return nil, ErrInvalidScore
		}
	}
	if _, err := s.forwarders.FindByID(sub.ForwarderID); err != nil {
		if errors.Is(err, repository.ErrForwarderNotFound) {
			return nil, ErrForwarderNotFound
		}
		return nil, err
	}

	review := &domain.Review{
		UserID:             userID,
		FreightForwarderID: sub.ForwarderID,
		BranchID:           sub.BranchID,
		OverallRating:      sub.OverallRating,
		ReviewText:         strings.TrimSpace(sub.ReviewText),
		IsAnonymous:        sub.IsAnonymous,
		Status:             domain.ReviewStatusPending,
		IsActive:           true,
	}
	for category, score := range sub.CategoryScores {
		review.CategoryScores = append(review.CategoryScores, domain.ReviewCategoryScore{
			Category: category,
			Score:    score,
		})
	}
	if err := s.reviews.Create(review); err != nil {
		observability.RecordReviewEvent(ctx, "submit", "error")
		return nil, fmt.Errorf("create review: %w", err)
	}
	observability.RecordReviewEvent(ctx, "submit", "success")
	return sanitizeReview(review), nil
}

// ListPublished returns approved reviews, optionally scoped to one
// forwarder. Anonymous reviews come back with the reviewer id blanked.
func (s *ReviewService) ListPublished(ctx context.Context, forwarderID string, req repository.PageRequest) (repository.PageResult[domain.Review], error) {
	page, err := s.reviews.ListPaged(req, repository.ReviewFilter{
		ForwarderID: forwarderID,
		Status:      domain.ReviewStatusApproved,
	})
	if err != nil {
		return repository.PageResult[domain.Review]{}, err
	}
	for i := range page.Items {
		sanitizeReview(&page.Items[i])
	}
	return page, nil
}

func (s *ReviewService) ListByUser(ctx context.Context, userID string, req repository.PageRequest) (repository.PageResult[domain.Review], error) {
	return s.reviews.ListPaged(req, repository.ReviewFilter{UserID: userID})
}

func (s *ReviewService) Get(ctx context.Context, id string) (*domain.Review, error) {
	review, err := s.reviews.FindByID(id)
	if err != nil {
		if errors.Is(err, repository.ErrReviewNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, err
	}
	if !review.IsActive {
		return nil, ErrReviewNotFound
	}
	return sanitizeReview(review), nil
}

type DisputeSubmission struct {
	Reason      string `json:"reason"`
	Description string `json:"description"`
}

func (s *ReviewService) FileDispute(ctx context.Context, reviewID, reporterID string, sub DisputeSubmission) (*domain.Dispute, error) {
	if _, err := s.reviews.FindByID(reviewID); err != nil {
		if errors.Is(err, repository.ErrReviewNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, err
	}
	dispute := &domain.Dispute{
		ReviewID:    reviewID,
		ReportedBy:  reporterID,
		Reason:      strings.TrimSpace(sub.Reason),
		Description: strings.TrimSpace(sub.Description),
		Status:      domain.DisputeStatusPending,
	}
	if err := s.disputes.Create(dispute); err != nil {
		return nil, fmt.Errorf("create dispute: %w", err)
	}
	observability.RecordReviewEvent(ctx, "dispute", "success")
	return dispute, nil
}

func sanitizeReview(r *domain.Review) *domain.Review {
	if r.IsAnonymous {
		r.UserID = ""
		r.User = nil
	}
	return r
}
