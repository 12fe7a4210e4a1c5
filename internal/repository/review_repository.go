package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/logiscore/logiscore-backend/internal/domain"
	"github.com/logiscore/logiscore-backend/internal/observability"
)

var ErrReviewNotFound = errors.New("review not found")

type ReviewFilter struct {
	ForwarderID string
	UserID      string
	Status      string
}

type ReviewRepository interface {
	Create(review *domain.Review) error
	FindByID(id string) (*domain.Review, error)
	Update(review *domain.Review) error
	ListPaged(req PageRequest, filter ReviewFilter) (PageResult[domain.Review], error)
	AverageRating(forwarderID string) (float64, int64, error)
	Count() (int64, error)
	CountByStatus(status string) (int64, error)
	CountByForwarder(forwarderID string) (int64, error)
}

type GormReviewRepository struct{ db *gorm.DB }

func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &GormReviewRepository{db: db}
}

// Create persists the review together with its category scores in one
// transaction via the association.
func (r *GormReviewRepository) Create(review *domain.Review) error {
	if err := r.db.Create(review).Error; err != nil {
		observability.RecordRepositoryOperation(context.Background(), "review", "create", "error")
		return err
	}
	observability.RecordRepositoryOperation(context.Background(), "review", "create", "success")
	return nil
}

func (r *GormReviewRepository) FindByID(id string) (*domain.Review, error) {
	var review domain.Review
	err := r.db.Preload("CategoryScores").Where("id = ?", id).First(&review).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			observability.RecordRepositoryOperation(context.Background(), "review", "find_by_id", "not_found")
			return nil, ErrReviewNotFound
		}
		observability.RecordRepositoryOperation(context.Background(), "review", "find_by_id", "error")
		return nil, err
	}
	observability.RecordRepositoryOperation(context.Background(), "review", "find_by_id", "success")
	return &review, nil
}

func (r *GormReviewRepository) Update(review *domain.Review) error {
	return r.db.Save(review).Error
}

func (r *GormReviewRepository) ListPaged(req PageRequest, filter ReviewFilter) (PageResult[domain.Review], error) {
	normalized := normalizePageRequest(req)
	result := PageResult[domain.Review]{
		Page:     normalized.Page,
		PageSize: normalized.PageSize,
	}

	base := r.db.Model(&domain.Review{}).Where("is_active = ?", true)
	if filter.ForwarderID != "" {
		base = base.Where("freight_forwarder_id = ?", filter.ForwarderID)
	}
	if filter.UserID != "" {
		base = base.Where("user_id = ?", filter.UserID)
	}
	if filter.Status != "" {
		base = base.Where("status = ?", filter.Status)
	}
	if err := base.Count(&result.Total).Error; err != nil {
		observability.RecordRepositoryOperation(context.Background(), "review", "list_paged", "error")
		return PageResult[domain.Review]{}, err
	}
	offset := normalized.Offset()
	err := base.Preload("CategoryScores").
		Order("created_at desc").Offset(offset).Limit(normalized.PageSize).
		Find(&result.Items).Error
	if err != nil {
		observability.RecordRepositoryOperation(context.Background(), "review", "list_paged", "error")
		return PageResult[domain.Review]{}, err
	}
	result.TotalPages = calcTotalPages(result.Total, normalized.PageSize)
	observability.RecordRepositoryOperation(context.Background(), "review", "list_paged", "success")
	return result, nil
}

// AverageRating aggregates approved, active reviews only.
func (r *GormReviewRepository) AverageRating(forwarderID string) (float64, int64, error) {
	var row struct {
		Avg   float64
		Total int64
	}
	err := r.db.Model(&domain.Review{}).
		Select("COALESCE(AVG(overall_rating), 0) AS avg, COUNT(*) AS total").
		Where("freight_forwarder_id = ? AND status = ? AND is_active = ?", forwarderID, domain.ReviewStatusApproved, true).
		Scan(&row).Error
	if err != nil {
		return 0, 0, err
	}
	return row.Avg, row.Total, nil
}

func (r *GormReviewRepository) Count() (int64, error) {
	var n int64
	err := r.db.Model(&domain.Review{}).Where("is_active = ?", true).Count(&n).Error
	return n, err
}

func (r *GormReviewRepository) CountByStatus(status string) (int64, error) {
	var n int64
	err := r.db.Model(&domain.Review{}).Where("status = ? AND is_active = ?", status, true).Count(&n).Error
	return n, err
}

func (r *GormReviewRepository) CountByForwarder(forwarderID string) (int64, error) {
	var n int64
	err := r.db.Model(&domain.Review{}).Where("freight_forwarder_id = ? AND is_active = ?", forwarderID, true).Count(&n).Error
	return n, err
}
