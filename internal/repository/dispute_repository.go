package repository

import (
	"errors"

	"gorm.io/gorm"

	"github.com/logiscore/logiscore-backend/internal/domain"
)

var ErrDisputeNotFound = errors.New("dispute not found")

type DisputeRepository interface {
	Create(dispute *domain.Dispute) error
	FindByID(id string) (*domain.Dispute, error)
	Update(dispute *domain.Dispute) error
	ListPaged(req PageRequest, status string) (PageResult[domain.Dispute], error)
	CountByStatus(status string) (int64, error)
}

type GormDisputeRepository struct{ db *gorm.DB }

func NewDisputeRepository(db *gorm.DB) DisputeRepository {
	return &GormDisputeRepository{db: db}
}

func (r *GormDisputeRepository) Create(dispute *domain.Dispute) error {
	return r.db.Create(dispute).Error
}

func (r *GormDisputeRepository) FindByID(id string) (*domain.Dispute, error) {
	var d domain.Dispute
	if err := r.db.Where("id = ?", id).First(&d).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDisputeNotFound
		}
		return nil, err
	}
	return &d, nil
}

func (r *GormDisputeRepository) Update(dispute *domain.Dispute) error {
	return r.db.Save(dispute).Error
}

func (r *GormDisputeRepository) ListPaged(req PageRequest, status string) (PageResult[domain.Dispute], error) {
	normalized := normalizePageRequest(req)
	result := PageResult[domain.Dispute]{
		Page:     normalized.Page,
		PageSize: normalized.PageSize,
	}

	base := r.db.Model(&domain.Dispute{})
	if status != "" {
		base = base.Where("status = ?", status)
	}
	if err := base.Count(&result.Total).Error; err != nil {
		return PageResult[domain.Dispute]{}, err
	}
	offset := normalized.Offset()
	if err := base.Order("created_at desc").Offset(offset).Limit(normalized.PageSize).Find(&result.Items).Error; err != nil {
		return PageResult[domain.Dispute]{}, err
	}
	result.TotalPages = calcTotalPages(result.Total, normalized.PageSize)
	return result, nil
}

func (r *GormDisputeRepository) CountByStatus(status string) (int64, error) {
	var n int64
	err := r.db.Model(&domain.Dispute{}).Where("status = ?", status).Count(&n).Error
	return n, err
}
