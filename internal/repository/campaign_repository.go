package repository

import (
	"github.com/logiscore/logiscore-backend/internal/domain"

	"gorm.io/gorm"
)

type CampaignRepository interface {
	Create(campaign *domain.AdCampaign) error
	List() ([]domain.AdCampaign, error)
	SumSpent() (float64, error)
}

type GormCampaignRepository struct{ db *gorm.DB }

func NewCampaignRepository(db *gorm.DB) CampaignRepository {
	return &GormCampaignRepository{db: db}
}

func (r *GormCampaignRepository) Create(campaign *domain.AdCampaign) error {
	return r.db.Create(campaign).Error
}

func (r *GormCampaignRepository) List() ([]domain.AdCampaign, error) {
	var campaigns []domain.AdCampaign
	err := r.db.Order("created_at desc").Find(&campaigns).Error
	return campaigns, err
}

// SumSpent totals campaign spend across all campaigns; it backs the
// admin dashboard revenue figure.
func (r *GormCampaignRepository) SumSpent() (float64, error) {
	var total float64
	err := r.db.Model(&domain.AdCampaign{}).
		Select("COALESCE(SUM(spent), 0)").Scan(&total).Error
	return total, err
}
