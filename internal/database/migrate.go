package database

import (
	"github.com/logiscore/logiscore-backend/internal/domain"

	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&domain.User{},
		&domain.FreightForwarder{},
		&domain.Branch{},
		&domain.Review{},
		&domain.ReviewCategoryScore{},
		&domain.Dispute{},
		&domain.AdCampaign{},
	)
}
