package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	CampaignStatusActive    = "active"
	CampaignStatusCompleted = "completed"
)

// AdCampaign tracks paid placement for a forwarder; spend across
// campaigns feeds the admin dashboard revenue figure.
type AdCampaign struct {
	ID                 string    `gorm:"type:uuid;primaryKey" json:"id"`
	FreightForwarderID string    `gorm:"type:uuid;not null;index" json:"freight_forwarder_id"`
	CampaignName       string    `gorm:"size:255;not null" json:"campaign_name"`
	AdType             string    `gorm:"size:50;not null" json:"ad_type"` // banner, spotlight, featured
	StartDate          time.Time `gorm:"not null" json:"start_date"`
	EndDate            time.Time `gorm:"not null" json:"end_date"`
	Budget             float64   `gorm:"not null" json:"budget"`
	Spent              float64   `gorm:"not null;default:0" json:"spent"`
	Status             string    `gorm:"size:50;not null;default:active" json:"status"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

func (c *AdCampaign) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}
