package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	DisputeStatusPending  = "pending"
	DisputeStatusResolved = "resolved"
)

// Dispute is a forwarder's challenge against a published review.
type Dispute struct {
	ID          string     `gorm:"type:uuid;primaryKey" json:"id"`
	ReviewID    string     `gorm:"type:uuid;not null;index" json:"review_id"`
	ReportedBy  string     `gorm:"type:uuid;not null" json:"reported_by"`
	Reason      string     `gorm:"size:255;not null" json:"reason"`
	Description string     `gorm:"size:4000" json:"description"`
	Status      string     `gorm:"size:50;not null;default:pending;index" json:"status"`
	AdminNotes  string     `gorm:"size:4000" json:"admin_notes"`
	ResolvedAt  *time.Time `json:"resolved_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	Review *Review `gorm:"foreignKey:ReviewID" json:"-"`
}

func (d *Dispute) BeforeCreate(tx *gorm.DB) error {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	return nil
}
