package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type FreightForwarder struct {
	ID           string    `gorm:"type:uuid;primaryKey" json:"id"`
	Name         string    `gorm:"size:255;not null;uniqueIndex" json:"name"`
	Website      string    `gorm:"size:255" json:"website"`
	LogoURL      string    `gorm:"size:1024" json:"logo_url"`
	Description  string    `gorm:"size:2000" json:"description"`
	Headquarters string    `gorm:"size:255" json:"headquarters"`
	IsActive     bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	Branches []Branch `gorm:"foreignKey:FreightForwarderID" json:"branches,omitempty"`
}

func (f *FreightForwarder) BeforeCreate(tx *gorm.DB) error {
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	return nil
}

type Branch struct {
	ID                 string    `gorm:"type:uuid;primaryKey" json:"id"`
	FreightForwarderID string    `gorm:"type:uuid;not null;index" json:"freight_forwarder_id"`
	Name               string    `gorm:"size:255;not null" json:"name"`
	Location           string    `gorm:"size:255;not null" json:"location"`
	Address            string    `gorm:"size:1024" json:"address"`
	Phone              string    `gorm:"size:100" json:"phone"`
	Email              string    `gorm:"size:255" json:"email"`
	IsActive           bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

func (b *Branch) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	return nil
}
