package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	ReviewStatusPending  = "pending"
	ReviewStatusApproved = "approved"
	ReviewStatusRejected = "rejected"
)

type Review struct {
	ID                 string    `gorm:"type:uuid;primaryKey" json:"id"`
	UserID             string    `gorm:"type:uuid;not null;index" json:"user_id"`
	FreightForwarderID string    `gorm:"type:uuid;not null;index" json:"freight_forwarder_id"`
	BranchID           string    `gorm:"type:uuid" json:"branch_id,omitempty"`
	OverallRating      float64   `gorm:"not null" json:"overall_rating"`
	ReviewText         string    `gorm:"size:4000" json:"review_text"`
	IsAnonymous        bool      `gorm:"not null;default:false" json:"is_anonymous"`
	Status             string    `gorm:"size:50;not null;default:pending;index" json:"status"`
	IsVerified         bool      `gorm:"not null;default:false" json:"is_verified"`
	IsActive           bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`

	User             *User                 `gorm:"foreignKey:UserID" json:"-"`
	FreightForwarder *FreightForwarder     `gorm:"foreignKey:FreightForwarderID" json:"-"`
	CategoryScores   []ReviewCategoryScore `gorm:"foreignKey:ReviewID" json:"category_scores,omitempty"`
}

func (r *Review) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

type ReviewCategoryScore struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	ReviewID  string    `gorm:"type:uuid;not null;index" json:"review_id"`
	Category  string    `gorm:"size:100;not null" json:"category"`
	Score     float64   `gorm:"not null" json:"score"`
	CreatedAt time.Time `json:"created_at"`
}

func (s *ReviewCategoryScore) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}
