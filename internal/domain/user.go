package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	UserTypeShipper   = "shipper"
	UserTypeForwarder = "forwarder"
	UserTypeAdmin     = "admin"

	TierFree = "free"
)

// User is the single record behind every auth flow: password, one-time
// code and GitHub OAuth all read and write the same row.
type User struct {
	ID                      string     `gorm:"type:uuid;primaryKey" json:"id"`
	GitHubID                string     `gorm:"column:github_id;size:255;uniqueIndex:idx_users_github_id,where:github_id <> ''" json:"-"`
	Email                   string     `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Username                string     `gorm:"size:100" json:"username"`
	FullName                string     `gorm:"size:255" json:"full_name"`
	AvatarURL               string     `gorm:"size:1024" json:"avatar_url"`
	CompanyName             string     `gorm:"size:255" json:"company_name"`
	UserType                string     `gorm:"size:20;not null;default:shipper" json:"user_type"`
	SubscriptionTier        string     `gorm:"size:20;not null;default:free" json:"subscription_tier"`
	PasswordHash            string     `gorm:"size:255" json:"-"`
	VerificationCode        string     `gorm:"size:6" json:"-"`
	VerificationCodeExpires *time.Time `json:"-"`
	ResetToken              string     `gorm:"size:255" json:"-"`
	ResetTokenExpires       *time.Time `json:"-"`
	IsVerified              bool       `gorm:"not null;default:false" json:"is_verified"`
	IsActive                bool       `gorm:"not null;default:true" json:"is_active"`
	CreatedAt               time.Time  `json:"created_at"`
	UpdatedAt               time.Time  `json:"updated_at"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

// HasVerificationCode reports whether the code/expiry pair is present.
// The pair is only ever set or cleared together.
func (u *User) HasVerificationCode() bool {
	return u.VerificationCode != "" && u.VerificationCodeExpires != nil
}

func (u *User) HasResetToken() bool {
	return u.ResetToken != "" && u.ResetTokenExpires != nil
}
