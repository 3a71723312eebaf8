package models

import (
	"time"
)

// Profile roles
const (
	RoleInnovator   = "innovator"
	RoleInvestor    = "investor"
	RoleGrantmaker  = "grantmaker"
	RoleInstitution = "institution"
	RoleAdmin       = "admin"
	RolePublic      = "public"
)

// UserProfile is keyed by the identity provider's subject. Profiles are never deleted.
type UserProfile struct {
	ID         uint      `gorm:"primarykey" json:"id"`
	ExternalID string    `gorm:"uniqueIndex;not null" json:"externalId"`
	FullName   string    `gorm:"not null" json:"fullName"`
	Email      string    `gorm:"index" json:"email,omitempty"`
	Phone      string    `json:"phone,omitempty"`
	Role       string    `gorm:"index;not null;default:'investor'" json:"role"`
	AvatarURL  string    `json:"avatarUrl,omitempty"`
	Country    string    `json:"country,omitempty"`
	Bio        string    `json:"bio,omitempty"`
	Verified   bool      `gorm:"default:false" json:"verified"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// IsValidRole reports whether role is one of the known profile roles.
func IsValidRole(role string) bool {
	switch role {
	case RoleInnovator, RoleInvestor, RoleGrantmaker, RoleInstitution, RoleAdmin, RolePublic:
		return true
	}
	return false
}

type CreateProfileInput struct {
	FullName  string `json:"fullName" validate:"required"`
	Email     string `json:"email" validate:"omitempty,email"`
	Phone     string `json:"phone"`
	Role      string `json:"role"`
	AvatarURL string `json:"avatarUrl"`
	Country   string `json:"country"`
	Bio       string `json:"bio"`
}

// UpdateProfileInput carries optional fields; nil means unchanged.
type UpdateProfileInput struct {
	FullName  *string `json:"fullName"`
	Email     *string `json:"email" validate:"omitempty,email"`
	Phone     *string `json:"phone"`
	Role      *string `json:"role"`
	AvatarURL *string `json:"avatarUrl"`
	Country   *string `json:"country"`
	Bio       *string `json:"bio"`
	Verified  *bool   `json:"verified"`
}
