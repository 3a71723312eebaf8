package models

import "github.com/golang-jwt/jwt/v5"

// IdentityClaims are the claims carried by the identity provider's session
// token. The subject is the profile's ExternalID.
type IdentityClaims struct {
	jwt.RegisteredClaims
	Email string `json:"email,omitempty"`
	Name  string `json:"name,omitempty"`
}

// Actor is the authenticated caller of a service operation.
type Actor struct {
	ProfileID  uint
	ExternalID string
	Role       string
}

// NewActor builds an Actor from a stored profile.
func NewActor(p *UserProfile) Actor {
	return Actor{ProfileID: p.ID, ExternalID: p.ExternalID, Role: p.Role}
}

// SystemActor is used for operations triggered by trusted infrastructure
// (webhooks, seeding) rather than by a user.
var SystemActor = Actor{Role: RoleAdmin, ExternalID: "system"}

func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// Owns reports whether the actor is the owner of a row owned by profileID.
func (a Actor) Owns(profileID uint) bool {
	return a.ProfileID != 0 && a.ProfileID == profileID
}

// CanManage reports whether the actor may act on a row owned by profileID.
func (a Actor) CanManage(profileID uint) bool {
	return a.IsAdmin() || a.Owns(profileID)
}

// HasPermission checks the role's default permission set.
func (a Actor) HasPermission(permission string) bool {
	for _, p := range GetDefaultPermissions(a.Role) {
		if p == permission {
			return true
		}
	}
	return false
}
