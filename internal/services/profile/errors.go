package profile

import "errors"

var (
	ErrProfileNotFound = errors.New("profile not found")
	ErrProfileExists   = errors.New("profile already exists")
	ErrInvalidRole     = errors.New("invalid role")
	ErrInvalidProfile  = errors.New("invalid profile")
	ErrForbidden       = errors.New("forbidden")
)
