package revenue

import "errors"

var (
	ErrRevenueNotFound   = errors.New("revenue not found")
	ErrInvalidRevenue    = errors.New("invalid revenue")
	ErrInvalidStatus     = errors.New("invalid revenue status")
	ErrInvalidTransition = errors.New("invalid revenue status transition")
	ErrForbidden         = errors.New("forbidden")
)
