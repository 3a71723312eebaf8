package handlers

import (
	"errors"

	"cultivate/internal/services/advisor"
	"cultivate/internal/services/campaign"
	"cultivate/internal/services/investment"
	"cultivate/internal/services/ledger"
	"cultivate/internal/services/notification"
	"cultivate/internal/services/payment"
	"cultivate/internal/services/payout"
	"cultivate/internal/services/profile"
	"cultivate/internal/services/revenue"
	"cultivate/internal/services/webhook"
	"cultivate/internal/storage"
	"cultivate/internal/utils/response"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// statusFor lists the service errors clients may see, by HTTP status.
var statusFor = []struct {
	status int
	errs   []error
}{
	{fiber.StatusNotFound, []error{
		profile.ErrProfileNotFound,
		campaign.ErrCampaignNotFound,
		investment.ErrBidNotFound,
		investment.ErrCampaignNotFound,
		payment.ErrPaymentNotFound,
		ledger.ErrTransactionNotFound,
		revenue.ErrRevenueNotFound,
		payout.ErrPayoutNotFound,
		notification.ErrNotificationNotFound,
		advisor.ErrCampaignNotFound,
	}},
	{fiber.StatusBadRequest, []error{
		profile.ErrInvalidRole,
		profile.ErrInvalidProfile,
		campaign.ErrInvalidCampaign,
		campaign.ErrInvalidStatus,
		storage.ErrInvalidImage,
		investment.ErrInvalidAmount,
		payment.ErrMissingFields,
		payment.ErrInvalidStatus,
		payment.ErrInvalidAmount,
		ledger.ErrInvalidType,
		ledger.ErrInvalidAmount,
		ledger.ErrNothingToUpdate,
		revenue.ErrInvalidRevenue,
		revenue.ErrInvalidStatus,
		payout.ErrInvalidPayout,
		notification.ErrInvalidNotification,
		advisor.ErrUnknownTask,
		advisor.ErrMissingFields,
		webhook.ErrUnknownProvider,
		webhook.ErrInvalidPayload,
	}},
	{fiber.StatusUnauthorized, []error{
		webhook.ErrInvalidSignature,
	}},
	{fiber.StatusForbidden, []error{
		profile.ErrForbidden,
		campaign.ErrForbidden,
		payment.ErrForbidden,
		ledger.ErrForbidden,
		revenue.ErrForbidden,
		payout.ErrForbidden,
		advisor.ErrForbidden,
	}},
	{fiber.StatusConflict, []error{
		profile.ErrProfileExists,
		investment.ErrInvalidTransition,
		payment.ErrInvalidTransition,
		revenue.ErrInvalidTransition,
		payout.ErrInvalidTransition,
	}},
	{fiber.StatusBadGateway, []error{
		advisor.ErrAIUnavailable,
	}},
	{fiber.StatusServiceUnavailable, []error{
		storage.ErrDisabled,
		advisor.ErrNotConfigured,
	}},
}

// respondError maps known service errors to their status and message.
// Anything else is logged and reported as fallback with a 500.
func respondError(c *fiber.Ctx, log *logrus.Logger, err error, fallback string) error {
	for _, group := range statusFor {
		for _, target := range group.errs {
			if errors.Is(err, target) {
				return response.Error(c, group.status, target.Error())
			}
		}
	}
	log.WithError(err).WithFields(logrus.Fields{
		"method": c.Method(),
		"path":   c.Path(),
	}).Error(fallback)
	return response.ServerError(c, fallback)
}
