package handlers

import (
	"cultivate/internal/middleware"
	"cultivate/internal/models"
	"cultivate/internal/services/payout"
	"cultivate/internal/utils/response"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type PayoutHandler struct {
	payouts payout.Service
	log     *logrus.Logger
}

func NewPayoutHandler(payouts payout.Service, log *logrus.Logger) *PayoutHandler {
	return &PayoutHandler{payouts: payouts, log: log}
}

func (h *PayoutHandler) Create(c *fiber.Ctx) error {
	var input models.CreatePayoutInput
	if ok, err := bind(c, &input); !ok {
		return err
	}
	req, err := h.payouts.Create(c.UserContext(), middleware.ActorFrom(c).ProfileID, input)
	if err != nil {
		return respondError(c, h.log, err, "Failed to request payout")
	}
	return response.Created(c, "Payout requested successfully", req)
}

func (h *PayoutHandler) ListMine(c *fiber.Ctx) error {
	list, err := h.payouts.ListByUser(c.UserContext(), middleware.ActorFrom(c).ProfileID)
	if err != nil {
		return respondError(c, h.log, err, "Failed to fetch payouts")
	}
	return response.Success(c, "Payouts retrieved successfully", list)
}

// ListAll accepts an optional ?status= filter.
func (h *PayoutHandler) ListAll(c *fiber.Ctx) error {
	list, err := h.payouts.ListAll(c.UserContext(), models.PayoutStatus(c.Query("status")))
	if err != nil {
		return respondError(c, h.log, err, "Failed to fetch payouts")
	}
	return response.Success(c, "Payouts retrieved successfully", list)
}

func (h *PayoutHandler) Approve(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return invalidID(c)
	}
	req, err := h.payouts.Approve(c.UserContext(), middleware.ActorFrom(c), id)
	if err != nil {
		return respondError(c, h.log, err, "Failed to approve payout")
	}
	return response.Success(c, "Payout approved", req)
}

func (h *PayoutHandler) Reject(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return invalidID(c)
	}
	var input struct {
		Reason string `json:"reason"`
	}
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&input); err != nil {
			return response.BadRequest(c, "Invalid request format")
		}
	}
	req, err := h.payouts.Reject(c.UserContext(), middleware.ActorFrom(c), id, input.Reason)
	if err != nil {
		return respondError(c, h.log, err, "Failed to reject payout")
	}
	return response.Success(c, "Payout rejected", req)
}

func (h *PayoutHandler) Complete(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return invalidID(c)
	}
	req, err := h.payouts.Complete(c.UserContext(), middleware.ActorFrom(c), id)
	if err != nil {
		return respondError(c, h.log, err, "Failed to complete payout")
	}
	return response.Success(c, "Payout completed", req)
}

func (h *PayoutHandler) Audit(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return invalidID(c)
	}
	trail, err := h.payouts.AuditTrail(c.UserContext(), id)
	if err != nil {
		return respondError(c, h.log, err, "Failed to fetch payout audit")
	}
	return response.Success(c, "Payout audit retrieved successfully", trail)
}
