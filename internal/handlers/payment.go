package handlers

import (
	"cultivate/internal/middleware"
	"cultivate/internal/models"
	"cultivate/internal/services/payment"
	"cultivate/internal/utils/response"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type PaymentHandler struct {
	payments payment.Service
	log      *logrus.Logger
}

func NewPaymentHandler(payments payment.Service, log *logrus.Logger) *PaymentHandler {
	return &PaymentHandler{payments: payments, log: log}
}

func (h *PaymentHandler) Create(c *fiber.Ctx) error {
	var input models.CreatePaymentInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request format")
	}

	p, err := h.payments.Create(c.UserContext(), input)
	if err != nil {
		return respondError(c, h.log, err, "Failed to create payment")
	}
	return response.Created(c, "Payment created successfully", p)
}

func (h *PaymentHandler) Get(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return invalidID(c)
	}
	p, err := h.payments.Get(c.UserContext(), middleware.ActorFrom(c), id)
	if err != nil {
		return respondError(c, h.log, err, "Failed to fetch payment")
	}
	return response.Success(c, "Payment retrieved successfully", p)
}

func (h *PaymentHandler) ListMine(c *fiber.Ctx) error {
	list, err := h.payments.ListByInvestor(c.UserContext(), middleware.ActorFrom(c).ProfileID)
	if err != nil {
		return respondError(c, h.log, err, "Failed to fetch payments")
	}
	return response.Success(c, "Payments retrieved successfully", list)
}

// UpdateStatus is called by the client once the payment widget returns. Only
// the investor behind the payment or an admin may report it.
func (h *PaymentHandler) UpdateStatus(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return invalidID(c)
	}
	var input struct {
		Status   models.PaymentStatus   `json:"status" validate:"required,oneof=pending success failed"`
		Response map[string]interface{} `json:"response"`
	}
	if ok, err := bind(c, &input); !ok {
		return err
	}

	ctx := c.UserContext()
	if _, err := h.payments.Get(ctx, middleware.ActorFrom(c), id); err != nil {
		return respondError(c, h.log, err, "Failed to update payment")
	}
	p, err := h.payments.UpdateStatus(ctx, id, input.Status, input.Response)
	if err != nil {
		return respondError(c, h.log, err, "Failed to update payment")
	}
	return response.Success(c, "Payment updated successfully", p)
}
