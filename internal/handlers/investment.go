package handlers

import (
	"cultivate/internal/middleware"
	"cultivate/internal/models"
	"cultivate/internal/services/investment"
	"cultivate/internal/utils/response"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type InvestmentHandler struct {
	investments investment.Service
	log         *logrus.Logger
}

func NewInvestmentHandler(investments investment.Service, log *logrus.Logger) *InvestmentHandler {
	return &InvestmentHandler{investments: investments, log: log}
}

// Create places a bid for the caller. Admins may place one on behalf of
// another investor by setting investorId.
func (h *InvestmentHandler) Create(c *fiber.Ctx) error {
	var input models.CreateInvestmentInput
	if ok, err := bind(c, &input); !ok {
		return err
	}
	actor := middleware.ActorFrom(c)
	if !actor.IsAdmin() || input.InvestorID == 0 {
		input.InvestorID = actor.ProfileID
	}

	bid, err := h.investments.Create(c.UserContext(), input)
	if err != nil {
		return respondError(c, h.log, err, "Failed to create investment")
	}
	return response.Created(c, "Investment created successfully", bid)
}

func (h *InvestmentHandler) ListMine(c *fiber.Ctx) error {
	bids, err := h.investments.ListByInvestor(c.UserContext(), middleware.ActorFrom(c).ProfileID)
	if err != nil {
		return respondError(c, h.log, err, "Failed to fetch investments")
	}
	return response.Success(c, "Investments retrieved successfully", bids)
}

func (h *InvestmentHandler) MarkFunded(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return invalidID(c)
	}
	bid, err := h.investments.MarkFunded(c.UserContext(), id)
	if err != nil {
		return respondError(c, h.log, err, "Failed to update investment")
	}
	return response.Success(c, "Investment marked as funded", bid)
}

func (h *InvestmentHandler) Repay(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return invalidID(c)
	}
	var input struct {
		Amount *float64 `json:"amount" validate:"required"`
	}
	if ok, err := bind(c, &input); !ok {
		return err
	}

	result, err := h.investments.Repay(c.UserContext(), id, *input.Amount)
	if err != nil {
		return respondError(c, h.log, err, "Failed to record repayment")
	}
	return response.Success(c, "Repayment recorded successfully", result)
}
