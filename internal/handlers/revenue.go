package handlers

import (
	"cultivate/internal/middleware"
	"cultivate/internal/models"
	"cultivate/internal/services/revenue"
	"cultivate/internal/utils/response"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type RevenueHandler struct {
	revenues revenue.Service
	log      *logrus.Logger
}

func NewRevenueHandler(revenues revenue.Service, log *logrus.Logger) *RevenueHandler {
	return &RevenueHandler{revenues: revenues, log: log}
}

func (h *RevenueHandler) Record(c *fiber.Ctx) error {
	var input models.RecordRevenueInput
	if ok, err := bind(c, &input); !ok {
		return err
	}
	rev, err := h.revenues.Record(c.UserContext(), input)
	if err != nil {
		return respondError(c, h.log, err, "Failed to record revenue")
	}
	return response.Created(c, "Revenue recorded successfully", rev)
}

func (h *RevenueHandler) ListAll(c *fiber.Ctx) error {
	list, err := h.revenues.ListAll(c.UserContext())
	if err != nil {
		return respondError(c, h.log, err, "Failed to fetch revenue")
	}
	return response.Success(c, "Revenue retrieved successfully", list)
}

func (h *RevenueHandler) Platform(c *fiber.Ctx) error {
	summary, err := h.revenues.PlatformRevenue(c.UserContext())
	if err != nil {
		return respondError(c, h.log, err, "Failed to fetch platform revenue")
	}
	return response.Success(c, "Platform revenue retrieved successfully", summary)
}

func (h *RevenueHandler) Mine(c *fiber.Ctx) error {
	summary, err := h.revenues.UserRevenue(c.UserContext(), middleware.ActorFrom(c).ProfileID)
	if err != nil {
		return respondError(c, h.log, err, "Failed to fetch revenue")
	}
	return response.Success(c, "Revenue retrieved successfully", summary)
}

func (h *RevenueHandler) UpdateStatus(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return invalidID(c)
	}
	var input struct {
		Status models.RevenueStatus `json:"status" validate:"required"`
	}
	if ok, err := bind(c, &input); !ok {
		return err
	}
	rev, err := h.revenues.UpdateStatus(c.UserContext(), middleware.ActorFrom(c), id, input.Status)
	if err != nil {
		return respondError(c, h.log, err, "Failed to update revenue")
	}
	return response.Success(c, "Revenue updated successfully", rev)
}
