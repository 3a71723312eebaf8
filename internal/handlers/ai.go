package handlers

import (
	"errors"

	"cultivate/internal/middleware"
	"cultivate/internal/services/advisor"
	"cultivate/internal/utils/response"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type AIHandler struct {
	advisor advisor.Service
	log     *logrus.Logger
}

func NewAIHandler(svc advisor.Service, log *logrus.Logger) *AIHandler {
	return &AIHandler{advisor: svc, log: log}
}

// Ask answers {query, campaigns, userId} with {output}.
func (h *AIHandler) Ask(c *fiber.Ctx) error {
	var input struct {
		Query     string                `json:"query"`
		Campaigns []advisor.CampaignRef `json:"campaigns"`
		UserID    string                `json:"userId"`
	}
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request format")
	}

	output, err := h.advisor.Ask(c.UserContext(), input.Query, input.Campaigns, input.UserID)
	if errors.Is(err, advisor.ErrMissingFields) {
		return response.BadRequest(c, err.Error())
	}
	if err != nil {
		h.log.WithError(err).Error("AI ask failed")
		return response.ServerError(c, "Failed to generate AI response")
	}
	return c.JSON(fiber.Map{"output": output})
}

func (h *AIHandler) RunTask(c *fiber.Ctx) error {
	task := advisor.Task(c.Params("task"))
	if !task.Valid() {
		return response.BadRequest(c, advisor.ErrUnknownTask.Error())
	}
	var input struct {
		Context map[string]interface{} `json:"context"`
	}
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&input); err != nil {
			return response.BadRequest(c, "Invalid request format")
		}
	}

	result := h.advisor.RunTask(c.UserContext(), middleware.ActorFrom(c).ExternalID, task, input.Context)
	return response.Success(c, "Task completed", result)
}

func (h *AIHandler) GenerateRecommendations(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return invalidID(c)
	}
	ids, err := h.advisor.GenerateAndCacheRecommendations(c.UserContext(), id)
	if err != nil {
		return respondError(c, h.log, err, "Failed to generate recommendations")
	}
	return response.Success(c, "Recommendations generated", ids)
}

func (h *AIHandler) Recommendations(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return invalidID(c)
	}
	ids, err := h.advisor.Recommendations(c.UserContext(), id)
	if err != nil {
		return respondError(c, h.log, err, "Failed to fetch recommendations")
	}
	return response.Success(c, "Recommendations retrieved successfully", ids)
}

func (h *AIHandler) SolutionPlan(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return invalidID(c)
	}
	result, err := h.advisor.GenerateSolutionPlan(c.UserContext(), middleware.ActorFrom(c).ExternalID, id)
	if err != nil {
		return respondError(c, h.log, err, "Failed to generate solution plan")
	}
	return response.Success(c, "Solution plan generated", result)
}

// Evaluate scores a campaign and stores the score and summary on it.
func (h *AIHandler) Evaluate(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return invalidID(c)
	}
	result, err := h.advisor.EvaluateCampaign(c.UserContext(), middleware.ActorFrom(c), id)
	if err != nil {
		return respondError(c, h.log, err, "Failed to evaluate campaign")
	}
	return response.Success(c, "Campaign evaluated", result)
}

func (h *AIHandler) Forecast(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return invalidID(c)
	}
	result, err := h.advisor.ForecastRevenue(c.UserContext(), middleware.ActorFrom(c).ExternalID, id)
	if err != nil {
		return respondError(c, h.log, err, "Failed to forecast revenue")
	}
	return response.Success(c, "Revenue forecast generated", result)
}
