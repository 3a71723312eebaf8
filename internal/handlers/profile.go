package handlers

import (
	"cultivate/internal/middleware"
	"cultivate/internal/models"
	"cultivate/internal/services/profile"
	"cultivate/internal/utils/response"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type ProfileHandler struct {
	profiles profile.Service
	log      *logrus.Logger
}

func NewProfileHandler(profiles profile.Service, log *logrus.Logger) *ProfileHandler {
	return &ProfileHandler{profiles: profiles, log: log}
}

// Create registers the caller's profile under the token subject.
func (h *ProfileHandler) Create(c *fiber.Ctx) error {
	var input models.CreateProfileInput
	if ok, err := bind(c, &input); !ok {
		return err
	}

	claims := middleware.ClaimsFrom(c)
	if claims == nil {
		return response.Unauthorized(c)
	}
	if input.Email == "" {
		input.Email = claims.Email
	}

	p, err := h.profiles.Create(c.UserContext(), claims.Subject, input)
	if err != nil {
		return respondError(c, h.log, err, "Failed to create profile")
	}
	return response.Created(c, "Profile created successfully", p)
}

func (h *ProfileHandler) Me(c *fiber.Ctx) error {
	p := middleware.ProfileFrom(c)
	if p == nil {
		return response.NotFound(c, profile.ErrProfileNotFound.Error())
	}
	return response.Success(c, "Profile retrieved successfully", p)
}

func (h *ProfileHandler) Update(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return invalidID(c)
	}
	var input models.UpdateProfileInput
	if ok, err := bind(c, &input); !ok {
		return err
	}

	p, err := h.profiles.Update(c.UserContext(), middleware.ActorFrom(c), id, input)
	if err != nil {
		return respondError(c, h.log, err, "Failed to update profile")
	}
	return response.Success(c, "Profile updated successfully", p)
}

func (h *ProfileHandler) ListByRole(c *fiber.Ctx) error {
	profiles, err := h.profiles.ListByRole(c.UserContext(), c.Query("role"))
	if err != nil {
		return respondError(c, h.log, err, "Failed to list profiles")
	}
	return response.Success(c, "Profiles retrieved successfully", profiles)
}
