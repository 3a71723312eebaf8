package handlers

import (
	"cultivate/internal/middleware"
	"cultivate/internal/models"
	"cultivate/internal/services/notification"
	"cultivate/internal/utils/response"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type NotificationHandler struct {
	notifications notification.Service
	log           *logrus.Logger
}

func NewNotificationHandler(notifications notification.Service, log *logrus.Logger) *NotificationHandler {
	return &NotificationHandler{notifications: notifications, log: log}
}

func (h *NotificationHandler) List(c *fiber.Ctx) error {
	list, err := h.notifications.ListByUser(c.UserContext(), middleware.ActorFrom(c).ProfileID)
	if err != nil {
		return respondError(c, h.log, err, "Failed to fetch notifications")
	}
	return response.Success(c, "Notifications retrieved successfully", list)
}

func (h *NotificationHandler) UnreadCount(c *fiber.Ctx) error {
	n, err := h.notifications.UnreadCount(c.UserContext(), middleware.ActorFrom(c).ProfileID)
	if err != nil {
		return respondError(c, h.log, err, "Failed to count notifications")
	}
	return response.Success(c, "Unread count retrieved successfully", fiber.Map{"count": n})
}

func (h *NotificationHandler) Prioritized(c *fiber.Ctx) error {
	list, err := h.notifications.Prioritize(c.UserContext(), middleware.ActorFrom(c).ProfileID)
	if err != nil {
		return respondError(c, h.log, err, "Failed to fetch notifications")
	}
	return response.Success(c, "Notifications retrieved successfully", list)
}

func (h *NotificationHandler) MarkRead(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return invalidID(c)
	}
	if err := h.notifications.MarkAsRead(c.UserContext(), middleware.ActorFrom(c).ProfileID, id); err != nil {
		return respondError(c, h.log, err, "Failed to update notification")
	}
	return response.Success(c, "Notification marked as read", nil)
}

func (h *NotificationHandler) MarkAllRead(c *fiber.Ctx) error {
	n, err := h.notifications.MarkAllAsRead(c.UserContext(), middleware.ActorFrom(c).ProfileID)
	if err != nil {
		return respondError(c, h.log, err, "Failed to update notifications")
	}
	return response.Success(c, "Notifications marked as read", fiber.Map{"updated": n})
}

func (h *NotificationHandler) Create(c *fiber.Ctx) error {
	var input models.CreateNotificationInput
	if ok, err := bind(c, &input); !ok {
		return err
	}
	n, err := h.notifications.Create(c.UserContext(), input)
	if err != nil {
		return respondError(c, h.log, err, "Failed to create notification")
	}
	return response.Created(c, "Notification created successfully", n)
}

// TriggerSystem reports how many notifications went out even when one of
// them failed.
func (h *NotificationHandler) TriggerSystem(c *fiber.Ctx) error {
	var input models.SystemNotificationInput
	if ok, err := bind(c, &input); !ok {
		return err
	}
	created, err := h.notifications.TriggerSystemNotifications(c.UserContext(), input)
	if err != nil {
		h.log.WithError(err).WithField("created", created).Error("system notifications partially sent")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "Failed to send all notifications",
			"created": created,
		})
	}
	return response.Success(c, "Notifications sent", fiber.Map{"created": created})
}
