package handlers

import (
	"cultivate/internal/services/webhook"
	"cultivate/internal/utils/response"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type WebhookHandler struct {
	webhooks webhook.Service
	log      *logrus.Logger
}

func NewWebhookHandler(webhooks webhook.Service, log *logrus.Logger) *WebhookHandler {
	return &WebhookHandler{webhooks: webhooks, log: log}
}

func (h *WebhookHandler) Receive(c *fiber.Ctx) error {
	provider := c.Params("provider")
	body := append([]byte(nil), c.Body()...)

	out, err := h.webhooks.Handle(c.UserContext(), webhook.Request{
		Provider:  provider,
		Signature: c.Get(webhook.SignatureHeader(provider)),
		Body:      body,
	})
	if err != nil {
		return respondError(c, h.log, err, "Failed to process webhook")
	}
	return response.Success(c, "Webhook processed", out)
}
