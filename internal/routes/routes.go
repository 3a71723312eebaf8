// Package routes wires the HTTP surface: public health and webhook endpoints,
// authenticated user routes and the admin group.
package routes

import (
	"time"

	"cultivate/internal/handlers"
	"cultivate/internal/middleware"
	"cultivate/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

// Handlers groups every handler the router mounts.
type Handlers struct {
	Health        *handlers.HealthHandler
	Profiles      *handlers.ProfileHandler
	Campaigns     *handlers.CampaignHandler
	Investments   *handlers.InvestmentHandler
	Payments      *handlers.PaymentHandler
	Transactions  *handlers.TransactionHandler
	Revenues      *handlers.RevenueHandler
	Payouts       *handlers.PayoutHandler
	Notifications *handlers.NotificationHandler
	AI            *handlers.AIHandler
	Webhooks      *handlers.WebhookHandler
}

// Limits caps requests per client IP per minute on the expensive routes.
// Zero disables the limiter.
type Limits struct {
	Webhooks int
	AI       int
}

func SetupRoutes(app *fiber.App, h Handlers, auth *middleware.AuthMiddleware, limits Limits) {
	app.Get("/health", h.Health.Check)

	api := app.Group("/api")

	// Processor callbacks carry their own signatures.
	api.Post("/webhooks/:provider", rateLimit(limits.Webhooks), h.Webhooks.Receive)

	protected := api.Group("", auth.Handler)

	// Profile bootstrap works before a profile exists.
	protected.Post("/profiles", h.Profiles.Create)
	protected.Get("/profiles/me", h.Profiles.Me)

	member := protected.Group("", middleware.RequireProfile())
	member.Put("/profiles/:id", h.Profiles.Update)

	setupCampaignRoutes(member, h)
	setupMoneyRoutes(member, h)
	setupNotificationRoutes(member, h)
	setupAIRoutes(member, h, limits)
	setupAdminRoutes(member, h)
}

func setupCampaignRoutes(router fiber.Router, h Handlers) {
	campaigns := router.Group("/campaigns")
	campaigns.Post("/", middleware.HasPermission(models.PermissionCampaignWrite), h.Campaigns.Create)
	campaigns.Get("/active", h.Campaigns.ListActive)
	campaigns.Get("/mine", h.Campaigns.ListMine)
	campaigns.Get("/:id", h.Campaigns.Get)
	campaigns.Patch("/:id/status", middleware.HasPermission(models.PermissionCampaignWrite), h.Campaigns.UpdateStatus)
	campaigns.Post("/:id/thumbnail", middleware.HasPermission(models.PermissionCampaignWrite), h.Campaigns.UploadThumbnail)
	campaigns.Get("/:id/investments", h.Campaigns.Investments)
	campaigns.Get("/:id/transactions", h.Campaigns.Transactions)
	campaigns.Get("/:id/revenue", h.Campaigns.Revenue)
}

func setupMoneyRoutes(router fiber.Router, h Handlers) {
	router.Post("/investments", middleware.HasPermission(models.PermissionInvestmentWrite), h.Investments.Create)
	router.Get("/investments/mine", h.Investments.ListMine)

	payments := router.Group("/payments")
	payments.Post("/", middleware.HasPermission(models.PermissionPaymentWrite), h.Payments.Create)
	payments.Get("/mine", h.Payments.ListMine)
	payments.Get("/:id", h.Payments.Get)
	payments.Patch("/:id/status", middleware.HasPermission(models.PermissionPaymentWrite), h.Payments.UpdateStatus)

	router.Get("/transactions", h.Transactions.ListMine)
	router.Get("/revenues/mine", h.Revenues.Mine)

	router.Post("/payouts", middleware.HasPermission(models.PermissionPayoutRequest), h.Payouts.Create)
	router.Get("/payouts/mine", h.Payouts.ListMine)
}

func setupNotificationRoutes(router fiber.Router, h Handlers) {
	notifications := router.Group("/notifications")
	notifications.Get("/", h.Notifications.List)
	notifications.Get("/unread-count", h.Notifications.UnreadCount)
	notifications.Get("/prioritized", h.Notifications.Prioritized)
	notifications.Post("/read-all", h.Notifications.MarkAllRead)
	notifications.Post("/:id/read", h.Notifications.MarkRead)
}

func setupAIRoutes(router fiber.Router, h Handlers, limits Limits) {
	ai := router.Group("/ai", middleware.HasPermission(models.PermissionAIUse), rateLimit(limits.AI))
	ai.Post("/ask", h.AI.Ask)
	ai.Post("/tasks/:task", h.AI.RunTask)
	ai.Post("/campaigns/:id/recommendations", h.AI.GenerateRecommendations)
	ai.Get("/campaigns/:id/recommendations", h.AI.Recommendations)
	ai.Post("/campaigns/:id/solution-plan", h.AI.SolutionPlan)
	ai.Post("/campaigns/:id/evaluation", h.AI.Evaluate)
	ai.Post("/campaigns/:id/forecast", h.AI.Forecast)
}

func setupAdminRoutes(router fiber.Router, h Handlers) {
	admin := router.Group("/admin", middleware.RequireRole(models.RoleAdmin))

	admin.Get("/profiles", middleware.HasPermission(models.PermissionReadAdmin), h.Profiles.ListByRole)
	admin.Get("/campaigns", middleware.HasPermission(models.PermissionReadAdmin), h.Campaigns.List)

	admin.Post("/investments/:id/funded", middleware.HasPermission(models.PermissionWriteAdmin), h.Investments.MarkFunded)
	admin.Post("/investments/:id/repay", middleware.HasPermission(models.PermissionWriteAdmin), h.Investments.Repay)

	admin.Get("/transactions", middleware.HasPermission(models.PermissionReadAdmin), h.Transactions.ListAll)
	admin.Post("/transactions", middleware.HasPermission(models.PermissionWriteAdmin), h.Transactions.Record)
	admin.Patch("/transactions/:id", middleware.HasPermission(models.PermissionWriteAdmin), h.Transactions.Reconcile)

	admin.Post("/revenues", middleware.HasPermission(models.PermissionWriteAdmin), h.Revenues.Record)
	admin.Get("/revenues", middleware.HasPermission(models.PermissionReadAdmin), h.Revenues.ListAll)
	admin.Get("/revenues/platform", middleware.HasPermission(models.PermissionReadAdmin), h.Revenues.Platform)
	admin.Patch("/revenues/:id/status", middleware.HasPermission(models.PermissionWriteAdmin), h.Revenues.UpdateStatus)

	admin.Get("/payouts", middleware.HasPermission(models.PermissionReadAdmin), h.Payouts.ListAll)
	admin.Post("/payouts/:id/approve", middleware.HasPermission(models.PermissionWriteAdmin), h.Payouts.Approve)
	admin.Post("/payouts/:id/reject", middleware.HasPermission(models.PermissionWriteAdmin), h.Payouts.Reject)
	admin.Post("/payouts/:id/complete", middleware.HasPermission(models.PermissionWriteAdmin), h.Payouts.Complete)
	admin.Get("/payouts/:id/audit", middleware.HasPermission(models.PermissionReadAdmin), h.Payouts.Audit)

	admin.Post("/notifications", middleware.HasPermission(models.PermissionWriteAdmin), h.Notifications.Create)
	admin.Post("/notifications/system", middleware.HasPermission(models.PermissionWriteAdmin), h.Notifications.TriggerSystem)
}

func rateLimit(perMinute int) fiber.Handler {
	if perMinute <= 0 {
		return func(c *fiber.Ctx) error { return c.Next() }
	}
	return limiter.New(limiter.Config{
		Max:        perMinute,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests. Please try again later.",
			})
		},
	})
}
