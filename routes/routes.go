package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/odilorg/invoiceflow-saas-sub000/controllers"
	"github.com/odilorg/invoiceflow-saas-sub000/middlewares"
)

// Register wires all HTTP routes.
func Register(app *fiber.App) {
	api := app.Group("/api")

	// Public auth endpoints
	api.Post("/registration", controllers.Register)
	api.Post("/login", controllers.Login)
	api.Post("/logout", controllers.Logout)

	// Protected endpoints (JWT auth)
	protected := api.Group("")
	protected.Use(middlewares.IsAuthenticatedHeader())

	// Idempotency guard FIRST (not tied to request TX)
	protected.Use(middlewares.Idempotency())

	// Then per-request transaction (commits/rolls back around the handler)
	protected.Use(middlewares.RequestTx())

	// Invoices
	protected.Post("/invoice", controllers.CreateInvoice)
	protected.Get("/invoices", controllers.GetInvoices)
	protected.Get("/invoice/:id", controllers.GetInvoice)
	protected.Put("/invoices/:id", controllers.UpdateInvoice)
	protected.Post("/invoices/:id/reminders/pause", controllers.PauseInvoiceReminders)
	protected.Post("/invoices/:id/reminders/resume", controllers.ResumeInvoiceReminders)
	protected.Get("/invoices/:id/follow-ups", controllers.GetInvoiceFollowUps)
	protected.Post("/invoices/:id/follow-ups/regenerate", controllers.RegenerateInvoiceFollowUps)

	// Schedules
	protected.Post("/schedule", controllers.CreateSchedule)
	protected.Get("/schedules", controllers.GetSchedules)
	protected.Get("/schedule/:id", controllers.GetSchedule)
	protected.Put("/schedules/:id", controllers.UpdateSchedule)
	protected.Delete("/schedules/:id", controllers.DeleteSchedule)
	protected.Put("/schedules/:id/default", controllers.SetDefaultSchedule)
	protected.Post("/schedules/default", controllers.EnsureDefaultSchedule)

	// Templates
	protected.Post("/template", controllers.CreateTemplate)
	protected.Get("/templates", controllers.GetTemplates)
	protected.Get("/template/:id", controllers.GetTemplate)
	protected.Put("/templates/:id", controllers.UpdateTemplate)
	protected.Delete("/templates/:id", controllers.DeleteTemplate)
	protected.Post("/templates/defaults", controllers.EnsureDefaultTemplates)

	// Email history
	protected.Get("/email-logs", controllers.GetEmailLogs)
}
