package controllers

import (
	"github.com/odilorg/invoiceflow-saas-sub000/database"
	"github.com/odilorg/invoiceflow-saas-sub000/middlewares"
	"github.com/odilorg/invoiceflow-saas-sub000/models"

	"github.com/gofiber/fiber/v2"
)

// GetInvoiceFollowUps lists all reminder events for one invoice, pending and
// historical alike.
func GetInvoiceFollowUps(c *fiber.Ctx) error {
	id, err := invoiceID(c)
	if err != nil {
		return err
	}

	db := database.FromCtx(c)
	var invoice models.Invoice
	if err := db.Where("user_id = ?", middlewares.UserID(c)).
		First(&invoice, "id = ?", id).Error; err != nil {
		return fiber.NewError(fiber.StatusNotFound, "invoice not found")
	}

	var followUps []models.FollowUp
	db.Where("invoice_id = ?", invoice.ID).
		Order("scheduled_date ASC, id ASC").
		Find(&followUps)
	return c.JSON(fiber.Map{
		"follow_ups": followUps,
		"message":    "success",
	})
}

// RegenerateInvoiceFollowUps rebuilds the pending reminder set for one
// invoice from its current schedule assignment.
func RegenerateInvoiceFollowUps(c *fiber.Ctx) error {
	id, err := invoiceID(c)
	if err != nil {
		return err
	}

	db := database.FromCtx(c)
	var invoice models.Invoice
	if err := db.Where("user_id = ?", middlewares.UserID(c)).
		First(&invoice, "id = ?", id).Error; err != nil {
		return fiber.NewError(fiber.StatusNotFound, "invoice not found")
	}

	if err := reminderService(c).RegenerateFollowUpsForInvoice(invoice.ID); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "follow-ups regenerated"})
}

// GetEmailLogs lists the caller's send history, newest first.
func GetEmailLogs(c *fiber.Ctx) error {
	var logs []models.EmailLog
	db := database.FromCtx(c)
	db.Where("user_id = ?", middlewares.UserID(c)).
		Order("sent_at DESC").
		Limit(200).
		Find(&logs)
	return c.JSON(fiber.Map{
		"email_logs": logs,
		"message":    "success",
	})
}
