package controllers

import (
	"strconv"
	"time"

	"github.com/odilorg/invoiceflow-saas-sub000/database"
	"github.com/odilorg/invoiceflow-saas-sub000/middlewares"
	"github.com/odilorg/invoiceflow-saas-sub000/models"
	"github.com/odilorg/invoiceflow-saas-sub000/reminder"
	"github.com/odilorg/invoiceflow-saas-sub000/utils"

	"github.com/gofiber/fiber/v2"
)

type InvoiceInput struct {
	InvoiceNumber string  `json:"invoice_number" validate:"required"`
	ClientName    string  `json:"client_name" validate:"required"`
	ClientEmail   string  `json:"client_email" validate:"required,email"`
	Amount        float64 `json:"amount" validate:"required,gt=0"`
	Currency      string  `json:"currency" validate:"omitempty,len=3"`
	DueDate       string  `json:"due_date" validate:"required,datetime=2006-01-02"`
	Notes         string  `json:"notes"`
	ScheduleID    *uint   `json:"schedule_id"`
}

type InvoiceUpdateInput struct {
	InvoiceNumber *string  `json:"invoice_number"`
	ClientName    *string  `json:"client_name"`
	ClientEmail   *string  `json:"client_email" validate:"omitempty,email"`
	Amount        *float64 `json:"amount" validate:"omitempty,gt=0"`
	Currency      *string  `json:"currency" validate:"omitempty,len=3"`
	DueDate       *string  `json:"due_date" validate:"omitempty,datetime=2006-01-02"`
	Notes         *string  `json:"notes"`
	ScheduleID    *uint    `json:"schedule_id"`
	Status        *string  `json:"status" validate:"omitempty,oneof=PENDING PAID OVERDUE CANCELLED"`

	// Required decision when moving the due date of an invoice whose
	// reminders are exhausted or paused: true regenerates and resets the
	// reminder state, false updates the date only.
	RestartReminders *bool `json:"restart_reminders"`
}

func reminderService(c *fiber.Ctx) *reminder.Service {
	return reminder.NewService(reminder.NewGormStore(database.FromCtx(c)))
}

func invoiceID(c *fiber.Ctx) (uint, error) {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil || id <= 0 {
		return 0, fiber.NewError(fiber.StatusBadRequest, "invalid invoice id")
	}
	return uint(id), nil
}

func CreateInvoice(c *fiber.Ctx) error {
	var input InvoiceInput
	if err := middlewares.BindAndValidate(c, &input); err != nil {
		return err
	}
	utils.NormalizeDTO(&input)

	dueDate, err := time.Parse("2006-01-02", input.DueDate)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid due date")
	}
	if input.Currency == "" {
		input.Currency = "USD"
	}

	db := database.FromCtx(c)
	invoice := models.Invoice{
		UserID:           middlewares.UserID(c),
		InvoiceNumber:    input.InvoiceNumber,
		ClientName:       input.ClientName,
		ClientEmail:      input.ClientEmail,
		Amount:           utils.Round2(input.Amount),
		Currency:         input.Currency,
		DueDate:          dueDate,
		Status:           models.InvoiceStatusPending,
		Notes:            input.Notes,
		ScheduleID:       input.ScheduleID,
		RemindersEnabled: true,
	}
	if err := db.Create(&invoice).Error; err != nil {
		c.Status(fiber.StatusBadRequest)
		return c.JSON(fiber.Map{
			"message": "Could not create invoice",
			"error":   err.Error(),
		})
	}

	if err := reminderService(c).GenerateFollowUps(invoice.ID, input.ScheduleID); err != nil {
		return err
	}

	db.Preload("Schedule").First(&invoice, invoice.ID)
	return c.Status(201).JSON(invoice)
}

func GetInvoices(c *fiber.Ctx) error {
	var invoices []models.Invoice
	db := database.FromCtx(c)
	db.Where("user_id = ?", middlewares.UserID(c)).
		Order("due_date ASC").
		Find(&invoices)
	return c.JSON(fiber.Map{
		"invoices": invoices,
		"message":  "success",
	})
}

func GetInvoice(c *fiber.Ctx) error {
	id, err := invoiceID(c)
	if err != nil {
		return err
	}
	var invoice models.Invoice
	db := database.FromCtx(c)
	if err := db.Preload("Schedule").
		Where("user_id = ?", middlewares.UserID(c)).
		First(&invoice, "id = ?", id).Error; err != nil {
		return fiber.NewError(fiber.StatusNotFound, "invoice not found")
	}
	return c.JSON(invoice)
}

func UpdateInvoice(c *fiber.Ctx) error {
	id, err := invoiceID(c)
	if err != nil {
		return err
	}

	var input InvoiceUpdateInput
	if err := middlewares.BindAndValidate(c, &input); err != nil {
		return err
	}
	utils.NormalizePtrDTO(&input)

	db := database.FromCtx(c)
	userID := middlewares.UserID(c)

	var invoice models.Invoice
	if err := db.Where("user_id = ?", userID).First(&invoice, "id = ?", id).Error; err != nil {
		return fiber.NewError(fiber.StatusNotFound, "invoice not found")
	}

	updates := utils.UpdatesFromPtrDTO(&input, nil)
	delete(updates, "restart_reminders")

	var newDueDate time.Time
	dueChanged := false
	if input.DueDate != nil {
		newDueDate, err = time.Parse("2006-01-02", *input.DueDate)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid due date")
		}
		updates["due_date"] = newDueDate
		dueChanged = !newDueDate.Equal(invoice.DueDate)
	}
	if input.Amount != nil {
		updates["amount"] = utils.Round2(*input.Amount)
	}

	// Moving the due date of an invoice whose reminders have run out (or
	// were paused/marked overdue) needs an explicit caller decision.
	needsDecision := dueChanged &&
		(invoice.Status == models.InvoiceStatusOverdue ||
			invoice.RemindersCompleted ||
			!invoice.RemindersEnabled)
	if needsDecision && input.RestartReminders == nil {
		return fiber.NewError(fiber.StatusConflict,
			"due date change requires a restart_reminders decision")
	}
	restart := needsDecision && *input.RestartReminders
	if restart {
		now := time.Now().UTC()
		updates["reminders_completed"] = false
		updates["reminders_enabled"] = true
		updates["reminders_paused_reason"] = ""
		updates["reminders_reset_at"] = now
		if invoice.Status == models.InvoiceStatusOverdue && input.Status == nil {
			updates["status"] = models.InvoiceStatusPending
		}
	}

	prevStatus := invoice.Status
	if err := db.Model(&invoice).Updates(updates).Error; err != nil {
		c.Status(fiber.StatusBadRequest)
		return c.JSON(fiber.Map{
			"message": "Could not update invoice",
			"error":   err.Error(),
		})
	}

	svc := reminderService(c)
	newStatus := prevStatus
	if input.Status != nil {
		newStatus = *input.Status
	}

	switch {
	case newStatus != models.InvoiceStatusPending && newStatus != prevStatus:
		// Invoice left PENDING: preserve its pending reminders as history.
		if err := svc.SkipPendingFollowUps(invoice.ID); err != nil {
			return err
		}
	case restart,
		newStatus == models.InvoiceStatusPending && !needsDecision &&
			(dueChanged || input.Amount != nil || input.ScheduleID != nil ||
				newStatus != prevStatus):
		if err := svc.RegenerateFollowUpsForInvoice(invoice.ID); err != nil {
			return err
		}
	}

	db.Preload("Schedule").First(&invoice, invoice.ID)
	return c.JSON(invoice)
}

type PauseRemindersInput struct {
	Reason string `json:"reason"`
}

func PauseInvoiceReminders(c *fiber.Ctx) error {
	id, err := invoiceID(c)
	if err != nil {
		return err
	}
	var input PauseRemindersInput
	_ = c.BodyParser(&input) // reason is optional

	db := database.FromCtx(c)
	res := db.Model(&models.Invoice{}).
		Where("id = ? AND user_id = ?", id, middlewares.UserID(c)).
		Updates(map[string]any{
			"reminders_enabled":       false,
			"reminders_paused_reason": input.Reason,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fiber.NewError(fiber.StatusNotFound, "invoice not found")
	}
	return c.JSON(fiber.Map{"message": "reminders paused"})
}

func ResumeInvoiceReminders(c *fiber.Ctx) error {
	id, err := invoiceID(c)
	if err != nil {
		return err
	}
	db := database.FromCtx(c)
	res := db.Model(&models.Invoice{}).
		Where("id = ? AND user_id = ?", id, middlewares.UserID(c)).
		Updates(map[string]any{
			"reminders_enabled":       true,
			"reminders_paused_reason": "",
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fiber.NewError(fiber.StatusNotFound, "invoice not found")
	}
	return c.JSON(fiber.Map{"message": "reminders resumed"})
}
