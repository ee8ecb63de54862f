package controllers

import (
	"strconv"

	"github.com/odilorg/invoiceflow-saas-sub000/database"
	"github.com/odilorg/invoiceflow-saas-sub000/middlewares"
	"github.com/odilorg/invoiceflow-saas-sub000/models"
	"github.com/odilorg/invoiceflow-saas-sub000/utils"

	"github.com/gofiber/fiber/v2"
)

type ScheduleStepInput struct {
	DayOffset  int  `json:"day_offset"`
	Order      int  `json:"order" validate:"required,gt=0"`
	TemplateID uint `json:"template_id" validate:"required"`
}

type ScheduleInput struct {
	Name      string              `json:"name" validate:"required"`
	IsActive  *bool               `json:"is_active"`
	IsDefault bool                `json:"is_default"`
	Steps     []ScheduleStepInput `json:"steps" validate:"required,min=1,dive"`
}

type ScheduleUpdateInput struct {
	Name     *string `json:"name"`
	IsActive *bool   `json:"is_active"`
	// Replaces the whole step list when present; dependent invoices are
	// regenerated afterwards.
	Steps []ScheduleStepInput `json:"steps" validate:"omitempty,min=1,dive"`
}

func scheduleID(c *fiber.Ctx) (uint, error) {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil || id <= 0 {
		return 0, fiber.NewError(fiber.StatusBadRequest, "invalid schedule id")
	}
	return uint(id), nil
}

func buildSteps(inputs []ScheduleStepInput) []models.ScheduleStep {
	steps := make([]models.ScheduleStep, 0, len(inputs))
	for _, in := range inputs {
		steps = append(steps, models.ScheduleStep{
			DayOffset:  in.DayOffset,
			StepOrder:  in.Order,
			TemplateID: in.TemplateID,
		})
	}
	return steps
}

func CreateSchedule(c *fiber.Ctx) error {
	var input ScheduleInput
	if err := middlewares.BindAndValidate(c, &input); err != nil {
		return err
	}
	utils.NormalizeDTO(&input)

	userID := middlewares.UserID(c)
	db := database.FromCtx(c)

	schedule := models.Schedule{
		UserID:   userID,
		Name:     input.Name,
		IsActive: input.IsActive == nil || *input.IsActive,
		Steps:    buildSteps(input.Steps),
	}
	if err := db.Create(&schedule).Error; err != nil {
		c.Status(fiber.StatusBadRequest)
		return c.JSON(fiber.Map{
			"message": "Could not create schedule",
			"error":   err.Error(),
		})
	}

	svc := reminderService(c)
	if input.IsDefault {
		if _, err := svc.SetScheduleAsDefault(schedule.ID, userID); err != nil {
			return err
		}
		// Invoices riding on the default schedule now follow this one.
		if err := svc.RegenerateAllFollowUps(userID); err != nil {
			return err
		}
	}

	db.Preload("Steps").Preload("Steps.Template").First(&schedule, schedule.ID)
	return c.Status(201).JSON(schedule)
}

func GetSchedules(c *fiber.Ctx) error {
	var schedules []models.Schedule
	db := database.FromCtx(c)
	db.Preload("Steps").Preload("Steps.Template").
		Where("user_id = ?", middlewares.UserID(c)).
		Order("updated_at DESC").
		Find(&schedules)
	return c.JSON(fiber.Map{
		"schedules": schedules,
		"message":   "success",
	})
}

func GetSchedule(c *fiber.Ctx) error {
	id, err := scheduleID(c)
	if err != nil {
		return err
	}
	var schedule models.Schedule
	db := database.FromCtx(c)
	if err := db.Preload("Steps").Preload("Steps.Template").
		Where("user_id = ?", middlewares.UserID(c)).
		First(&schedule, "id = ?", id).Error; err != nil {
		return fiber.NewError(fiber.StatusNotFound, "schedule not found")
	}
	return c.JSON(schedule)
}

func UpdateSchedule(c *fiber.Ctx) error {
	id, err := scheduleID(c)
	if err != nil {
		return err
	}
	var input ScheduleUpdateInput
	if err := middlewares.BindAndValidate(c, &input); err != nil {
		return err
	}
	utils.NormalizePtrDTO(&input)

	userID := middlewares.UserID(c)
	db := database.FromCtx(c)
	svc := reminderService(c)

	var schedule models.Schedule
	if err := db.Where("user_id = ?", userID).First(&schedule, "id = ?", id).Error; err != nil {
		return fiber.NewError(fiber.StatusNotFound, "schedule not found")
	}

	if input.IsActive != nil && !*input.IsActive {
		decision, err := svc.CanDeactivateSchedule(id, userID)
		if err != nil {
			return err
		}
		if !decision.Allowed {
			return c.Status(fiber.StatusConflict).JSON(decision)
		}
	}

	updates := map[string]any{}
	if input.Name != nil {
		updates["name"] = *input.Name
	}
	if input.IsActive != nil {
		updates["is_active"] = *input.IsActive
	}
	if len(updates) > 0 {
		if err := db.Model(&schedule).Updates(updates).Error; err != nil {
			return err
		}
	}

	stepsChanged := input.Steps != nil
	if stepsChanged {
		if err := db.Where("schedule_id = ?", schedule.ID).
			Delete(&models.ScheduleStep{}).Error; err != nil {
			return err
		}
		steps := buildSteps(input.Steps)
		for i := range steps {
			steps[i].ScheduleID = schedule.ID
		}
		if err := db.Create(&steps).Error; err != nil {
			c.Status(fiber.StatusBadRequest)
			return c.JSON(fiber.Map{
				"message": "Could not update schedule steps",
				"error":   err.Error(),
			})
		}
		// Every pending invoice following this plan must pick up the change.
		if err := svc.RegenerateAllFollowUps(userID); err != nil {
			return err
		}
	}

	db.Preload("Steps").Preload("Steps.Template").First(&schedule, schedule.ID)
	return c.JSON(schedule)
}

func DeleteSchedule(c *fiber.Ctx) error {
	id, err := scheduleID(c)
	if err != nil {
		return err
	}
	userID := middlewares.UserID(c)
	svc := reminderService(c)

	decision, err := svc.CanDeleteSchedule(id, userID)
	if err != nil {
		return err
	}
	if !decision.Allowed {
		return c.Status(fiber.StatusConflict).JSON(decision)
	}

	db := database.FromCtx(c)
	// Invoices pinned to this schedule fall back to the user's default.
	if err := db.Model(&models.Invoice{}).
		Where("user_id = ? AND schedule_id = ?", userID, id).
		Update("schedule_id", nil).Error; err != nil {
		return err
	}
	if err := db.Where("schedule_id = ?", id).Delete(&models.ScheduleStep{}).Error; err != nil {
		return err
	}
	if err := db.Delete(&models.Schedule{}, "id = ?", id).Error; err != nil {
		return err
	}
	if err := svc.RegenerateAllFollowUps(userID); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "schedule deleted"})
}

func SetDefaultSchedule(c *fiber.Ctx) error {
	id, err := scheduleID(c)
	if err != nil {
		return err
	}
	userID := middlewares.UserID(c)
	svc := reminderService(c)

	schedule, err := svc.SetScheduleAsDefault(id, userID)
	if err != nil {
		return err
	}
	// Invoices without an explicit assignment follow the default.
	if err := svc.RegenerateAllFollowUps(userID); err != nil {
		return err
	}
	return c.JSON(schedule)
}

// EnsureDefaultSchedule bootstraps (or repairs) the caller's default schedule.
func EnsureDefaultSchedule(c *fiber.Ctx) error {
	schedule, err := reminderService(c).EnsureDefaultSchedule(middlewares.UserID(c))
	if err != nil {
		return err
	}
	return c.JSON(schedule)
}
