package controllers

import (
	"strconv"

	"github.com/odilorg/invoiceflow-saas-sub000/database"
	"github.com/odilorg/invoiceflow-saas-sub000/middlewares"
	"github.com/odilorg/invoiceflow-saas-sub000/models"
	"github.com/odilorg/invoiceflow-saas-sub000/utils"

	"github.com/gofiber/fiber/v2"
)

type TemplateInput struct {
	Name      string `json:"name" validate:"required"`
	Subject   string `json:"subject" validate:"required"`
	Body      string `json:"body" validate:"required"`
	IsDefault bool   `json:"is_default"`
}

type TemplateUpdateInput struct {
	Name      *string `json:"name"`
	Subject   *string `json:"subject"`
	Body      *string `json:"body"`
	IsDefault *bool   `json:"is_default"`
}

func templateID(c *fiber.Ctx) (uint, error) {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil || id <= 0 {
		return 0, fiber.NewError(fiber.StatusBadRequest, "invalid template id")
	}
	return uint(id), nil
}

func CreateTemplate(c *fiber.Ctx) error {
	var input TemplateInput
	if err := middlewares.BindAndValidate(c, &input); err != nil {
		return err
	}
	utils.NormalizeDTO(&input)

	userID := middlewares.UserID(c)
	db := database.FromCtx(c)

	template := models.Template{
		UserID:    userID,
		Name:      input.Name,
		Subject:   input.Subject,
		Body:      input.Body,
		IsDefault: input.IsDefault,
	}
	if input.IsDefault {
		// At most one default template per user, enforced on write.
		if err := db.Model(&models.Template{}).
			Where("user_id = ? AND is_default = ?", userID, true).
			Update("is_default", false).Error; err != nil {
			return err
		}
	}
	if err := db.Create(&template).Error; err != nil {
		c.Status(fiber.StatusBadRequest)
		return c.JSON(fiber.Map{
			"message": "Could not create template",
			"error":   err.Error(),
		})
	}
	return c.Status(201).JSON(template)
}

func GetTemplates(c *fiber.Ctx) error {
	var templates []models.Template
	db := database.FromCtx(c)
	db.Where("user_id = ?", middlewares.UserID(c)).Order("id ASC").Find(&templates)
	return c.JSON(fiber.Map{
		"templates": templates,
		"message":   "success",
	})
}

func GetTemplate(c *fiber.Ctx) error {
	id, err := templateID(c)
	if err != nil {
		return err
	}
	var template models.Template
	db := database.FromCtx(c)
	if err := db.Where("user_id = ?", middlewares.UserID(c)).
		First(&template, "id = ?", id).Error; err != nil {
		return fiber.NewError(fiber.StatusNotFound, "template not found")
	}
	return c.JSON(template)
}

func UpdateTemplate(c *fiber.Ctx) error {
	id, err := templateID(c)
	if err != nil {
		return err
	}
	var input TemplateUpdateInput
	if err := middlewares.BindAndValidate(c, &input); err != nil {
		return err
	}
	utils.NormalizePtrDTO(&input)

	userID := middlewares.UserID(c)
	db := database.FromCtx(c)

	var template models.Template
	if err := db.Where("user_id = ?", userID).First(&template, "id = ?", id).Error; err != nil {
		return fiber.NewError(fiber.StatusNotFound, "template not found")
	}

	if input.IsDefault != nil && *input.IsDefault {
		if err := db.Model(&models.Template{}).
			Where("user_id = ? AND id <> ? AND is_default = ?", userID, id, true).
			Update("is_default", false).Error; err != nil {
			return err
		}
	}

	updates := utils.UpdatesFromPtrDTO(&input, nil)
	if len(updates) > 0 {
		if err := db.Model(&template).Updates(updates).Error; err != nil {
			return err
		}
	}
	return c.JSON(template)
}

func DeleteTemplate(c *fiber.Ctx) error {
	id, err := templateID(c)
	if err != nil {
		return err
	}
	userID := middlewares.UserID(c)
	db := database.FromCtx(c)

	var template models.Template
	if err := db.Where("user_id = ?", userID).First(&template, "id = ?", id).Error; err != nil {
		return fiber.NewError(fiber.StatusNotFound, "template not found")
	}

	// Deleting a template still referenced by schedule steps is allowed;
	// the count is returned so the UI can warn.
	var inUse int64
	db.Model(&models.ScheduleStep{}).Where("template_id = ?", id).Count(&inUse)

	if err := db.Delete(&template).Error; err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"message":      "template deleted",
		"steps_in_use": inUse,
	})
}

// EnsureDefaultTemplates bootstraps the caller's baseline templates.
func EnsureDefaultTemplates(c *fiber.Ctx) error {
	templates, err := reminderService(c).EnsureDefaultTemplates(middlewares.UserID(c))
	if err != nil {
		return err
	}
	out := make([]fiber.Map, 0, len(templates))
	for _, t := range templates {
		out = append(out, fiber.Map{"id": t.ID, "name": t.Name})
	}
	return c.JSON(fiber.Map{"templates": out, "message": "success"})
}
