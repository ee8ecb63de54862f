package middlewares

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

// BindAndValidate parses the request body into dst and validates it.
// Parse failures return 400; validation failures come back as
// validator.ValidationErrors for the central error handler to translate.
func BindAndValidate(c *fiber.Ctx, dst interface{}) error {
	if err := c.BodyParser(dst); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	// Slice payloads need per-element ValidateStruct calls in the controller.
	return validate.Struct(dst)
}

// ValidateStruct validates any struct value with the shared validator instance.
func ValidateStruct(v interface{}) error {
	return validate.Struct(v)
}
