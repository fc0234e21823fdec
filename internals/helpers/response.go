// file: internals/helpers/response.go
package helper

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"classmanager_backend/internals/resperr"
)

// Success responds with the standard envelope and HTTP 200.
func Success(c *fiber.Ctx, message string, data interface{}) error {
	return SuccessWithCode(c, fiber.StatusOK, message, data)
}

// SuccessWithCode responds with the standard envelope and a custom code
// (e.g. 201 for created).
func SuccessWithCode(c *fiber.Ctx, code int, message string, data interface{}) error {
	return c.Status(code).JSON(fiber.Map{
		"code":    code,
		"status":  "success",
		"message": message,
		"data":    data,
	})
}

// JsonError responds with a plain error envelope.
func JsonError(c *fiber.Ctx, code int, message string) error {
	return c.Status(code).JSON(fiber.Map{
		"code":    code,
		"status":  "error",
		"message": message,
	})
}

// BizError maps a business error value to the envelope. Unknown error types
// degrade to a generic internal failure so no partial-state details leak.
func BizError(c *fiber.Ctx, err error) error {
	var be *resperr.Error
	if !errors.As(err, &be) {
		be = resperr.InternalServerError
	}
	body := fiber.Map{
		"code":      be.Status,
		"status":    "error",
		"statement": be.Statement,
		"message":   be.Message,
	}
	if be.Data != nil {
		body["data"] = be.Data
	}
	return c.Status(be.Status).JSON(body)
}

// ValidationError maps validator.v10 failures to a field→tag map.
func ValidationError(c *fiber.Ctx, err error) error {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return JsonError(c, fiber.StatusBadRequest, "invalid input")
	}
	errorsMap := make(map[string]string, len(ve))
	for _, fieldErr := range ve {
		errorsMap[fieldErr.Field()] = fieldErr.Tag()
	}
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"code":    fiber.StatusBadRequest,
		"status":  "error",
		"message": "validation failed",
		"errors":  errorsMap,
	})
}
