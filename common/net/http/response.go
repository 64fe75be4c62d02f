package http

import (
	"github.com/fernbank/core/common"
	"github.com/gofiber/fiber/v2"
)

// envelope is the JSON error body shape of spec.md §6:
// `{status:"error", code, message}`.
type envelope struct {
	Status  string `json:"status"`
	Code    string `json:"code,omitempty"`
	Title   string `json:"title,omitempty"`
	Message string `json:"message,omitempty"`
}

func errorResponse(c *fiber.Ctx, status int, code, title, message string) error {
	return c.Status(status).JSON(envelope{
		Status:  "error",
		Code:    code,
		Title:   title,
		Message: message,
	})
}

// OK returns HTTP 200 with body as the JSON payload.
func OK(c *fiber.Ctx, body any) error {
	return c.Status(fiber.StatusOK).JSON(body)
}

// Created returns HTTP 201 with body as the JSON payload.
func Created(c *fiber.Ctx, body any) error {
	return c.Status(fiber.StatusCreated).JSON(body)
}

// Accepted returns HTTP 202, used by NEFT submit (spec.md §7: NEFT_OUTSIDE_WINDOW
// is informational; submission is still accepted as PENDING).
func Accepted(c *fiber.Ctx, body any) error {
	return c.Status(fiber.StatusAccepted).JSON(body)
}

// NoContent returns HTTP 204 with an empty body.
func NoContent(c *fiber.Ctx) error {
	return c.SendStatus(fiber.StatusNoContent)
}

// NotFound returns HTTP 404 with the given error code/title/message.
func NotFound(c *fiber.Ctx, code, title, message string) error {
	return errorResponse(c, fiber.StatusNotFound, code, title, message)
}

// Conflict returns HTTP 409 with the given error code/title/message.
func Conflict(c *fiber.Ctx, code, title, message string) error {
	return errorResponse(c, fiber.StatusConflict, code, title, message)
}

// BadRequest returns HTTP 400. err is either a ValidationKnownFieldsError (field-level
// detail) or any error whose Error() becomes the envelope message.
func BadRequest(c *fiber.Ctx, err error) error {
	switch e := err.(type) {
	case common.ValidationKnownFieldsError:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status":  "error",
			"code":    e.Code,
			"title":   e.Title,
			"message": e.Message,
			"fields":  e.Fields,
		})
	case common.ValidationUnknownFieldsError:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status":  "error",
			"code":    e.Code,
			"title":   e.Title,
			"message": e.Message,
			"fields":  e.Fields,
		})
	default:
		return errorResponse(c, fiber.StatusBadRequest, "VALIDATION_ERROR", "Validation error", err.Error())
	}
}

// UnprocessableEntity returns HTTP 422 with the given error code/title/message.
func UnprocessableEntity(c *fiber.Ctx, code, title, message string) error {
	return errorResponse(c, fiber.StatusUnprocessableEntity, code, title, message)
}

// Unauthorized returns HTTP 401 with the given error code/title/message.
func Unauthorized(c *fiber.Ctx, code, title, message string) error {
	return errorResponse(c, fiber.StatusUnauthorized, code, title, message)
}

// Forbidden returns HTTP 403 with the given error code/title/message.
func Forbidden(c *fiber.Ctx, code, title, message string) error {
	return errorResponse(c, fiber.StatusForbidden, code, title, message)
}

// InternalServerError returns HTTP 500 with the given error code/title/message.
// No stack trace or PII is ever included (spec.md §7).
func InternalServerError(c *fiber.Ctx, code, title, message string) error {
	return errorResponse(c, fiber.StatusInternalServerError, code, title, message)
}

// JSONResponseError uses err.Code as the HTTP status (500 when zero) and returns err's Title/Message in the error envelope.
func JSONResponseError(c *fiber.Ctx, err common.ResponseError) error {
	status := err.Code
	if status == 0 {
		status = fiber.StatusInternalServerError
	}

	return c.Status(status).JSON(envelope{
		Status:  "error",
		Title:   err.Title,
		Message: err.Message,
	})
}
