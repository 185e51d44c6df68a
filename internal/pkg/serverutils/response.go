package serverutils

import (
	"errors"

	"activity-tracker-be/internal/classifier"
	"activity-tracker-be/internal/monitor"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

type Response struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func SuccessResponse(message string, data interface{}) Response {
	return Response{Message: message, Data: data}
}

// ValidateRequest runs struct-tag validation on a parsed request body.
func ValidateRequest(req interface{}) error {
	if err := validate.Struct(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return nil
}

// ErrorHandlerMiddleware maps service errors to HTTP status codes.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return ctx.Status(fiberErr.Code).JSON(Response{Message: fiberErr.Message})
		}

		status := fiber.StatusInternalServerError
		switch {
		case errors.Is(err, classifier.ErrRuleNotFound):
			status = fiber.StatusNotFound
		case errors.Is(err, classifier.ErrInvalidRule),
			errors.Is(err, classifier.ErrCorruptImport),
			errors.Is(err, monitor.ErrInvalidConfig):
			status = fiber.StatusBadRequest
		case errors.Is(err, monitor.ErrAlreadyRunning):
			status = fiber.StatusConflict
		}
		return ctx.Status(status).JSON(Response{Message: err.Error()})
	}
}
