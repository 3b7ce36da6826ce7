package controllers

import (
	"errors"

	"go-checkout-flow/src/services/errs"

	"github.com/gofiber/fiber/v2"
)

// statusFromError maps the checkout error taxonomy onto HTTP status codes.
// Timeout maps to 408 so clients can distinguish "still pending, re-check"
// from a payment failure; conflicts surface as 409 without internals.
func statusFromError(err error) int {
	switch {
	case errors.Is(err, errs.ErrValidation):
		return fiber.StatusBadRequest
	case errors.Is(err, errs.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, errs.ErrInsufficientStock):
		return fiber.StatusUnprocessableEntity
	case errors.Is(err, errs.ErrConflict):
		return fiber.StatusConflict
	case errors.Is(err, errs.ErrTimeout):
		return fiber.StatusRequestTimeout
	default:
		return fiber.StatusInternalServerError
	}
}

func errorJSON(ctx *fiber.Ctx, err error) error {
	return ctx.Status(statusFromError(err)).JSON(fiber.Map{"error": err.Error()})
}
