package server

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gofiber/fiber/v3"
	"github.com/init-pkg/trade-disclosure/domain/errs"
)

type ErrorResponse struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Kind    string            `json:"kind,omitempty"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// Response is the success envelope shared by the JSON endpoints.
type Response[T any] struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    T      `json:"data,omitempty"`
}

func OK[T any](c fiber.Ctx, data T) error {
	return c.JSON(Response[T]{Success: true, Data: data})
}

func ErrorHandler(log *slog.Logger) fiber.ErrorHandler {
	return func(c fiber.Ctx, err error) error {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			return c.Status(fe.Code).JSON(ErrorResponse{Message: fe.Message})
		}

		kind := errs.KindOf(err)
		status := errs.HttpStatus(kind)

		res := ErrorResponse{Kind: string(kind), Message: "internal server error"}
		var appErr errs.Error
		if errors.As(err, &appErr) && status < http.StatusInternalServerError {
			res.Message = appErr.Message()
			res.Fields = appErr.Fields()
		}

		if status >= http.StatusInternalServerError {
			log.Error("request failed", "method", c.Method(), "path", c.Path(), "kind", kind, "error", err)
		} else {
			log.Warn("request rejected", "method", c.Method(), "path", c.Path(), "kind", kind, "error", err)
		}

		return c.Status(status).JSON(res)
	}
}
