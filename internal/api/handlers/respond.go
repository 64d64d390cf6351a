package handlers

import (
	"errors"
	"strconv"
	"strings"

	"budget-server/internal/dto"
	"budget-server/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// respondError maps service errors onto HTTP responses. Unknown errors are
// logged and reported as 500.
func respondError(c *fiber.Ctx, logger *zap.Logger, err error, action string) error {
	var ve *service.ValidationError
	switch {
	case errors.Is(err, service.ErrUnauthenticated):
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Message: "Unauthorized"})
	case errors.Is(err, service.ErrNotFound):
		return c.SendStatus(fiber.StatusNotFound)
	case errors.Is(err, service.ErrInvalidBudget):
		return badRequest(c, "Invalid budget ID")
	case errors.Is(err, service.ErrInvalidDate):
		return badRequest(c, "Invalid date")
	case errors.As(err, &ve):
		return badRequest(c, ve.Message)
	case errors.Is(err, service.ErrUserExists):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Message: "User already exists"})
	case errors.Is(err, service.ErrInvalidCredentials):
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Message: "Invalid credentials"})
	}

	logger.Error(action+" failed", zap.Error(err), zap.String("path", c.Path()))
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Message: "Internal server error"})
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Message: message})
}

// pathID parses the :id route parameter.
func pathID(c *fiber.Ctx) (int64, bool) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	return id, err == nil
}

// queryIDs collects a repeatable, comma separated id parameter. Unparseable
// entries are skipped, and nil means no filter: the parameter was absent or
// none of its entries was an id.
func queryIDs(c *fiber.Ctx, key string) []int64 {
	values := c.Context().QueryArgs().PeekMulti(key)
	if len(values) == 0 {
		return nil
	}

	var ids []int64
	for _, value := range values {
		for _, part := range strings.Split(string(value), ",") {
			id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
			if err != nil {
				continue
			}
			ids = append(ids, id)
		}
	}
	return ids
}
