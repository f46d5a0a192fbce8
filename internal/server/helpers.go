// Package server contains HTTP and WebSocket handlers for the application's API endpoints.
package server

import (
	"errors"

	"ladle/internal/models"

	"github.com/gofiber/fiber/v2"
)

// errResponseWritten is a sentinel indicating the HTTP response was already
// committed by a helper. Handlers must return nil (not this error) to avoid
// Fiber's ErrorHandler overwriting the response.
var errResponseWritten = errors.New("response already written")

// Pagination holds parsed limit/offset query parameters.
type Pagination struct {
	Limit  int
	Offset int
}

const maxPaginationLimit = 100

// parsePagination extracts limit and offset query parameters with the given default limit.
func parsePagination(c *fiber.Ctx, defaultLimit int) Pagination {
	limit := c.QueryInt("limit", defaultLimit)
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxPaginationLimit {
		limit = maxPaginationLimit
	}

	offset := c.QueryInt("offset", 0)
	if offset < 0 {
		offset = 0
	}

	return Pagination{
		Limit:  limit,
		Offset: offset,
	}
}

// parseID extracts a route parameter by name as a positive uint.
// On failure it writes a 400 JSON response and returns errResponseWritten.
// Callers should check: if err != nil { return nil }
func (s *Server) parseID(c *fiber.Ctx, param string) (uint, error) {
	id, err := c.ParamsInt(param)
	if err != nil || id <= 0 {
		label := "ID"
		if param == "commentId" {
			label = "comment ID"
		}
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid "+label))
		return 0, errResponseWritten
	}
	return uint(id), nil
}

// identity returns the authenticated caller set by the auth middleware.
func (s *Server) identity(c *fiber.Ctx) (models.Identity, error) {
	identity, ok := c.Locals("identity").(models.Identity)
	if !ok {
		_ = models.RespondWithError(c, fiber.StatusUnauthorized,
			models.NewUnauthorizedError("Authentication required"))
		return models.Identity{}, errResponseWritten
	}
	return identity, nil
}

// optionalIdentity extracts the caller's identity when a valid token is
// present but never enforces it. Anonymous callers get the zero Identity.
func (s *Server) optionalIdentity(c *fiber.Ctx) models.Identity {
	if identity, ok := c.Locals("identity").(models.Identity); ok {
		return identity
	}
	return models.Identity{}
}

// fail writes the error response with the status derived from the error's code.
func fail(c *fiber.Ctx, err error) error {
	return models.RespondWithError(c, models.StatusForError(err), err)
}
