package httpx

import (
	"strings"

	"github.com/barstock/revisor/internal/apperr"
	"github.com/barstock/revisor/internal/pagination"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Pagination reads page, pageSize and search from the query string. Missing
// or malformed numbers are left at zero for Params.Normalize to default.
func Pagination(c *fiber.Ctx) pagination.Params {
	return pagination.Params{
		Page:     c.QueryInt("page", 0),
		PageSize: c.QueryInt("pageSize", 0),
		Search:   strings.TrimSpace(c.Query("search")),
	}
}

func UUIDParam(c *fiber.Ctx, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(name))
	if err != nil {
		return uuid.Nil, apperr.Validation("Invalid " + name)
	}
	return id, nil
}
