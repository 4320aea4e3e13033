package inventory

import (
	"github.com/barstock/revisor/internal/auth"
	"github.com/barstock/revisor/internal/httpx"

	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(r fiber.Router, svc *Service, v *httpx.Validator) {
	r.Get("/inventory", ListHandler(svc))
	r.Post("/inventory", CreateHandler(svc, v))
	r.Get("/inventory/:id", GetHandler(svc))
	r.Put("/inventory/:id", UpdateHandler(svc, v))
	r.Delete("/inventory/:id", DeleteHandler(svc))
}

func ListHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		page, err := svc.List(c.UserContext(), auth.CallerID(c), httpx.Pagination(c))
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{
			"success":     true,
			"data":        page.Items,
			"total":       page.Total,
			"totalPages":  page.TotalPages,
			"currentPage": page.CurrentPage,
			"pageSize":    page.PageSize,
		})
	}
}

func GetHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := httpx.UUIDParam(c, "id")
		if err != nil {
			return err
		}
		item, err := svc.Get(c.UserContext(), auth.CallerID(c), id)
		if err != nil {
			return err
		}
		return httpx.OK(c, item)
	}
}

func CreateHandler(svc *Service, v *httpx.Validator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body Input
		if err := v.Bind(c, &body); err != nil {
			return err
		}
		item, err := svc.Create(c.UserContext(), auth.CallerID(c), body)
		if err != nil {
			return err
		}
		return httpx.Created(c, item)
	}
}

func UpdateHandler(svc *Service, v *httpx.Validator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := httpx.UUIDParam(c, "id")
		if err != nil {
			return err
		}
		var body Input
		if err := v.Bind(c, &body); err != nil {
			return err
		}
		item, err := svc.Update(c.UserContext(), auth.CallerID(c), id, body)
		if err != nil {
			return err
		}
		return httpx.OK(c, item)
	}
}

func DeleteHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := httpx.UUIDParam(c, "id")
		if err != nil {
			return err
		}
		if err := svc.Delete(c.UserContext(), auth.CallerID(c), id); err != nil {
			return err
		}
		return httpx.OK(c, fiber.Map{"id": id})
	}
}
