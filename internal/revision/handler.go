package revision

import (
	"github.com/barstock/revisor/internal/auth"
	"github.com/barstock/revisor/internal/httpx"

	"github.com/gofiber/fiber/v2"
)

// UpdateCountRequest carries the new counted quantity. A JSON null clears it.
type UpdateCountRequest struct {
	CountedQuantity *float64 `json:"countedQuantity" validate:"omitempty,gte=0"`
}

// RegisterRoutes mounts the revision endpoints on an authenticated router.
func RegisterRoutes(r fiber.Router, svc *Service, v *httpx.Validator) {
	r.Post("/revisions", CreateHandler(svc))
	r.Get("/revisions", ListHandler(svc))
	r.Patch("/revisions/items/:itemId", UpdateItemCountHandler(svc, v))
	r.Get("/revisions/:id", GetHandler(svc))
	r.Post("/revisions/:id/complete", CompleteHandler(svc))
	r.Delete("/revisions/:id", DeleteHandler(svc))
}

func CreateHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := svc.Create(c.UserContext(), auth.CallerID(c))
		if err != nil {
			return err
		}
		return httpx.Created(c, fiber.Map{"id": id})
	}
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
		detail, err := svc.Get(c.UserContext(), auth.CallerID(c), id)
		if err != nil {
			return err
		}
		return httpx.OK(c, detail)
	}
}

func UpdateItemCountHandler(svc *Service, v *httpx.Validator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		itemID, err := httpx.UUIDParam(c, "itemId")
		if err != nil {
			return err
		}

		var body UpdateCountRequest
		if err := v.Bind(c, &body); err != nil {
			return err
		}

		item, err := svc.UpdateItemCount(c.UserContext(), auth.CallerID(c), itemID, body.CountedQuantity)
		if err != nil {
			return err
		}
		return httpx.OK(c, item)
	}
}

func CompleteHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := httpx.UUIDParam(c, "id")
		if err != nil {
			return err
		}
		result, err := svc.Complete(c.UserContext(), auth.CallerID(c), id)
		if err != nil {
			return err
		}
		return httpx.OK(c, result)
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
