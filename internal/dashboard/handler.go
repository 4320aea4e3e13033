package dashboard

import (
	"github.com/barstock/revisor/internal/auth"
	"github.com/barstock/revisor/internal/httpx"

	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(r fiber.Router, svc *Service) {
	r.Get("/dashboard", SummaryHandler(svc))
	r.Get("/dashboard/loss-chart", LossChartHandler(svc))
}

func SummaryHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		summary, err := svc.Summary(c.UserContext(), auth.CallerID(c))
		if err != nil {
			return err
		}
		return httpx.OK(c, summary)
	}
}

// GET /api/dashboard/loss-chart?days=7
func LossChartHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		chart, err := svc.LossChart(c.UserContext(), auth.CallerID(c), c.QueryInt("days", 7))
		if err != nil {
			return err
		}
		return httpx.OK(c, chart)
	}
}
