package auth

import (
	"github.com/barstock/revisor/internal/httpx"

	"github.com/gofiber/fiber/v2"
)

type SignUpRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=50,personname"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=100,strongpassword"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func SignUpHandler(svc *Service, v *httpx.Validator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body SignUpRequest
		if err := v.Bind(c, &body); err != nil {
			return err
		}

		session, err := svc.SignUp(c.UserContext(), body.Name, body.Email, body.Password)
		if err != nil {
			return err
		}
		return httpx.Created(c, session)
	}
}

func LoginHandler(svc *Service, v *httpx.Validator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body LoginRequest
		if err := v.Bind(c, &body); err != nil {
			return err
		}

		session, err := svc.Login(c.UserContext(), body.Email, body.Password)
		if err != nil {
			return err
		}
		return httpx.OK(c, session)
	}
}

func MeHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := svc.Me(c.UserContext(), CallerID(c))
		if err != nil {
			return err
		}
		return httpx.OK(c, user)
	}
}
