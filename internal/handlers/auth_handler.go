package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/career-pilot/internal/models"
)

type AccountService interface {
	Register(ctx context.Context, req models.RegisterRequest) (*models.User, string, error)
	Login(ctx context.Context, req models.LoginRequest) (*models.User, string, error)
}

type AuthHandler struct {
	accounts AccountService
}

func NewAuthHandler(accounts AccountService) *AuthHandler {
	return &AuthHandler{accounts: accounts}
}

// HandleRegister handles POST /auth/register
func (h *AuthHandler) HandleRegister(c *fiber.Ctx) error {
	var req models.RegisterRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	user, token, err := h.accounts.Register(c.UserContext(), req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(models.LoginResponse{User: user, Token: token})
}

// HandleLogin handles POST /auth/login
func (h *AuthHandler) HandleLogin(c *fiber.Ctx) error {
	var req models.LoginRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	user, token, err := h.accounts.Login(c.UserContext(), req)
	if err != nil {
		return err
	}
	return c.JSON(models.LoginResponse{User: user, Token: token})
}
