package api

import (
	"github.com/gofiber/fiber/v2"

	"memora/config"
	"memora/service"
	"memora/utils"
)

// AuthHandler handles signup, login and identity lookup.
type AuthHandler struct {
	cfg  *config.Config
	auth *service.AuthService
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(cfg *config.Config, auth *service.AuthService) *AuthHandler {
	return &AuthHandler{cfg: cfg, auth: auth}
}

// SignupRequest is the signup request body.
type SignupRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"displayName"`
}

// LoginRequest is the login request body.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Signup creates an account and returns it with a fresh token.
func (h *AuthHandler) Signup(c *fiber.Ctx) error {
	var req SignupRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ValidationError("error_invalid_request", err)
	}

	user, err := h.auth.Signup(req.Email, req.Password, req.DisplayName)
	if err != nil {
		return err
	}

	token, err := GenerateToken(user.ID, user.Email, &h.cfg.Auth)
	if err != nil {
		return utils.InternalServerError("error_internal", err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"user":  user,
		"token": token,
	})
}

// Login verifies credentials and returns the user with a fresh token.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ValidationError("error_invalid_request", err)
	}

	user, err := h.auth.Login(req.Email, req.Password)
	if err != nil {
		return err
	}

	token, err := GenerateToken(user.ID, user.Email, &h.cfg.Auth)
	if err != nil {
		return utils.InternalServerError("error_internal", err)
	}

	return c.JSON(fiber.Map{
		"user":  user,
		"token": token,
	})
}

// Me returns the authenticated user's account.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	user, err := h.auth.User(currentUserID(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"user": user})
}
