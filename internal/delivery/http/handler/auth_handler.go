package handler

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"docsign-client/internal/domain/entity"
	"docsign-client/internal/usecase"
)

type AuthHandler struct {
	auth   usecase.AuthUsecase
	logger *zap.Logger
}

func NewAuthHandler(auth usecase.AuthUsecase, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		auth:   auth,
		logger: logger,
	}
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type SignupRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SessionResponse never carries the tokens themselves
type SessionResponse struct {
	UserID   string `json:"user_id"`
	SignedIn bool   `json:"signed_in"`
}

func sessionResponse(sess *entity.Session) SessionResponse {
	if !sess.Valid() {
		return SessionResponse{}
	}
	return SessionResponse{UserID: sess.UserID, SignedIn: true}
}

// Login godoc
// @Summary Sign in
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Credentials"
// @Success 200 {object} entity.APIResponse
// @Failure 400 {object} entity.APIResponse
// @Failure 401 {object} entity.APIResponse
// @Router /api/v1/auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	sess, err := h.auth.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return errorResponse(c, h.logger, "Login failed", err)
	}

	return c.JSON(entity.NewSuccessResponse(sessionResponse(sess), "Signed in"))
}

// Signup godoc
// @Summary Create an account and sign in
// @Tags auth
// @Accept json
// @Produce json
// @Param request body SignupRequest true "Account"
// @Success 201 {object} entity.APIResponse
// @Router /api/v1/auth/signup [post]
func (h *AuthHandler) Signup(c *fiber.Ctx) error {
	var req SignupRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	sess, err := h.auth.Signup(c.UserContext(), req.Username, req.Email, req.Password)
	if err != nil {
		return errorResponse(c, h.logger, "Signup failed", err)
	}

	return c.Status(fiber.StatusCreated).JSON(
		entity.NewSuccessResponse(sessionResponse(sess), "Account created"),
	)
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if err := h.auth.Logout(c.UserContext()); err != nil {
		return errorResponse(c, h.logger, "Logout failed", err)
	}
	return c.JSON(entity.NewSuccessResponse(sessionResponse(nil), "Signed out"))
}

func (h *AuthHandler) Me(c *fiber.Ctx) error {
	profile, err := h.auth.Me(c.UserContext())
	if err != nil {
		return errorResponse(c, h.logger, "Failed to get profile", err)
	}
	return c.JSON(entity.NewSuccessResponse(profile, "Profile retrieved successfully"))
}

func (h *AuthHandler) UpdateProfile(c *fiber.Ctx) error {
	var update entity.ProfileUpdate
	if err := c.BodyParser(&update); err != nil {
		return badRequest(c, "Invalid request body")
	}

	profile, err := h.auth.UpdateProfile(c.UserContext(), update)
	if err != nil {
		return errorResponse(c, h.logger, "Failed to update profile", err)
	}
	return c.JSON(entity.NewSuccessResponse(profile, "Profile updated"))
}
