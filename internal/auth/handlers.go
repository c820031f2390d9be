package auth

import (
	"context"

	"karavan-backend/internal/middleware"
	"karavan-backend/internal/models"
	"karavan-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

const userSessionsPrefix = "user_sessions:"

// Handlers holds dependencies for auth endpoints.
type Handlers struct {
	UserFinder UserFinder
	Rdb        *redis.Client
	Config     middleware.SessionConfig
}

// Login POST /api/v1/auth/login — authenticate, rotate session id, set cookie.
func (h *Handlers) Login(c *fiber.Ctx) error {
	if h.UserFinder == nil {
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
	}
	var req LoginInput
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, ErrEmailPasswordRequired.Error(), fiber.StatusBadRequest, nil)
	}
	if req.Email == "" || req.Password == "" {
		return response.Error(c, ErrEmailPasswordRequired.Error(), fiber.StatusBadRequest, nil)
	}

	user, err := h.UserFinder.FindByEmailAndPassword(req.Email, req.Password)
	if err != nil {
		switch err {
		case ErrEmailPasswordRequired:
			return response.Error(c, err.Error(), fiber.StatusBadRequest, nil)
		case ErrInvalidEmail, ErrIncorrectPassword:
			return response.Error(c, err.Error(), fiber.StatusUnauthorized, nil)
		case ErrAccountDeactivated:
			return response.Error(c, err.Error(), fiber.StatusForbidden, nil)
		default:
			return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
		}
	}

	sessionID := middleware.RegenerateSessionID(c)
	middleware.SetSessionUser(c, middleware.SessionUser{
		UserID:   user.UserID.String(),
		Fullname: user.Fullname,
		Email:    user.Email,
		Role:     user.Role,
		IsActive: user.IsActive,
	})

	ctx := context.Background()
	if err := h.Rdb.SAdd(ctx, userSessionsPrefix+user.UserID.String(), sessionID).Err(); err != nil {
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
	}

	cookie := middleware.SessionCookieConfig(h.Config)
	cookie.Value = "s:" + sessionID
	c.Cookie(&cookie)

	return response.Success(c, "Login successful", fiber.Map{
		"user": fiber.Map{
			"user_id":   user.UserID.String(),
			"fullname":  user.Fullname,
			"email":     user.Email,
			"role":      user.Role,
			"is_active": user.IsActive,
		},
	}, nil)
}

// Me GET /api/v1/auth/me — return the current principal.
func (h *Handlers) Me(c *fiber.Ctx) error {
	p, err := VerifyUser(middleware.GetUser(c))
	if err != nil {
		return response.Error(c, ErrNotAuthenticated.Error(), fiber.StatusUnauthorized, nil)
	}
	return response.Success(c, "Authenticated", fiber.Map{
		"user": fiber.Map{
			"user_id":   p.ID.String(),
			"fullname":  p.Fullname,
			"email":     p.Email,
			"role":      p.Role,
			"is_active": p.IsActive,
		},
	}, nil)
}

// Logout DELETE /api/v1/auth/logout — drop the session server-side and clear the cookie.
func (h *Handlers) Logout(c *fiber.Ctx) error {
	sessionID := middleware.GetSessionID(c)
	ctx := context.Background()

	if p, ok := models.PrincipalFromSession(middleware.GetUser(c)); ok && sessionID != "" {
		_ = h.Rdb.SRem(ctx, userSessionsPrefix+p.ID.String(), sessionID).Err()
	}
	if sessionID != "" {
		_ = h.Rdb.Del(ctx, middleware.SessionRedisPrefix+sessionID).Err()
	}
	middleware.DestroySession(c)

	cookie := middleware.SessionCookieConfig(h.Config)
	cookie.Value = ""
	cookie.MaxAge = -1
	c.Cookie(&cookie)

	return response.Success(c, "Logged out successfully", nil, nil)
}
