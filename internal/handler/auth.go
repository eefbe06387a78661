package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/online-storefront/internal/config"
	"github.com/iliyamo/online-storefront/internal/middleware"
	"github.com/iliyamo/online-storefront/internal/model"
	"github.com/iliyamo/online-storefront/internal/queue"
	"github.com/iliyamo/online-storefront/internal/repository"
	queue_publisher "github.com/iliyamo/online-storefront/internal/service"
	"github.com/iliyamo/online-storefront/internal/utils"
)

// AuthHandler bundles dependencies for the account endpoints: signup, login,
// logout, the two session probes, and admin user management (user.go).
type AuthHandler struct {
	Cfg   config.Config
	Users *repository.UserRepo
}

func NewAuthHandler(cfg config.Config, u *repository.UserRepo) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Users: u}
}

// ----- DTOs -----

type signupReq struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}
type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// userPart is the sanitized account representation returned to clients.
// The password hash never appears here.
type userPart struct {
	ID      uint64 `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	IsAdmin bool   `json:"isAdmin"`
}

func toUserPart(u model.User) userPart {
	return userPart{ID: u.ID, Name: u.Name, Email: u.Email, IsAdmin: u.IsAdmin}
}

func (h *AuthHandler) sessionTTL() time.Duration {
	return time.Duration(h.Cfg.SessionTTLHours) * time.Hour
}

// Signup: create the account, establish a session and return the user.
// The admin flag is granted when the email belongs to the configured
// bootstrap administrator set.
func (h *AuthHandler) Signup(c echo.Context) error {
	var req signupReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Name == "" || req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "all fields are required"})
	}

	isAdmin := h.Cfg.IsBootstrapAdmin(req.Email)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	uid, err := h.Users.Create(ctx, req.Name, req.Email, req.Password, isAdmin, h.Cfg.BcryptCost)
	if err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "user with this email already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create user failed"})
	}

	token, err := utils.IssueSession(h.Cfg.JWTSecret, uid, h.sessionTTL())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue session failed"})
	}
	utils.SetSessionCookie(c, token, h.sessionTTL())

	// Fire-and-forget: a broker outage must not fail the signup.
	go func() {
		pctx, pcancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer pcancel()
		_ = queue_publisher.PublishAccountRegistered(pctx, queue.AccountRegisteredEvent{
			UserID:       uid,
			Email:        req.Email,
			IsAdmin:      isAdmin,
			RegisteredAt: time.Now().UTC().Format(time.RFC3339),
		})
	}()

	return c.JSON(http.StatusCreated, echo.Map{
		"user": userPart{ID: uid, Name: req.Name, Email: req.Email, IsAdmin: isAdmin},
	})
}

// Login: verify credentials and establish a session.  An unknown email and a
// wrong password return byte-identical responses so the endpoint does not
// leak which check failed.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email and password are required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid email or password"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if !utils.VerifyPassword(u.PasswordHash, req.Password) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid email or password"})
	}

	token, err := utils.IssueSession(h.Cfg.JWTSecret, u.ID, h.sessionTTL())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue session failed"})
	}
	utils.SetSessionCookie(c, token, h.sessionTTL())

	return c.JSON(http.StatusOK, echo.Map{"user": toUserPart(u)})
}

// Logout clears the session cookie.  Sessions are stateless so there is
// nothing to revoke server side; logout always succeeds.
func (h *AuthHandler) Logout(c echo.Context) error {
	utils.ClearSessionCookie(c)
	return c.JSON(http.StatusOK, echo.Map{"message": "logout successful"})
}

// CheckAuth reports the caller's session state.  It sits behind the
// optional-session gateway, so both anonymous and authenticated requests
// reach it and receive 200.
func (h *AuthHandler) CheckAuth(c echo.Context) error {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		return c.JSON(http.StatusOK, echo.Map{"isAuthenticated": false, "user": nil})
	}
	return c.JSON(http.StatusOK, echo.Map{"isAuthenticated": true, "user": toUserPart(u)})
}

// CheckAdminAuth sits behind the admin gateway; reaching the handler at all
// means the caller is an administrator.
func (h *AuthHandler) CheckAdminAuth(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"isAdmin": true})
}
