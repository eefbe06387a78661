package middleware // middleware provides shared request processing for handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/online-storefront/internal/model"
	"github.com/iliyamo/online-storefront/internal/repository"
	"github.com/iliyamo/online-storefront/internal/utils"
)

// Context keys under which the gateways store the authenticated caller.
// Handlers read them via c.Get(); both stay unset for anonymous requests.
const (
	CtxUser   = "user"    // sanitized model.User (password hash stripped)
	CtxUserID = "user_id" // uint64 id of the caller
)

// UserLoader resolves a user id from the session token to an account record.
// *repository.UserRepo satisfies it; tests substitute a fake.
type UserLoader interface {
	GetByID(ctx context.Context, id uint64) (model.User, error)
}

// OptionalSession annotates the request with the current user when a valid
// session cookie is present and proceeds anonymously otherwise.  It never
// blocks: public read endpoints use it to render both the logged-in and the
// anonymous view from a single route.
func OptionalSession(secret string, users UserLoader) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie(utils.SessionCookieName)
			if err != nil || cookie.Value == "" {
				return next(c)
			}
			uid, err := utils.VerifySession(secret, cookie.Value)
			if err != nil {
				// Expired or tampered cookie: an expected steady state,
				// not an error.  Continue anonymously.
				return next(c)
			}
			ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
			defer cancel()
			u, err := users.GetByID(ctx, uid)
			if err != nil {
				// Token refers to a deleted account; drop the cookie so the
				// browser stops replaying it.
				utils.ClearSessionCookie(c)
				return next(c)
			}
			attachUser(c, u)
			return next(c)
		}
	}
}

// RequireAdmin is the gate on every product-write and user-management
// endpoint.  Missing or invalid tokens yield 401; a valid token whose
// account lacks the admin flag yields 403.  On success the sanitized user is
// attached to the context and the chain proceeds.
func RequireAdmin(secret string, users UserLoader) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie(utils.SessionCookieName)
			if err != nil || cookie.Value == "" {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
			}
			uid, err := utils.VerifySession(secret, cookie.Value)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
			}
			ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
			defer cancel()
			u, err := users.GetByID(ctx, uid)
			if err != nil {
				if errors.Is(err, repository.ErrNotFound) {
					return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
				}
				return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
			}
			if !u.IsAdmin {
				return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
			}
			attachUser(c, u)
			return next(c)
		}
	}
}

// attachUser stores the caller in the context with the password hash
// stripped so no handler can leak it accidentally.
func attachUser(c echo.Context, u model.User) {
	u.PasswordHash = ""
	c.Set(CtxUser, u)
	c.Set(CtxUserID, u.ID)
}

// CurrentUser returns the authenticated caller, if any.
func CurrentUser(c echo.Context) (model.User, bool) {
	u, ok := c.Get(CtxUser).(model.User)
	return u, ok
}
