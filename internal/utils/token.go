package utils // package utils provides helper functions for session token handling

import (
	"errors"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5" // JWT library for creating signed tokens
	"github.com/labstack/echo/v4"
)

// SessionCookieName is the cookie that carries the signed session token.
// The browser sends it with every request because the cookie is scoped to /.
const SessionCookieName = "token"

// Sentinel errors returned by VerifySession.  Expired and malformed tokens
// are distinguished so that the admin gateway can report both as 401 while
// logging the actual cause.
var (
	ErrTokenInvalid = errors.New("invalid session token")
	ErrTokenExpired = errors.New("session token expired")
)

// IssueSession builds and signs an HS256 JWT for a user.  The token embeds
// the user id as the subject-style "userId" claim along with exp and iat.
// Sessions are stateless: nothing is stored server side, so a token remains
// valid until its natural expiry even after logout.
func IssueSession(secret string, userID uint64, ttl time.Duration) (string, error) {
	now := time.Now().UTC()
	claims := jwt.MapClaims{
		"userId": userID,
		"exp":    now.Add(ttl).Unix(),
		"iat":    now.Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(secret))
}

// VerifySession checks the signature and expiry of a session token and
// returns the embedded user id.  It never loads the user; resolving the
// account belongs to the auth gateway.
func VerifySession(secret, raw string) (uint64, error) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrTokenInvalid
		}
		return []byte(secret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return 0, ErrTokenExpired
		}
		return 0, ErrTokenInvalid
	}
	if !tok.Valid {
		return 0, ErrTokenInvalid
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return 0, ErrTokenInvalid
	}
	// Numeric JSON claims decode as float64.
	id, ok := claims["userId"].(float64)
	if !ok || id <= 0 {
		return 0, ErrTokenInvalid
	}
	return uint64(id), nil
}

// SetSessionCookie attaches the session token to the response as an
// HTTP-only cookie.  Secure and SameSite=None allow the storefront frontend
// to send it cross-site; the path is / so every API route receives it.
func SetSessionCookie(c echo.Context, token string, ttl time.Duration) {
	c.SetCookie(&http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().UTC().Add(ttl),
		MaxAge:   int(ttl / time.Second),
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
	})
}

// ClearSessionCookie expires the session cookie.  Attributes must match the
// ones used when the cookie was set or browsers will not drop it.  The token
// itself is not blacklisted; a copied token stays valid until expiry.
func ClearSessionCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
	})
}
