// Package router wires HTTP routes to their handlers and gate middleware.
package router

import (
	"net/http"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/online-storefront/internal/config"
	"github.com/iliyamo/online-storefront/internal/handler"
	"github.com/iliyamo/online-storefront/internal/middleware"
)

// Deps carries everything route registration needs.
type Deps struct {
	Cfg      config.Config
	Auth     *handler.AuthHandler
	Products *handler.ProductHandler
	Redis    *redis.Client
}

// CORS builds the cross-origin policy for the browser frontend.  With a
// configured client URL only that origin is allowed; with none the API
// accepts any origin.  The permissive mode reflects the caller's origin
// rather than sending "*", because browsers reject credentialed responses
// carrying a wildcard origin.
func CORS(clientURL string) echo.MiddlewareFunc {
	cfg := echomw.CORSConfig{
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowCredentials: true,
	}
	if clientURL != "" {
		cfg.AllowOrigins = []string{clientURL}
	} else {
		cfg.AllowOriginFunc = func(string) (bool, error) { return true, nil }
	}
	return echomw.CORSWithConfig(cfg)
}

// Register mounts all routes on e.  Public catalog reads sit behind the
// Redis response cache, credential endpoints behind the token bucket and
// admin endpoints behind the admin gateway.
func Register(e *echo.Echo, d Deps) {
	e.GET("/", handler.Health)

	ratelimit := middleware.NewTokenBucket(config.LoadRateLimitConfig(), d.Redis)
	cache := middleware.NewRedisCache(config.LoadCacheConfig(), d.Redis)
	optional := middleware.OptionalSession(d.Cfg.JWTSecret, d.Auth.Users)
	admin := middleware.RequireAdmin(d.Cfg.JWTSecret, d.Auth.Users)

	auth := e.Group("/api/auth")
	auth.POST("/signup", d.Auth.Signup, ratelimit)
	auth.POST("/login", d.Auth.Login, ratelimit)
	auth.POST("/logout", d.Auth.Logout)
	auth.GET("/checkAuth", d.Auth.CheckAuth, optional)
	auth.GET("/checkAdminAuth", d.Auth.CheckAdminAuth, admin)
	auth.GET("/getAllUsers", d.Auth.GetAllUsers, admin)
	auth.GET("/getOneUser/:id", d.Auth.GetOneUser, admin)
	auth.PUT("/updateUserProfile/:id", d.Auth.UpdateUserProfile, admin)
	auth.DELETE("/deleteUser/:id", d.Auth.DeleteUser, admin)

	products := e.Group("/api/products")
	products.GET("/getAllProducts", d.Products.GetAllProducts, optional)
	products.GET("/getOneProduct/:id", d.Products.GetOneProduct, cache)
	products.POST("/addProduct", d.Products.AddProduct, admin)
	products.PUT("/editProduct/:id", d.Products.EditProduct, admin)
	products.DELETE("/deleteProduct/:id", d.Products.DeleteProduct, admin)
}
