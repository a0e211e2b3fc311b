// Package router defines how HTTP routes are registered for the API.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/book-library/internal/config"
	"github.com/iliyamo/book-library/internal/handler"
	"github.com/iliyamo/book-library/internal/middleware"
	"github.com/iliyamo/book-library/internal/repository"
	"github.com/iliyamo/book-library/internal/utils"
)

// RegisterRoutes registers routes that require no authentication. Currently
// it exposes only a health check for load balancers and monitoring.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers all authentication-related routes. Register, login
// and refresh are open; profile and logout run behind the JWT middleware.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, issuer *utils.Issuer, users *repository.UserRepo) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)

	authed := e.Group("/v1/auth")
	authed.Use(middleware.JWTAuth(issuer, users))
	authed.GET("/profile", a.Profile)
	authed.POST("/logout", a.Logout)
}

// RegisterCatalog registers book and author routes. Reads are public (and
// fronted by the Redis response cache when available); writes require ADMIN.
func RegisterCatalog(e *echo.Echo, b *handler.BookHandler, a *handler.AuthorHandler,
	issuer *utils.Issuer, users *repository.UserRepo, cacheCfg config.CacheConfig, rdb *redis.Client) {

	cache := middleware.NewRedisCache(cacheCfg, rdb)

	e.GET("/v1/books", b.List, cache)
	e.GET("/v1/books/:id", b.Get, cache)
	e.GET("/v1/authors", a.List, cache)
	e.GET("/v1/authors/:id", a.Get, cache)

	admin := e.Group("/v1")
	admin.Use(middleware.JWTAuth(issuer, users))
	admin.Use(middleware.RequireRole(repository.RoleAdmin))
	admin.POST("/books", b.Create)
	admin.DELETE("/books/:id", b.Delete)
	admin.POST("/authors", a.Create)
	admin.DELETE("/authors/:id", a.Delete)
}

// RegisterUsers registers admin-only user management routes.
func RegisterUsers(e *echo.Echo, u *handler.UserHandler, issuer *utils.Issuer, users *repository.UserRepo) {
	g := e.Group("/v1/users")
	g.Use(middleware.JWTAuth(issuer, users))
	g.Use(middleware.RequireRole(repository.RoleAdmin))
	g.GET("", u.List)
	g.GET("/:id", u.Get)
	g.DELETE("/:id", u.Delete)
}

// RegisterReservations registers reservation routes. All of them require a
// valid access token; the full listing additionally requires ADMIN.
func RegisterReservations(e *echo.Echo, r *handler.ReservationHandler, issuer *utils.Issuer, users *repository.UserRepo) {
	g := e.Group("/v1/reservations")
	g.Use(middleware.JWTAuth(issuer, users))
	g.POST("", r.Create)
	g.GET("/me", r.ListMine)
	g.GET("/:id", r.Get)
	g.DELETE("/:id", r.Delete)
	g.PATCH("/:id/status", r.UpdateStatus)

	admin := e.Group("/v1/reservations")
	admin.Use(middleware.JWTAuth(issuer, users))
	admin.Use(middleware.RequireRole(repository.RoleAdmin))
	admin.GET("", r.List)
}
