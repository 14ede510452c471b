package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // Echo web framework for routing

	"github.com/iliyamo/account-recovery/internal/handler"
	"github.com/iliyamo/account-recovery/internal/middleware"
)

// RegisterRoutes registers routes that do not require authentication.
// Currently it exposes only a health check, used by load balancers to
// verify that the service is up.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers all authentication and recovery routes.
// Unauthenticated operations live under /v1/auth; the protected
// endpoint sits behind the JWT middleware using the same signing
// secret the login endpoint issues tokens with.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/request-password-reset", a.RequestPasswordReset)
	g.POST("/verify-reset-code", a.VerifyResetCode)

	// Protected endpoint; accepts GET and POST with a valid bearer token.
	p := e.Group("/v1/auth/protected")
	p.Use(middleware.JWTAuth(jwtSecret))
	p.GET("", a.Protected)
	p.POST("", a.Protected)
}
