// Package authservice предоставляет маршруты приложения.
package authservice

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/noobsmoke/auth-service/internal/http/handlers/auth/login"
	"github.com/noobsmoke/auth-service/internal/http/handlers/auth/resend"
	"github.com/noobsmoke/auth-service/internal/http/handlers/auth/signup"
	"github.com/noobsmoke/auth-service/internal/http/handlers/auth/verify"
	"github.com/noobsmoke/auth-service/internal/http/handlers/health"
	"github.com/noobsmoke/auth-service/internal/http/handlers/user/list"
	"github.com/noobsmoke/auth-service/internal/http/handlers/user/me"
	"github.com/noobsmoke/auth-service/internal/http/middlewarectx"
	"github.com/noobsmoke/auth-service/internal/services"
)

// RegisterRoutes регистрирует все маршруты приложения.
//
// Маршруты /auth/** открыты, остальные требуют Bearer-токен.
// Серверные сессии не используются.
func RegisterRoutes(r chi.Router, logger *slog.Logger, authService *services.AuthService,
	userService *services.UserService, tokenParser middlewarectx.TokenParser) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	// Открытые конечные точки
	r.Route("/auth", func(r chi.Router) {
		r.Post("/signup", signup.New(logger, authService).ServeHTTP)
		r.Post("/login", login.New(logger, authService).ServeHTTP)
		r.Post("/verify", verify.New(logger, authService).ServeHTTP)
		r.Post("/resend", resend.New(logger, authService).ServeHTTP)
	})

	// Группа с JWT аутентификацией
	r.Group(func(r chi.Router) {
		r.Use(middlewarectx.JWTMiddleware(tokenParser, logger))
		r.Use(middlewarectx.RateLimitMiddleware(logger))
		r.Get("/users/me", me.New(logger, userService).ServeHTTP)
		r.Get("/users/", list.New(logger, userService).ServeHTTP)
	})

	r.Get("/health", health.New(logger).ServeHTTP)
	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
