// Package resend реализует HTTP-обработчик повторной отправки кода подтверждения.
package resend

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/noobsmoke/auth-service/internal/http/response"
	"github.com/noobsmoke/auth-service/internal/lib/sl"
	"github.com/noobsmoke/auth-service/internal/services"
)

// Service описывает интерфейс повторной отправки кода подтверждения.
type Service interface {
	ResendVerification(ctx context.Context, email string) error
}

// Handler обрабатывает HTTP-запросы повторной отправки кода.
// Адрес почты передается query-параметром email.
type Handler struct {
	log  *slog.Logger
	auth Service
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, auth Service) *Handler {
	return &Handler{
		log:  log,
		auth: auth,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.resend"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	email := r.URL.Query().Get("email")
	if email == "" {
		log.Error("missing email query parameter")
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("email query parameter is required"))
		return
	}

	if err := h.auth.ResendVerification(r.Context(), email); err != nil {
		switch {
		case errors.Is(err, services.ErrUserNotFound),
			errors.Is(err, services.ErrAlreadyVerified):
			log.Error("resend rejected", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(err.Error()))
		default:
			log.Error("resend failed", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("internal server error"))
		}
		return
	}

	log.Info("verification code resent", slog.String("email", email))
	render.JSON(w, r, response.OKWithMessage("Verification Code Sent"))
}
