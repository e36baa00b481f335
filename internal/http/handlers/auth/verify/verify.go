// Package verify реализует HTTP-обработчик подтверждения почты по коду.
package verify

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/noobsmoke/auth-service/internal/http/response"
	"github.com/noobsmoke/auth-service/internal/lib/sl"
	"github.com/noobsmoke/auth-service/internal/services"
)

// Request — входные данные для подтверждения почты.
// Код — пятизначная числовая строка.
type Request struct {
	Email            string `json:"email" validate:"required,email"`
	Username         string `json:"username" validate:"required,min=3,max=50"`
	VerificationCode string `json:"verificationCode" validate:"required,len=5,numeric"`
}

// Service описывает интерфейс подтверждения учётной записи.
type Service interface {
	Verify(ctx context.Context, username, code string) error
}

// Handler обрабатывает HTTP-запросы подтверждения почты.
type Handler struct {
	log      *slog.Logger
	auth     Service
	validate *validator.Validate
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, auth Service) *Handler {
	return &Handler{
		log:      log,
		auth:     auth,
		validate: validator.New(),
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.verify"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	if err := h.auth.Verify(r.Context(), req.Username, req.VerificationCode); err != nil {
		switch {
		case errors.Is(err, services.ErrUserNotFound),
			errors.Is(err, services.ErrCodeExpired),
			errors.Is(err, services.ErrCodeMismatch),
			errors.Is(err, services.ErrAlreadyVerified):
			log.Error("verification rejected", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(err.Error()))
		default:
			log.Error("verification failed", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("internal server error"))
		}
		return
	}

	log.Info("account verified", slog.String("username", req.Username))
	render.JSON(w, r, response.OKWithMessage("Account Successfully Verified"))
}
