// Package list реализует HTTP-обработчик списка всех пользователей.
package list

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/noobsmoke/auth-service/internal/http/response"
	"github.com/noobsmoke/auth-service/internal/lib/sl"
	"github.com/noobsmoke/auth-service/internal/models"
)

// Service описывает интерфейс чтения всех пользователей.
type Service interface {
	ListAll(ctx context.Context) ([]*models.User, error)
}

// Handler обрабатывает запрос списка пользователей.
type Handler struct {
	log   *slog.Logger
	users Service
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, users Service) *Handler {
	return &Handler{
		log:   log,
		users: users,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.user.list"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	users, err := h.users.ListAll(r.Context())
	if err != nil {
		log.Error("failed to list users", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("internal server error"))
		return
	}

	render.JSON(w, r, response.OKWithData(users))
}
