package signup

import (
	"context"

	"github.com/noobsmoke/auth-service/internal/models"
)

type Service interface {
	SignUp(ctx context.Context, email, username, password string) (*models.User, error)
}
