package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/noobsmoke/auth-service/internal/config"
	"github.com/noobsmoke/auth-service/internal/lib/jwt"
	"github.com/noobsmoke/auth-service/internal/lib/password"
	"github.com/noobsmoke/auth-service/internal/lib/verifycode"
	"github.com/noobsmoke/auth-service/internal/models"
	"github.com/noobsmoke/auth-service/internal/storage/repository"
)

// UserRepository описывает контракт для работы с пользователями в базе данных.
type UserRepository interface {
	// RegisterUser сохраняет нового пользователя и возвращает его UID.
	RegisterUser(ctx context.Context, user models.User) (string, error)

	// GetUserByUsername возвращает пользователя по имени или repository.ErrNotFound.
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)

	// GetUserByEmail возвращает пользователя по почте или repository.ErrNotFound.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// SaveVerification записывает новый код подтверждения и срок действия.
	SaveVerification(ctx context.Context, userUID, code string, expiresAt time.Time) error

	// MarkVerified включает учётную запись и очищает код подтверждения.
	MarkVerified(ctx context.Context, userUID string) error
}

// MailSender описывает отправку письма с кодом подтверждения.
type MailSender interface {
	SendVerificationEmail(user *models.User) error
}

// Invalidator описывает сброс ключей кэша после мутаций пользователей.
type Invalidator interface {
	Invalidate(ctx context.Context, keys ...string) error
}

// AuthService отвечает за регистрацию, вход, подтверждение почты
// и повторную отправку кода.
type AuthService struct {
	users    UserRepository
	jwtMaker jwt.Maker
	mail     MailSender
	cache    Invalidator
	cfg      config.Verification
}

// NewAuthService создает новый экземпляр AuthService.
func NewAuthService(users UserRepository, jwtMaker jwt.Maker, mail MailSender,
	cache Invalidator, cfg config.Verification) *AuthService {
	return &AuthService{
		users:    users,
		jwtMaker: jwtMaker,
		mail:     mail,
		cache:    cache,
		cfg:      cfg,
	}
}

// SignUp создает нового пользователя с хэшированным паролем и дефолтной ролью "user".
//
// Учётная запись создается выключенной (enabled = false) с кодом подтверждения
// на cfg.SignupCodeTTL; письмо с кодом отправляется синхронно, и его сбой
// завершает запрос ошибкой. Возвращает сохраненную запись.
func (s *AuthService) SignUp(ctx context.Context, email, username, rawPassword string) (*models.User, error) {
	const op = "services.SignUp"

	hashed, err := password.GetHash(rawPassword)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	now := time.Now().UTC()
	code := verifycode.Generate()
	expiresAt := now.Add(s.cfg.SignupCodeTTL)
	user := models.User{
		Email:                 email,
		Username:              username,
		PasswordHash:          hashed,
		Role:                  "user", // дефолтная роль при регистрации
		Enabled:               false,
		VerificationCode:      &code,
		VerificationExpiresAt: &expiresAt,
		CreatedAt:             now,
	}

	uid, err := s.users.RegisterUser(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	user.UID = uid

	if err = s.mail.SendVerificationEmail(&user); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.invalidateUsers(ctx, username)
	return &user, nil
}

// Login проверяет пароль пользователя и генерирует JWT.
//
// Возвращает токен и настроенное время его жизни в миллисекундах,
// чтобы клиент знал абсолютный срок действия без разбора токена.
func (s *AuthService) Login(ctx context.Context, username, rawPassword string) (token string, expiresIn int64, err error) {
	const op = "services.Login"

	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", 0, ErrUserNotFound
		}
		return "", 0, fmt.Errorf("%s: %w", op, err)
	}
	if !user.Enabled {
		return "", 0, ErrNotVerified
	}
	if err = password.CompareHash(user.PasswordHash, rawPassword); err != nil {
		return "", 0, ErrInvalidCredentials
	}

	token, err = s.jwtMaker.GenerateToken(user.Username, map[string]any{"role": user.Role})
	if err != nil {
		return "", 0, fmt.Errorf("%s: %w", op, err)
	}
	return token, s.jwtMaker.LifetimeMillis(), nil
}

// Verify сверяет присланный код с ожидаемым и включает учётную запись.
//
// Просроченный код остается на месте (ErrCodeExpired), чтобы повторная
// отправка оставалась единственным путем вперед. Несовпавший код
// возвращает явный ErrCodeMismatch, а не тихий no-op.
func (s *AuthService) Verify(ctx context.Context, username, presentedCode string) error {
	const op = "services.Verify"

	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	if !user.VerificationPending() {
		return ErrAlreadyVerified
	}
	if user.VerificationExpiresAt.Before(time.Now().UTC()) {
		return ErrCodeExpired
	}
	if *user.VerificationCode != presentedCode {
		return ErrCodeMismatch
	}

	if err = s.users.MarkVerified(ctx, user.UID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.invalidateUsers(ctx, username)
	return nil
}

// ResendVerification выдает пользователю новый код подтверждения
// с увеличенным сроком действия cfg.ResendCodeTTL и отправляет письмо.
func (s *AuthService) ResendVerification(ctx context.Context, email string) error {
	const op = "services.ResendVerification"

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	if user.Enabled {
		return ErrAlreadyVerified
	}

	code := verifycode.Generate()
	expiresAt := time.Now().UTC().Add(s.cfg.ResendCodeTTL)
	if err = s.users.SaveVerification(ctx, user.UID, code, expiresAt); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	user.VerificationCode = &code
	user.VerificationExpiresAt = &expiresAt

	if err = s.mail.SendVerificationEmail(user); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.invalidateUsers(ctx, user.Username)
	return nil
}

// invalidateUsers сбрасывает кэшированные выборки после мутации.
// Ошибка кэша не фатальна для запроса.
func (s *AuthService) invalidateUsers(ctx context.Context, username string) {
	if s.cache == nil {
		return
	}
	_ = s.cache.Invalidate(ctx, "users:all", "user:"+username)
}
