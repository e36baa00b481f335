package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/noobsmoke/auth-service/internal/models"
)

// ErrNotFound возвращается, когда пользователь не найден по ключу поиска.
var ErrNotFound = errors.New("user not found")

const userColumns = `uid, email, username, password_hash, role, enabled,
			      verification_code, verification_expires_at, created_at`

// RegisterUser сохраняет нового пользователя в базу данных и возвращает его UID.
func (s *Storage) RegisterUser(ctx context.Context, user models.User) (string, error) {
	const op = "repository.RegisterUser"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var newUID string
	query := `INSERT INTO users (email, username, password_hash, role, enabled,
			      verification_code, verification_expires_at, created_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			  RETURNING uid;`
	if err := s.DB.QueryRowContext(ctx, query,
		user.Email, user.Username, user.PasswordHash, user.Role, user.Enabled,
		user.VerificationCode, user.VerificationExpiresAt, user.CreatedAt).Scan(&newUID); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return newUID, nil
}

// GetUserByUsername возвращает пользователя по его username.
func (s *Storage) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	const op = "repository.GetUserByUsername"
	query := `SELECT ` + userColumns + `
			  FROM users
			  WHERE username = $1`
	return s.getUser(ctx, op, query, username)
}

// GetUserByEmail возвращает пользователя по адресу почты.
func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	const op = "repository.GetUserByEmail"
	query := `SELECT ` + userColumns + `
			  FROM users
			  WHERE email = $1`
	return s.getUser(ctx, op, query, email)
}

// GetUserByVerificationCode возвращает пользователя по коду подтверждения.
// Глобальная уникальность кодов не гарантируется, берется первая запись.
func (s *Storage) GetUserByVerificationCode(ctx context.Context, code string) (*models.User, error) {
	const op = "repository.GetUserByVerificationCode"
	query := `SELECT ` + userColumns + `
			  FROM users
			  WHERE verification_code = $1
			  LIMIT 1`
	return s.getUser(ctx, op, query, code)
}

func (s *Storage) getUser(ctx context.Context, op, query string, arg any) (*models.User, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	u := &models.User{}
	row := s.DB.QueryRowContext(ctx, query, arg)

	var verificationCode sql.NullString
	var verificationExpiresAt sql.NullTime
	if err := row.Scan(&u.UID, &u.Email, &u.Username, &u.PasswordHash,
		&u.Role, &u.Enabled, &verificationCode, &verificationExpiresAt, &u.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if verificationCode.Valid {
		u.VerificationCode = &verificationCode.String
	}
	if verificationExpiresAt.Valid {
		u.VerificationExpiresAt = &verificationExpiresAt.Time
	}
	return u, nil
}

// SaveVerification записывает пользователю новый код подтверждения и срок его действия.
func (s *Storage) SaveVerification(ctx context.Context, userUID, code string, expiresAt time.Time) error {
	const op = "repository.SaveVerification"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users
			  SET verification_code = $1,
			      verification_expires_at = $2
			  WHERE uid = $3`
	res, err := s.DB.ExecContext(ctx, query, code, expiresAt, userUID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return nil
}

// MarkVerified включает учётную запись и очищает код подтверждения со сроком действия.
func (s *Storage) MarkVerified(ctx context.Context, userUID string) error {
	const op = "repository.MarkVerified"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users
			  SET enabled = TRUE,
			      verification_code = NULL,
			      verification_expires_at = NULL
			  WHERE uid = $1`
	res, err := s.DB.ExecContext(ctx, query, userUID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return nil
}

// ListUsers возвращает всех пользователей системы.
func (s *Storage) ListUsers(ctx context.Context) ([]*models.User, error) {
	const op = "repository.ListUsers"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + userColumns + `
			  FROM users
			  ORDER BY created_at`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.User
	for rows.Next() {
		var u models.User
		var verificationCode sql.NullString
		var verificationExpiresAt sql.NullTime
		if err = rows.Scan(&u.UID, &u.Email, &u.Username, &u.PasswordHash,
			&u.Role, &u.Enabled, &verificationCode, &verificationExpiresAt, &u.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		if verificationCode.Valid {
			u.VerificationCode = &verificationCode.String
		}
		if verificationExpiresAt.Valid {
			u.VerificationExpiresAt = &verificationExpiresAt.Time
		}
		result = append(result, &u)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
