// Package services содержит логику бизнес-уровня для регистрации,
// аутентификации и подтверждения почты пользователей.
package services

import "errors"

// Доменные ошибки сервиса. HTTP-слой сопоставляет их со статусами
// ответов; контроль потока через panic/исключения не используется.
var (
	// ErrUserNotFound — пользователь не найден по username или email.
	ErrUserNotFound = errors.New("user not found")
	// ErrInvalidCredentials — пароль не подошел к сохраненному хэшу.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrNotVerified — вход до подтверждения почты.
	ErrNotVerified = errors.New("account not verified")
	// ErrAlreadyVerified — повторная отправка кода для подтвержденной учётной записи.
	ErrAlreadyVerified = errors.New("account is already verified")
	// ErrCodeExpired — срок действия кода подтверждения истек.
	// Код при этом не очищается, требуется повторная отправка.
	ErrCodeExpired = errors.New("verification code has expired")
	// ErrCodeMismatch — код не совпал с ожидаемым.
	ErrCodeMismatch = errors.New("verification code mismatch")
)
