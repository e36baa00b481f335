// Package models содержит доменную модель пользователя системы,
// включающую данные учётной записи, хэш пароля и состояние
// подтверждения почты. Структура используется в бизнес‑логике
// и при работе с хранилищем.
package models

import "time"

// User представляет зарегистрированного пользователя системы.
//
// Инвариант: VerificationCode и VerificationExpiresAt либо оба nil,
// либо оба заполнены. Пока подтверждение не пройдено, Enabled = false.
type User struct {
	UID                   string     `json:"uid"`      // Уникальный идентификатор пользователя
	Email                 string     `json:"email"`    // Электронная почта (уникальная)
	Username              string     `json:"username"` // Имя пользователя (уникальное)
	PasswordHash          string     `json:"-"`        // Хэш пароля, наружу не отдается
	Role                  string     `json:"role"`     // Роль пользователя, по умолчанию user
	Enabled               bool       `json:"enabled"`  // Признак подтвержденной почты
	VerificationCode      *string    `json:"-"`        // Код подтверждения, только пока подтверждение не завершено
	VerificationExpiresAt *time.Time `json:"-"`        // Срок действия кода
	CreatedAt             time.Time  `json:"created_at"`
}

// VerificationPending сообщает, ожидает ли пользователь ввода кода.
func (u *User) VerificationPending() bool {
	return u.VerificationCode != nil && u.VerificationExpiresAt != nil
}
