// Package jwt реализует генерацию и валидацию JWT токенов сессии.
//
// Maker определяет интерфейс для выпуска и проверки токенов с subject
// (имя пользователя) и произвольными дополнительными claim полями.
// MakerImpl — конкретная реализация поверх HMAC-SHA256 с секретным
// ключом, переданным при создании в виде base64 строки.
package jwt

import (
	"encoding/base64"
	"fmt"
	"time"
)

// Maker описывает интерфейс для выпуска и проверки JWT токенов.
type Maker interface {
	// GenerateToken выпускает токен с subject и дополнительными claims.
	GenerateToken(username string, extraClaims map[string]any) (string, error)
	// ParseToken проверяет подпись и срок действия, возвращает *Claims.
	ParseToken(tokenStr string) (*Claims, error)
	// Validate дополнительно сверяет subject токена с ожидаемым.
	Validate(tokenStr, expectedSubject string) error
	// LifetimeMillis возвращает настроенное время жизни токена в миллисекундах.
	LifetimeMillis() int64
}

// MakerImpl реализует интерфейс Maker с использованием секретного ключа
// и времени жизни токена (TTL).
type MakerImpl struct {
	secretKey []byte        // Ключ подписи, декодированный из base64
	tokenTTL  time.Duration // Время жизни токена
}

// NewMaker создаёт новый экземпляр MakerImpl.
//
// secretKeyBase64 — ключ подписи в base64 (из конфигурации),
// декодируется один раз при создании. Глобального состояния нет.
func NewMaker(secretKeyBase64 string, ttl time.Duration) (*MakerImpl, error) {
	const op = "jwt.NewMaker"
	key, err := base64.StdEncoding.DecodeString(secretKeyBase64)
	if err != nil {
		return nil, fmt.Errorf("%s: decode secret key: %w", op, err)
	}
	if len(key) == 0 {
		return nil, fmt.Errorf("%s: empty secret key", op)
	}
	return &MakerImpl{
		secretKey: key,
		tokenTTL:  ttl,
	}, nil
}

// LifetimeMillis возвращает время жизни токена в миллисекундах.
// Значение отдается клиенту вместе с токеном, чтобы тот знал момент
// истечения без разбора самого токена.
func (j *MakerImpl) LifetimeMillis() int64 {
	return j.tokenTTL.Milliseconds()
}
