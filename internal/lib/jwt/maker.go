package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrSubjectMismatch возвращается из Validate, когда subject токена
// не совпадает с ожидаемым.
var ErrSubjectMismatch = errors.New("token subject mismatch")

// Claims описывает полезную нагрузку токена сессии.
//
// Subject, IssuedAt и ExpiresAt лежат во встроенных RegisteredClaims,
// Extra хранит произвольные дополнительные данные выпуска.
type Claims struct {
	Extra                map[string]any `json:"extra,omitempty"`
	jwt.RegisteredClaims                // Встроенные стандартные claims JWT (Subject, ExpiresAt, IssuedAt и пр.)
}

// Username возвращает subject токена.
func (c *Claims) Username() string {
	return c.Subject
}

// GenerateToken создает JWT токен для заданного username, подписывая его
// секретным ключом. Дополнительные claims опциональны.
//
// Время жизни токена определяется полем tokenTTL.
func (j *MakerImpl) GenerateToken(username string, extraClaims map[string]any) (string, error) {
	now := time.Now()
	claims := Claims{
		Extra: extraClaims,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(j.tokenTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(j.secretKey)
}

// ParseToken парсит JWT токен, проверяет подпись, метод подписи и срок
// действия, возвращает Claims, если токен корректен.
func (j *MakerImpl) ParseToken(tokenStr string) (*Claims, error) {
	const op = "jwt.ParseToken"
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return j.secretKey, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("%s: invalid token", op)
	}
	return claims, nil
}

// Validate проверяет токен и сверяет его subject с ожидаемым.
// Состояние нигде не изменяется.
func (j *MakerImpl) Validate(tokenStr, expectedSubject string) error {
	const op = "jwt.Validate"
	claims, err := j.ParseToken(tokenStr)
	if err != nil {
		return err
	}
	if claims.Subject != expectedSubject {
		return fmt.Errorf("%s: %w", op, ErrSubjectMismatch)
	}
	return nil
}
