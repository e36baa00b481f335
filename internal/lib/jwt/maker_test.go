package jwt

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSecret(raw string) string {
	return base64.StdEncoding.EncodeToString([]byte(raw))
}

func newTestMaker(t *testing.T, raw string, ttl time.Duration) *MakerImpl {
	maker, err := NewMaker(testSecret(raw), ttl)
	require.NoError(t, err)
	return maker
}

func TestNewMaker_BadKey(t *testing.T) {
	_, err := NewMaker("not-base64!!!", time.Minute)
	assert.Error(t, err)

	_, err = NewMaker("", time.Minute)
	assert.Error(t, err)
}

func TestMaker_GenerateAndParseToken_ValidCases(t *testing.T) {
	tokenTTL := 15 * time.Minute
	maker := newTestMaker(t, "test_secret_key_1234567890", tokenTTL)

	tests := []struct {
		name     string
		username string
		extra    map[string]any
	}{
		{
			name:     "plain user",
			username: "regular_user",
			extra:    nil,
		},
		{
			name:     "user with email username",
			username: "user@domain.com",
			extra:    nil,
		},
		{
			name:     "user with extra claims",
			username: "user123",
			extra:    map[string]any{"role": "user"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := maker.GenerateToken(tt.username, tt.extra)
			require.NoError(t, err)
			assert.NotEmpty(t, token)

			claims, err := maker.ParseToken(token)
			require.NoError(t, err)

			assert.Equal(t, tt.username, claims.Username())
			assert.WithinDuration(t, time.Now(), claims.IssuedAt.Time, time.Second)
			assert.WithinDuration(t, time.Now().Add(tokenTTL), claims.ExpiresAt.Time, time.Second)
			if tt.extra != nil {
				assert.Equal(t, tt.extra["role"], claims.Extra["role"])
			}
		})
	}
}

func TestMaker_ParseToken_InvalidTokens(t *testing.T) {
	maker := newTestMaker(t, "test_secret_key_1234567890", 15*time.Minute)

	validToken, err := maker.GenerateToken("testuser", nil)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{
			name:  "empty token",
			token: "",
		},
		{
			name:  "malformed token",
			token: "invalid.token.here",
		},
		{
			name:  "expired token",
			token: createExpiredToken(t, "test_secret_key_1234567890"),
		},
		{
			name:  "wrong secret key",
			token: createTokenWithWrongSecret(t),
		},
		{
			name:  "tampered token",
			token: validToken + "tampered",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := maker.ParseToken(tt.token)
			assert.Error(t, err)
			assert.Nil(t, claims)
		})
	}
}

func TestMaker_Validate(t *testing.T) {
	maker := newTestMaker(t, "test_secret_key_1234567890", 15*time.Minute)

	token, err := maker.GenerateToken("alice", nil)
	require.NoError(t, err)

	// Свежий токен валиден для своего subject
	assert.NoError(t, maker.Validate(token, "alice"))

	// Чужой subject отклоняется
	err = maker.Validate(token, "bob")
	assert.ErrorIs(t, err, ErrSubjectMismatch)
}

func TestMaker_DifferentSecretKeys(t *testing.T) {
	maker1 := newTestMaker(t, "first_secret_key", 15*time.Minute)
	maker2 := newTestMaker(t, "different_secret_key", 15*time.Minute)

	token, err := maker1.GenerateToken("testuser", nil)
	require.NoError(t, err)

	claims, err := maker2.ParseToken(token)
	assert.Error(t, err)
	assert.Nil(t, claims)

	claims, err = maker1.ParseToken(token)
	assert.NoError(t, err)
	assert.NotNil(t, claims)
}

func TestMaker_TokenExpiration(t *testing.T) {
	shortTTL := 100 * time.Millisecond
	maker := newTestMaker(t, "test_secret_key", shortTTL)

	token, err := maker.GenerateToken("testuser", nil)
	require.NoError(t, err)

	claims, err := maker.ParseToken(token)
	require.NoError(t, err)
	assert.NotNil(t, claims)

	time.Sleep(shortTTL + 50*time.Millisecond)

	claims, err = maker.ParseToken(token)
	assert.Error(t, err)
	assert.Nil(t, claims)

	assert.Error(t, maker.Validate(token, "testuser"))
}

func TestMaker_LifetimeMillis(t *testing.T) {
	maker := newTestMaker(t, "test_secret_key", time.Hour)
	assert.Equal(t, int64(3600000), maker.LifetimeMillis())
}

func createExpiredToken(t *testing.T, raw string) string {
	maker := newTestMaker(t, raw, -time.Hour)
	token, err := maker.GenerateToken("testuser", nil)
	require.NoError(t, err)
	return token
}

func createTokenWithWrongSecret(t *testing.T) string {
	wrongMaker := newTestMaker(t, "wrong_secret_key", 15*time.Minute)
	token, err := wrongMaker.GenerateToken("testuser", nil)
	require.NoError(t, err)
	return token
}
