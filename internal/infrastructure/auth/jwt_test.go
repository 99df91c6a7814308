package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wardrobe/backend/internal/infrastructure/config"
)

const testSecret = "test-secret-key-at-least-32-chars"

func newTestJWTService() *JWTService {
	return NewJWTService(config.JWTConfig{
		Secret:                testSecret,
		Issuer:                "https://auth.example.com/auth/v1",
		Audience:              "authenticated",
		AccessTokenExpiration: 15 * time.Minute,
	})
}

func sign(t *testing.T, claims jwt.Claims, method jwt.SigningMethod, key interface{}) string {
	t.Helper()
	s, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return s
}

func TestGenerateAndValidate(t *testing.T) {
	svc := newTestJWTService()
	userID := uuid.New()

	token, expiresAt, err := svc.GenerateAccessToken(userID, "ada@example.com")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), expiresAt, 5*time.Second)

	claims, err := svc.ValidateAccessToken(token)
	require.NoError(t, err)
	got, err := claims.UserUUID()
	require.NoError(t, err)
	assert.Equal(t, userID, got)
	assert.Equal(t, "ada@example.com", claims.Email)
	assert.Equal(t, "authenticated", claims.Role)
}

func TestValidateAccessToken_Rejections(t *testing.T) {
	svc := newTestJWTService()
	now := time.Now()
	base := func() Claims {
		return Claims{RegisteredClaims: jwt.RegisteredClaims{
			Subject:   uuid.NewString(),
			Issuer:    "https://auth.example.com/auth/v1",
			Audience:  jwt.ClaimStrings{"authenticated"},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		}}
	}

	tests := []struct {
		name    string
		token   func() string
		wantErr error
	}{
		{
			name: "expired",
			token: func() string {
				c := base()
				c.ExpiresAt = jwt.NewNumericDate(now.Add(-time.Hour))
				return sign(t, c, jwt.SigningMethodHS256, []byte(testSecret))
			},
			wantErr: ErrExpiredToken,
		},
		{
			name: "wrong audience",
			token: func() string {
				c := base()
				c.Audience = jwt.ClaimStrings{"anon"}
				return sign(t, c, jwt.SigningMethodHS256, []byte(testSecret))
			},
			wantErr: ErrInvalidAudience,
		},
		{
			name: "wrong issuer",
			token: func() string {
				c := base()
				c.Issuer = "https://evil.example.com"
				return sign(t, c, jwt.SigningMethodHS256, []byte(testSecret))
			},
			wantErr: ErrInvalidToken,
		},
		{
			name: "wrong secret",
			token: func() string {
				return sign(t, base(), jwt.SigningMethodHS256, []byte("another-secret-another-secret-xx"))
			},
			wantErr: ErrInvalidToken,
		},
		{
			name: "other algorithm",
			token: func() string {
				return sign(t, base(), jwt.SigningMethodHS512, []byte(testSecret))
			},
			wantErr: ErrInvalidToken,
		},
		{
			name: "missing subject",
			token: func() string {
				c := base()
				c.Subject = ""
				return sign(t, c, jwt.SigningMethodHS256, []byte(testSecret))
			},
			wantErr: ErrMissingUserID,
		},
		{
			name: "subject is not a uuid",
			token: func() string {
				c := base()
				c.Subject = "user-42"
				return sign(t, c, jwt.SigningMethodHS256, []byte(testSecret))
			},
			wantErr: ErrInvalidClaims,
		},
		{
			name:    "garbage",
			token:   func() string { return "not.a.token" },
			wantErr: ErrInvalidToken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.ValidateAccessToken(tt.token())
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestJWTService_Disabled(t *testing.T) {
	svc := NewJWTService(config.JWTConfig{})
	assert.False(t, svc.Enabled())

	_, err := svc.ValidateAccessToken("x")
	assert.ErrorIs(t, err, ErrSigningDisabled)

	_, _, err = svc.GenerateAccessToken(uuid.New(), "")
	assert.ErrorIs(t, err, ErrSigningDisabled)
}
