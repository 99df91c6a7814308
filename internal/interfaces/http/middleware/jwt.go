package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/wardrobe/backend/internal/infrastructure/auth"
	"github.com/wardrobe/backend/internal/infrastructure/logger"
	"github.com/wardrobe/backend/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// JWTUserIDKey holds the authenticated uuid.UUID in the gin context
const JWTUserIDKey = "jwt_user_id"

const bearerScheme = "bearer"

// Authenticator turns bearer tokens into the requesting user. The token
// subject must be a user id.
type Authenticator struct {
	tokens *auth.JWTService
	logger *zap.Logger
}

// NewAuthenticator creates an Authenticator; a nil logger disables failure logs
func NewAuthenticator(tokens *auth.JWTService, log *zap.Logger) *Authenticator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Authenticator{tokens: tokens, logger: log}
}

// Required rejects requests without a valid token with 401
func (a *Authenticator) Required() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := a.authenticate(c)
		if err != nil {
			a.reject(c, err)
			return
		}
		bindUser(c, userID)
		c.Next()
	}
}

// Optional binds the user when a valid token is present and otherwise
// lets the request through anonymously
func (a *Authenticator) Optional() gin.HandlerFunc {
	return func(c *gin.Context) {
		if userID, err := a.authenticate(c); err == nil {
			bindUser(c, userID)
		}
		c.Next()
	}
}

var errNoBearer = errors.New("missing or malformed authorization header")

func (a *Authenticator) authenticate(c *gin.Context) (uuid.UUID, error) {
	token, ok := bearerToken(c.GetHeader("Authorization"))
	if !ok {
		return uuid.Nil, errNoBearer
	}
	claims, err := a.tokens.ValidateAccessToken(token)
	if err != nil {
		return uuid.Nil, err
	}
	userID, err := claims.UserUUID()
	if err != nil {
		return uuid.Nil, auth.ErrMissingUserID
	}
	return userID, nil
}

// bearerToken accepts the scheme case-insensitively
func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, bearerScheme) {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func bindUser(c *gin.Context, userID uuid.UUID) {
	c.Set(JWTUserIDKey, userID)

	ctx := c.Request.Context()
	ctx, _ = logger.WithUserID(ctx, logger.FromContext(ctx), userID.String())
	c.Request = c.Request.WithContext(ctx)
}

func (a *Authenticator) reject(c *gin.Context, err error) {
	code, message := authFailure(err)
	a.logger.Warn("JWT authentication failed",
		zap.String("code", code),
		zap.String("path", c.Request.URL.Path),
		zap.Error(err),
	)
	abortWithError(c, http.StatusUnauthorized, code, message)
}

func authFailure(err error) (code, message string) {
	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		return dto.ErrCodeTokenExpired, "Token has expired"
	case errors.Is(err, auth.ErrTokenNotYetValid):
		return dto.ErrCodeTokenInvalid, "Token is not yet valid"
	case errors.Is(err, errNoBearer):
		return dto.ErrCodeUnauthorized, "Authentication required"
	default:
		return dto.ErrCodeTokenInvalid, "Invalid token"
	}
}

// GetJWTUserID returns the authenticated user id; ok is false for
// anonymous requests
func GetJWTUserID(c *gin.Context) (uuid.UUID, bool) {
	v, _ := c.Get(JWTUserIDKey)
	id, ok := v.(uuid.UUID)
	if !ok || id == uuid.Nil {
		return uuid.Nil, false
	}
	return id, true
}
