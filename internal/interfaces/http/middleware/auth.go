package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	identityapp "github.com/cabinet/backend/internal/application/identity"
	"github.com/cabinet/backend/internal/domain/identity"
	"github.com/cabinet/backend/internal/domain/shared"
	"github.com/cabinet/backend/internal/infrastructure/auth"
	"github.com/cabinet/backend/internal/infrastructure/logger"
	"github.com/cabinet/backend/internal/interfaces/http/dto"
)

// Auth context keys
const (
	PrincipalKey  = "auth_principal"
	AuthHeaderKey = "Authorization"
	BearerPrefix  = "Bearer "
)

// Auth returns the authentication middleware.
//
// The token only proves who is calling; every request re-resolves the
// account from the database so deactivations and role changes apply
// immediately, without waiting for the token to expire.
func Auth(jwtService *auth.JWTService, authService *identityapp.AuthService, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, err := extractBearerToken(c)
		if err != nil {
			abortUnauthorized(c, log, err, dto.ErrCodeUnauthorized, "Authentication required")
			return
		}

		claims, err := jwtService.Verify(tokenString)
		if err != nil {
			code, message := tokenErrorResponse(err)
			abortUnauthorized(c, log, err, code, message)
			return
		}

		userID, err := claims.GetUserUUID()
		if err != nil {
			abortUnauthorized(c, log, err, dto.ErrCodeTokenInvalid, "Invalid token")
			return
		}

		principal, err := authService.Resolve(c.Request.Context(), userID)
		if err != nil {
			var domainErr *shared.DomainError
			if errors.As(err, &domainErr) {
				code := dto.NormalizeErrorCode(domainErr.Code)
				status := dto.GetHTTPStatus(code)
				if log != nil {
					log.Warn("Identity resolution refused request",
						zap.String("user_id", userID.String()),
						zap.String("code", domainErr.Code),
						zap.String("path", c.Request.URL.Path))
				}
				c.AbortWithStatusJSON(status, dto.NewErrorResponse(code, domainErr.Message))
				return
			}
			abortUnauthorized(c, log, err, dto.ErrCodeUnauthorized, "Authentication required")
			return
		}

		c.Set(PrincipalKey, principal)

		ctx := c.Request.Context()
		ctx, _ = logger.WithUserID(ctx, logger.FromContext(ctx), principal.UserID.String())
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// GetPrincipal retrieves the resolved principal from gin.Context.
// Returns nil when the request did not pass the Auth middleware.
func GetPrincipal(c *gin.Context) *identity.Principal {
	if value, exists := c.Get(PrincipalKey); exists {
		if principal, ok := value.(*identity.Principal); ok {
			return principal
		}
	}
	return nil
}

// extractBearerToken pulls the token out of the Authorization header
func extractBearerToken(c *gin.Context) (string, error) {
	header := c.GetHeader(AuthHeaderKey)
	if header == "" {
		return "", errors.New("missing authorization header")
	}
	if !strings.HasPrefix(header, BearerPrefix) {
		return "", errors.New("authorization header is not a bearer token")
	}
	token := strings.TrimPrefix(header, BearerPrefix)
	if token == "" {
		return "", errors.New("empty bearer token")
	}
	return token, nil
}

// tokenErrorResponse maps token verification failures to API error codes
func tokenErrorResponse(err error) (code, message string) {
	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		return dto.ErrCodeTokenExpired, "Token has expired"
	case errors.Is(err, auth.ErrTokenNotYetValid):
		return dto.ErrCodeTokenInvalid, "Token is not yet valid"
	default:
		return dto.ErrCodeTokenInvalid, "Invalid token"
	}
}

func abortUnauthorized(c *gin.Context, log *zap.Logger, err error, code, message string) {
	if log != nil {
		log.Warn("Authentication failed",
			zap.Error(err),
			zap.String("path", c.Request.URL.Path))
	}
	c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(code, message))
}
