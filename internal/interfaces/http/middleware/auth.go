package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/marealta/backend/internal/infrastructure/auth"
	"github.com/marealta/backend/internal/infrastructure/logger"
	"github.com/marealta/backend/internal/interfaces/http/dto"
)

// JWTClaimsKey is the gin context key holding the verified claims
const JWTClaimsKey = "jwt_claims"

const bearerPrefix = "Bearer "

// Blacklist answers whether an issued token has been revoked
type Blacklist interface {
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// Auth validates the bearer token and binds the verified tenant and user
// identity into the request context. The token's tenant claim is the only
// tenant source a request gets; no header or body field can override it.
//
// Blacklist lookups fail closed: if Redis cannot answer, the request is
// rejected rather than served with a possibly revoked token.
func Auth(tokens *auth.TokenManager, blacklist Blacklist) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, bearerPrefix) {
			abortUnauthorized(c, dto.ErrCodeUnauthorized, "Authentication required")
			return
		}

		claims, err := tokens.Validate(strings.TrimPrefix(header, bearerPrefix))
		if err != nil {
			abortUnauthorized(c, dto.ErrCodeUnauthorized, "Invalid or expired token")
			return
		}

		if blacklist != nil && claims.ID != "" {
			revoked, err := blacklist.IsRevoked(c.Request.Context(), claims.ID)
			if err != nil {
				logger.L(c.Request.Context()).Error("token blacklist check failed", zap.Error(err))
				abortUnauthorized(c, dto.ErrCodeUnauthorized, "Authentication unavailable")
				return
			}
			if revoked {
				abortUnauthorized(c, dto.ErrCodeTokenRevoked, "Token has been revoked")
				return
			}
		}

		c.Set(JWTClaimsKey, claims)

		ctx := c.Request.Context()
		log := logger.FromContext(ctx)
		ctx, log = logger.WithTenantID(ctx, log, claims.TenantID)
		ctx, _ = logger.WithUserID(ctx, log, claims.UserID, claims.Name)
		ctx = logger.WithUserRole(ctx, claims.Role)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// RequireWriteRole rejects requests from roles that may not mutate data
func RequireWriteRole() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetClaims(c)
		if claims == nil || (claims.Role != "admin" && claims.Role != "technician") {
			c.AbortWithStatusJSON(http.StatusForbidden,
				dto.NewErrorResponse(dto.ErrCodeForbidden, "Your role cannot perform this action", ""))
			return
		}
		c.Next()
	}
}

// RequireAdmin rejects requests from non-admin roles
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetClaims(c)
		if claims == nil || claims.Role != "admin" {
			c.AbortWithStatusJSON(http.StatusForbidden,
				dto.NewErrorResponse(dto.ErrCodeForbidden, "Administrator access required", ""))
			return
		}
		c.Next()
	}
}

// GetClaims retrieves the verified claims from the gin context
func GetClaims(c *gin.Context) *auth.Claims {
	if value, exists := c.Get(JWTClaimsKey); exists {
		if claims, ok := value.(*auth.Claims); ok {
			return claims
		}
	}
	return nil
}

func abortUnauthorized(c *gin.Context, code, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(code, message, logger.GetRequestID(c.Request.Context())))
}
