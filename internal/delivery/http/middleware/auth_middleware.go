package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"go-workwise-backend/config"
	"go-workwise-backend/internal/delivery/http/response"
	"go-workwise-backend/internal/domain"
	"go-workwise-backend/pkg/auth"
	"go-workwise-backend/pkg/logger"
)

// AuthMiddleware verifies the gateway-issued JWT (HS256 via the shared
// secret, RS256 via JWKS) and loads the local user. Authorization reads the
// role from the local users table; verified token metadata only seeds the
// row the first time an identity is provisioned.
func AuthMiddleware(keys *auth.KeyProvider, cfg *config.Config, authUC domain.AuthUsecase) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := extractToken(c)
		if tokenString == "" {
			response.Error(c, http.StatusUnauthorized, "Authorization required", nil)
			c.Abort()
			return
		}

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); ok {
				if cfg.SupabaseJWTSecret == "" {
					return nil, fmt.Errorf("HS256 token received but no JWT secret configured")
				}
				return []byte(cfg.SupabaseJWTSecret), nil
			}
			if _, ok := token.Method.(*jwt.SigningMethodRSA); ok {
				return keys.KeyFunc(token)
			}
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		})
		if err != nil || !token.Valid {
			logger.Log.Warn("token validation failed", "error", err)
			response.Error(c, http.StatusUnauthorized, "Invalid token", nil)
			c.Abort()
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			response.Error(c, http.StatusUnauthorized, "Invalid claims", nil)
			c.Abort()
			return
		}
		sub, _ := claims["sub"].(string)
		email, _ := claims["email"].(string)
		if sub == "" {
			response.Error(c, http.StatusUnauthorized, "Invalid token subject", nil)
			c.Abort()
			return
		}

		// Sync the gateway identity into the local users table; first request
		// after an email-confirmed registration lands here. The metadata role
		// seeds the local row so an employer is never provisioned as a worker.
		if err := authUC.EnsureUserExists(c.Request.Context(), &domain.User{
			ID:    sub,
			Email: email,
			Role:  roleFromClaims(claims),
		}); err != nil {
			logger.Log.Error("user sync failed", "error", err, "user_id", sub)
		}

		user, err := authUC.GetCurrentUser(c.Request.Context(), sub)
		if err != nil {
			response.Error(c, http.StatusUnauthorized, "User not found", nil)
			c.Abort()
			return
		}

		c.Set(string(domain.KeyUserID), sub)
		c.Set(string(domain.KeyUserEmail), email)
		c.Set(string(domain.KeyUserRole), string(user.Role))
		c.Set(string(domain.KeyAuthToken), tokenString)

		// Mirror into the request context so usecases can enforce ownership
		// without touching gin.
		ctx := c.Request.Context()
		ctx = context.WithValue(ctx, domain.KeyUserID, sub)
		ctx = context.WithValue(ctx, domain.KeyUserEmail, email)
		ctx = context.WithValue(ctx, domain.KeyUserRole, string(user.Role))
		ctx = context.WithValue(ctx, domain.KeyAuthToken, tokenString)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// OptionalAuth resolves an identity when a valid token is present but lets
// anonymous requests through. Used by the route-resolution endpoint, which
// serves both audiences.
func OptionalAuth(keys *auth.KeyProvider, cfg *config.Config, authUC domain.AuthUsecase) gin.HandlerFunc {
	required := AuthMiddleware(keys, cfg, authUC)
	return func(c *gin.Context) {
		if extractToken(c) == "" {
			c.Next()
			return
		}
		required(c)
	}
}

// roleFromClaims reads the account type the user registered with from the
// verified token's metadata. Unknown values resolve to empty and the local
// row keeps its default; admin can never arrive through token metadata.
func roleFromClaims(claims jwt.MapClaims) domain.Role {
	meta, _ := claims["user_metadata"].(map[string]interface{})
	accountType, _ := meta["account_type"].(string)
	if role, ok := domain.RoleFromAccountType(accountType); ok {
		return role
	}
	return ""
}

func extractToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader != "" {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	cookie, err := c.Cookie("auth_token")
	if err == nil && cookie != "" {
		return cookie
	}
	return ""
}
