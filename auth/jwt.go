package auth

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
)

// Context keys for the authenticated identity
const (
	PlayerIDKey = "player_id"
	ClaimsKey   = "claims"
)

// Claims represents the JWT claims structure. PlayerID is the authenticated
// identity every lifecycle operation is performed as; the core only compares
// it against stored authority/owner fields and never re-verifies signatures.
type Claims struct {
	PlayerID string `json:"player_id"`
	jwt.RegisteredClaims
}

// JWTConfig holds JWT middleware configuration
type JWTConfig struct {
	Secret      string
	TokenPrefix string // "Bearer"
	SkipPaths   []string
}

// DefaultJWTConfig returns default JWT configuration
func DefaultJWTConfig(secret string) JWTConfig {
	return JWTConfig{
		Secret:      secret,
		TokenPrefix: "Bearer",
		SkipPaths:   []string{"/health", "/api/health"},
	}
}

// JWTMiddleware creates a JWT authentication middleware
func JWTMiddleware(secret string, logger zerolog.Logger) gin.HandlerFunc {
	return JWTMiddlewareWithConfig(DefaultJWTConfig(secret), logger)
}

// JWTMiddlewareWithConfig creates a JWT middleware with custom configuration
func JWTMiddlewareWithConfig(config JWTConfig, logger zerolog.Logger) gin.HandlerFunc {
	skipPaths := make(map[string]bool)
	for _, path := range config.SkipPaths {
		skipPaths[path] = true
	}

	return func(c *gin.Context) {
		if skipPaths[c.Request.URL.Path] {
			c.Next()
			return
		}

		token, err := extractToken(c, config.TokenPrefix)
		if err != nil {
			logger.Warn().Err(err).Str("path", c.Request.URL.Path).Msg("Missing auth token")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"status_code": http.StatusUnauthorized,
				"is_success":  false,
				"error":       gin.H{"error_message": "Missing or malformed token"},
			})
			return
		}

		claims, err := ParseToken(token, config.Secret)
		if err != nil {
			logger.Warn().Err(err).Str("path", c.Request.URL.Path).Msg("Invalid auth token")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"status_code": http.StatusUnauthorized,
				"is_success":  false,
				"error":       gin.H{"error_message": "Invalid or expired token"},
			})
			return
		}

		c.Set(PlayerIDKey, claims.PlayerID)
		c.Set(ClaimsKey, claims)

		c.Next()
	}
}

func extractToken(c *gin.Context, prefix string) (string, error) {
	header := c.GetHeader("Authorization")
	if header == "" {
		return "", errors.New("authorization header missing")
	}
	if prefix != "" {
		if !strings.HasPrefix(header, prefix+" ") {
			return "", errors.New("authorization header malformed")
		}
		return strings.TrimPrefix(header, prefix+" "), nil
	}
	return header, nil
}

// ParseToken validates a token string and returns its claims
func ParseToken(tokenString, secret string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token claims")
	}
	if claims.PlayerID == "" {
		return nil, errors.New("token missing player_id")
	}
	return claims, nil
}

// GetPlayerID extracts the authenticated player identity from gin context
func GetPlayerID(c *gin.Context) (string, bool) {
	v, exists := c.Get(PlayerIDKey)
	if !exists {
		return "", false
	}
	id, ok := v.(string)
	return id, ok && id != ""
}
