package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/omnistore/stock-ledger/internal/domain"
)

const actorKey = "actor"

// Claims is the JWT payload issued by the auth service. A store_id of
// zero with the admin role marks a globally scoped operator.
type Claims struct {
	UserID  int64  `json:"user_id"`
	Name    string `json:"name"`
	Role    string `json:"role"`
	StoreID int64  `json:"store_id"`
	jwt.RegisteredClaims
}

// Authenticate validates the bearer token and puts the resulting actor
// into the request context.
func Authenticate(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization header is required"})
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token format"})
			return
		}

		claims := &Claims{}
		token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
			return secret, nil
		})
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}

		c.Set(actorKey, domain.Actor{
			UserID:  claims.UserID,
			Name:    claims.Name,
			Role:    claims.Role,
			StoreID: claims.StoreID,
		})

		c.Next()
	}
}

// ActorFrom returns the authenticated actor set by Authenticate.
func ActorFrom(c *gin.Context) domain.Actor {
	actor, _ := c.Get(actorKey)
	if a, ok := actor.(domain.Actor); ok {
		return a
	}
	return domain.Actor{}
}
