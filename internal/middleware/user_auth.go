package middleware

import (
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserAuth validates user JWT tokens and injects the userId and username
// into the context.
func UserAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := strings.TrimSpace(c.GetHeader("Authorization"))
		if raw == "" {
			log.Println("[AUTH] [ERROR] missing token")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
			return
		}

		userID, username, ok := parseUserToken(raw, secret)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		c.Set("userId", userID)
		c.Set("username", username)
		c.Next()
	}
}

// OptionalUserAuth is UserAuth for routes that also serve guests: no header
// means anonymous and the request continues, but a header that fails
// validation is still rejected rather than silently downgraded.
func OptionalUserAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := strings.TrimSpace(c.GetHeader("Authorization"))
		if raw == "" {
			c.Next()
			return
		}

		userID, username, ok := parseUserToken(raw, secret)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		c.Set("userId", userID)
		c.Set("username", username)
		c.Next()
	}
}

func parseUserToken(raw, secret string) (primitive.ObjectID, string, bool) {
	parts := strings.Split(raw, " ")
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		log.Println("[AUTH] [ERROR] invalid token format")
		return primitive.NilObjectID, "", false
	}

	token, err := jwt.Parse(parts[1], func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		log.Println("[AUTH] [ERROR] token validation failed:", err)
		return primitive.NilObjectID, "", false
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		log.Println("[AUTH] [ERROR] token claims invalid")
		return primitive.NilObjectID, "", false
	}

	userIDValue, ok := claims["userId"].(string)
	if !ok || strings.TrimSpace(userIDValue) == "" {
		log.Println("[AUTH] [ERROR] userId claim missing")
		return primitive.NilObjectID, "", false
	}
	userID, err := primitive.ObjectIDFromHex(userIDValue)
	if err != nil {
		log.Println("[AUTH] [ERROR] invalid userId claim")
		return primitive.NilObjectID, "", false
	}

	username, ok := claims["username"].(string)
	if !ok || strings.TrimSpace(username) == "" {
		log.Println("[AUTH] [ERROR] username claim missing")
		return primitive.NilObjectID, "", false
	}

	return userID, username, true
}
