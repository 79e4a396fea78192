package handler

import (
	"errors"
	"net/http"
	"time"

	"groupmod/backend/internal/identity"
	"groupmod/backend/internal/moderation"

	"github.com/gin-gonic/gin"
	jwt "github.com/golang-jwt/jwt/v5"
)

// GenerateOperatorToken issues an HS256 JWT for a management-surface caller.
// The actor claim is either a Session ID (an authenticated end user acting as
// operator) or any other string treated as a system principal.
func GenerateOperatorToken(secret []byte, actorID string) (string, error) {
	claims := jwt.MapClaims{
		"actor": actorID,
		"exp":   time.Now().Add(time.Hour * 72).Unix(),
		"iss":   "groupmod-service",
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// ValidateOperatorToken checks the signature and expiry and returns the actor
// claim.
func ValidateOperatorToken(secret []byte, tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return secret, nil
	})
	if err != nil {
		return "", err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", errors.New("invalid token")
	}
	actor, _ := claims["actor"].(string)
	if actor == "" {
		return "", errors.New("token has no actor claim")
	}
	return actor, nil
}

// RequireOperator is the gin middleware guarding every management route.
func (h *Handler) RequireOperator(c *gin.Context) {
	authHeader := c.GetHeader("Authorization")
	if len(authHeader) < 7 || authHeader[:7] != "Bearer " {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization token missing"})
		return
	}

	actor, err := ValidateOperatorToken(h.JWTSecret, authHeader[7:])
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token or expired"})
		return
	}

	c.Set("actor", actor)
	c.Next()
}

// actorFrom converts the authenticated principal into a moderation actor:
// a UserActor when the claim is a valid Session ID, the system actor
// otherwise.
func actorFrom(c *gin.Context) moderation.Actor {
	id := c.GetString("actor")
	if sid, err := identity.ParseSessionID(id); err == nil {
		return moderation.UserActor{SessionID: sid}
	}
	return moderation.SystemActor{}
}
