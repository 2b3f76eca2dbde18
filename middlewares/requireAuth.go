package middlewares

import (
	"net/http"
	"os"
	"strings"

	"github.com/fnd-app/fnd-api/initializers"
	"github.com/fnd-app/fnd-api/models"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// ParseToken verifies an HS256 bearer token and returns its claims.
func ParseToken(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(os.Getenv("JWT_SECRET")), nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}

func userFromBearer(ctx *gin.Context) (models.User, bool) {
	var user models.User

	authHeader := ctx.GetHeader("Authorization")
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return user, false
	}

	claims, err := ParseToken(strings.TrimPrefix(authHeader, "Bearer "))
	if err != nil {
		return user, false
	}

	userID, ok := claims["user_id"].(float64)
	if !ok {
		return user, false
	}

	if err := initializers.DB.First(&user, uint(userID)).Error; err != nil {
		return user, false
	}
	return user, true
}

// RequireAuth rejects requests without a valid bearer token and puts the
// authenticated user into the context.
func RequireAuth() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		user, ok := userFromBearer(ctx)
		if !ok {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}
		ctx.Set("user", user)
		ctx.Next()
	}
}

// OptionalAuth attaches the user when a valid token is present but lets
// anonymous requests through. Used by the guest-capable order route.
func OptionalAuth() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if user, ok := userFromBearer(ctx); ok {
			ctx.Set("user", user)
		}
		ctx.Next()
	}
}

// CurrentUser returns the authenticated user from the context, if any.
func CurrentUser(ctx *gin.Context) (models.User, bool) {
	value, exists := ctx.Get("user")
	if !exists {
		return models.User{}, false
	}
	user, ok := value.(models.User)
	return user, ok
}
