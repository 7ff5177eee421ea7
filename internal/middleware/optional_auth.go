package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"

	"jobkhoj-backend/internal/auth"
	"jobkhoj-backend/internal/database"
	"jobkhoj-backend/internal/model"
	"jobkhoj-backend/internal/utilities"
)

// OptionalAuth attaches the user to the context when a valid Bearer token is
// present and otherwise lets the request through anonymously. Public job
// listings use it so owners still see their own hidden postings.
func OptionalAuth(db *database.DBinstanceStruct) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		tokenString, err := utilities.ExtractBearerToken(ctx)
		if err != nil {
			ctx.Next()
			return
		}

		token, err := auth.ValidatedToken(tokenString)
		if err != nil || !token.Valid {
			ctx.Next()
			return
		}

		claims, ok := token.Claims.(*jwt.RegisteredClaims)
		if !ok || claims.Issuer != auth.JwtIssuer {
			ctx.Next()
			return
		}

		var foundUser model.User
		if err := db.Where("id = ?", claims.Subject).First(&foundUser).Error; err != nil {
			ctx.Next()
			return
		}

		ctx.Set("user", foundUser)
		ctx.Next()
	}
}
