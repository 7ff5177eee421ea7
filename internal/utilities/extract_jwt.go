package utilities

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
)

// ExtractBearerToken pulls the token out of the Authorization header.
func ExtractBearerToken(c *gin.Context) (string, error) {

	const bearerSchema = "Bearer "
	authHeader := c.GetHeader("Authorization")

	if len(authHeader) <= len(bearerSchema) || !strings.HasPrefix(authHeader, bearerSchema) {
		return "", fmt.Errorf("invalid authorization header")
	}

	return authHeader[len(bearerSchema):], nil
}
