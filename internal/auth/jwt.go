// Package auth implements local credential auth and JWT issuing/validation.
package auth

import (
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"

	// Load env file into environments.
	_ "github.com/joho/godotenv/autoload"
)

var secretKey = os.Getenv("SECRET_KEY")

// JwtIssuer is the issuer claim stamped on every token this service signs.
const JwtIssuer = "Jobkhoj"

const accessTokenLifetime = 30 * 24 * time.Hour

func generateToken(userID uuid.UUID) (string, error) {
	signedToken, _, err := GenerateTokenWithDuration(userID, accessTokenLifetime, JwtIssuer)
	return signedToken, err
}

// GenerateTokenWithDuration signs a token with an arbitrary lifetime and
// issuer. Used by tests to fabricate expired or foreign tokens.
func GenerateTokenWithDuration(userID uuid.UUID, lifetime time.Duration, issuer string) (string, *jwt.RegisteredClaims, error) {
	claims := &jwt.RegisteredClaims{
		Issuer:    issuer,
		Subject:   userID.String(),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(lifetime)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signedToken, err := token.SignedString([]byte(secretKey))
	if err != nil {
		return "", nil, fmt.Errorf("failed to sign token: %w", err)
	}

	return signedToken, claims, nil
}

// ValidatedToken parses and verifies an encoded token against the service secret.
func ValidatedToken(encodedToken string) (*jwt.Token, error) {
	return jwt.ParseWithClaims(encodedToken, &jwt.RegisteredClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secretKey), nil
	})
}
