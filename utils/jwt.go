package utils

import (
	"errors"
	"regexp"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// Claims defines the JWT claims for the admin API.
type Claims struct {
	UserID int64  `json:"id"`
	Login  string `json:"login"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

const (
	// TokenDuration is the lifetime of an issued token.
	TokenDuration = 24 * time.Hour
	// MaxTokenAge bounds how long ago a still-valid token may have been
	// issued before it is rejected as too old.
	MaxTokenAge = 10 * 24 * time.Hour
)

var jwtKey []byte // This will be set from outside the package

// ErrTokenTooOld is returned when a token's issue time exceeds MaxTokenAge.
var ErrTokenTooOld = errors.New("token is too old")

var tokenFormat = regexp.MustCompile(`^[A-Za-z0-9-_]+\.[A-Za-z0-9-_]+\.[A-Za-z0-9-_]*$`)

// SetJWTKey sets the JWT key to be used for signing and validating tokens
func SetJWTKey(key string) {
	jwtKey = []byte(key)
}

// GenerateToken creates a new JWT token for the given principal.
func GenerateToken(userID int64, login, role string) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID: userID,
		Login:  login,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenDuration)),
			Issuer:    "sushikub",
			Audience:  jwt.ClaimStrings{"sushikub-admin"},
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtKey)
}

// HasTokenFormat reports whether a string is shaped like a JWT before any
// cryptographic validation is attempted.
func HasTokenFormat(token string) bool {
	return tokenFormat.MatchString(token)
}

// ValidateToken parses and validates a JWT token
func ValidateToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return jwtKey, nil
	})

	if err != nil {
		return nil, err
	}

	if !token.Valid {
		return nil, jwt.ErrSignatureInvalid
	}

	if claims.IssuedAt != nil && time.Since(claims.IssuedAt.Time) > MaxTokenAge {
		return nil, ErrTokenTooOld
	}

	return claims, nil
}
