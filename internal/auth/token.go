package auth

import (
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"workorders/internal/user"
)

const DefaultTokenTTL = 12 * time.Hour

type Claims struct {
	jwt.RegisteredClaims

	Name string `json:"name,omitempty"`
	Role string `json:"role"`
}

// IssueToken signs a bearer token (JWT, HS256) for the given user.
func IssueToken(secret string, u *user.User, now time.Time, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("missing token secret")
	}
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(u.ID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Name: u.Name,
		Role: string(u.Role),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// VerifyToken validates a bearer token and returns its claims along with the
// user id parsed from the subject.
func VerifyToken(tokenString, secret string, now time.Time) (*Claims, int64, error) {
	if tokenString == "" {
		return nil, 0, fmt.Errorf("missing token")
	}
	if secret == "" {
		return nil, 0, fmt.Errorf("missing token secret")
	}

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithTimeFunc(func() time.Time { return now }),
	)
	claims := &Claims{}
	tok, err := parser.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return []byte(secret), nil
	})
	if err != nil {
		return nil, 0, err
	}
	if !tok.Valid {
		return nil, 0, fmt.Errorf("invalid token")
	}

	if claims.ExpiresAt == nil || claims.ExpiresAt.Time.Before(now) {
		return nil, 0, fmt.Errorf("token expired")
	}

	uid, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || uid <= 0 {
		return nil, 0, fmt.Errorf("invalid subject")
	}

	return claims, uid, nil
}
