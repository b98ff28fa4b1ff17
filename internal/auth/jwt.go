package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrMissingClaims indicates a token that validated cryptographically but
// carries no subject or user id.
var ErrMissingClaims = errors.New("token is missing required claims")

type Claims struct {
	UserID int64  `json:"user_id"`
	Role   string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// Username is the token subject.
func (c *Claims) Username() string {
	return c.Subject
}

func NewAccessToken(secret, algorithm, issuer string, ttl time.Duration, username string, userID int64, role string) (string, error) {
	method := jwt.GetSigningMethod(algorithm)
	if method == nil {
		return "", errors.New("unknown signing algorithm: " + algorithm)
	}
	now := time.Now().UTC()
	claims := Claims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(method, claims)
	return token.SignedString([]byte(secret))
}

// ParseToken validates signature and expiry and normalizes the role claim so
// every authorization check downstream sees canonical tokens.
func ParseToken(secret, algorithm, tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{algorithm}))
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	if claims.Subject == "" || claims.UserID == 0 {
		return nil, ErrMissingClaims
	}
	claims.Role = NormalizeRole(claims.Role)
	return claims, nil
}
