package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken  = errors.New("invalid table token")
	ErrTableMismatch = errors.New("token was issued for another table")
)

// TableClaims binds a token to the one table it was issued for
type TableClaims struct {
	TableID string `json:"table_id"`
	jwt.RegisteredClaims
}

// GenerateTableToken creates a signed token granting access to tableID
func GenerateTableToken(tableID, secret string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &TableClaims{
		TableID: tableID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   tableID,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ValidateTableToken checks signature and expiry and returns the claims
func ValidateTableToken(tokenString, secret string) (*TableClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &TableClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return []byte(secret), nil
	})

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*TableClaims); ok && token.Valid && claims.TableID != "" {
		return claims, nil
	}

	return nil, ErrInvalidToken
}

// AuthorizeTable validates the token and makes sure it belongs to tableID
func AuthorizeTable(tokenString, tableID, secret string) error {
	claims, err := ValidateTableToken(tokenString, secret)
	if err != nil {
		return err
	}
	if claims.TableID != tableID {
		return ErrTableMismatch
	}
	return nil
}
