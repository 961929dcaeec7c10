package crypto

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims carried in the access token. The employee id is present only for
// users linked to an employee record.
type Claims struct {
	UserID     int64  `json:"uid"`
	Username   string `json:"username"`
	Role       string `json:"role"` // Employee/Librarian/Admin
	EmployeeID *int64 `json:"employee_id,omitempty"`
	jwt.RegisteredClaims
}

func GenerateToken(secret string, userID int64, username, role string, employeeID *int64, ttl time.Duration) (string, time.Time, error) {
	expiresAt := time.Now().Add(ttl)
	c := Claims{
		UserID:     userID,
		Username:   username,
		Role:       role,
		EmployeeID: employeeID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "corplibrary",
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	signed, err := t.SignedString([]byte(secret))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

func ParseToken(secret, tokenStr string) (*Claims, error) {
	t, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (any, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	if claims, ok := t.Claims.(*Claims); ok && t.Valid {
		return claims, nil
	}
	return nil, jwt.ErrTokenInvalidClaims
}
