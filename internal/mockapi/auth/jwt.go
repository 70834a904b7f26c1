// Package auth issues and verifies the mock backend's HS256 access tokens.
package auth

import (
	"errors"
	"time"

	"github.com/dmitrijs2005/jobboard/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// Claims carries the user id and the client fingerprint the token was
// issued to.
type Claims struct {
	jwt.RegisteredClaims
	UserID      string `json:"uid"`
	Fingerprint string `json:"fph,omitempty"`
}

// Issuer signs and verifies access tokens. Now is the clock used for both;
// tests move it forward to expire tokens.
type Issuer struct {
	secret   []byte
	validity time.Duration
	Now      func() time.Time
}

func NewIssuer(secret []byte, validity time.Duration) *Issuer {
	return &Issuer{secret: secret, validity: validity, Now: time.Now}
}

// GenerateToken returns a signed token for userID bound to fingerprint.
func (i *Issuer) GenerateToken(userID, fingerprint string) (string, error) {
	now := i.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.validity)),
		},
		UserID:      userID,
		Fingerprint: fingerprint,
	})

	return token.SignedString(i.secret)
}

// Parse verifies tokenString. Expired tokens yield common.ErrTokenExpired,
// anything else unusable yields common.ErrInvalidToken.
func (i *Issuer) Parse(tokenString string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return i.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(i.Now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, common.ErrTokenExpired
		}
		return nil, common.ErrInvalidToken
	}

	if !token.Valid || claims.UserID == "" {
		return nil, common.ErrInvalidToken
	}

	return claims, nil
}
