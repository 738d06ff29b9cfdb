// Package auth issues and validates signed session tokens.
package auth

import (
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/dmitrijs2005/filevault/internal/common"
	"github.com/dmitrijs2005/filevault/internal/server/models"
)

// Claims includes the registered claims plus the user's visible identity.
// The user id travels in the Subject claim as a decimal string.
type Claims struct {
	jwt.RegisteredClaims
	Username string `json:"username"`
	Email    string `json:"email"`
}

// TokenService signs and verifies HS256 session tokens. The secret, issuer
// and audience are injected at construction and never read from globals.
//
// Tokens are stateless: there is no revocation list, so an issued token
// stays valid until its embedded expiration regardless of later account
// changes.
type TokenService struct {
	secret   []byte
	issuer   string
	audience string
	validity time.Duration
}

func NewTokenService(secret []byte, issuer, audience string, validity time.Duration) *TokenService {
	return &TokenService{secret: secret, issuer: issuer, audience: audience, validity: validity}
}

// Issue produces a signed token asserting the user's identity.
func (s *TokenService) Issue(user *models.User) (string, error) {
	now := time.Now()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(user.ID, 10),
			Issuer:    s.issuer,
			Audience:  jwt.ClaimStrings{s.audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.validity)),
		},
		Username: user.Username,
		Email:    user.Email,
	})

	tokenString, err := token.SignedString(s.secret)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// Validate verifies signature, issuer, audience and expiration (no clock
// skew tolerance) and returns the user id the token was issued for. All
// failure modes collapse into common.ErrorInvalidToken so the caller cannot
// tell expired from malformed from wrong-signature.
func (s *TokenService) Validate(tokenString string) (int64, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.issuer),
		jwt.WithAudience(s.audience),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !token.Valid {
		return 0, common.ErrorInvalidToken
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return 0, common.ErrorInvalidToken
	}

	return userID, nil
}
