// Package token issues and verifies the signed access tokens handed out after login.
package token

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	apperrors "wishlist-backend/internal/common/errors"
)

const (
	TypeAccess   = "access"
	SchemeBearer = "Bearer"

	DefaultAlgorithm = "HS256"
	DefaultTTL       = time.Hour
)

// Claims is the payload of an access token.
type Claims struct {
	Type string `json:"type,omitempty"`
	jwt.RegisteredClaims
}

// Token is what a client receives after a successful login.
type Token struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
}

type Option func(*Issuer)

func WithClock(now func() time.Time) Option {
	return func(i *Issuer) {
		i.now = now
	}
}

type Issuer struct {
	secret []byte
	method jwt.SigningMethod
	ttl    time.Duration
	now    func() time.Time
}

// NewIssuer accepts HS256, HS384 and HS512.
func NewIssuer(secret, algorithm string, ttl time.Duration, opts ...Option) (*Issuer, error) {
	if secret == "" {
		return nil, fmt.Errorf("token secret is empty")
	}
	if algorithm == "" {
		algorithm = DefaultAlgorithm
	}
	method, ok := jwt.GetSigningMethod(algorithm).(*jwt.SigningMethodHMAC)
	if !ok {
		return nil, fmt.Errorf("unsupported signing algorithm %q", algorithm)
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	i := &Issuer{
		secret: []byte(secret),
		method: method,
		ttl:    ttl,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(i)
	}
	return i, nil
}

// Issue signs an access token for subjectID.
func (i *Issuer) Issue(subjectID int64) (*Token, error) {
	expiresAt := jwt.NewNumericDate(i.now().Add(i.ttl))
	claims := Claims{
		Type: TypeAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(subjectID, 10),
			ExpiresAt: expiresAt,
		},
	}

	signed, err := jwt.NewWithClaims(i.method, claims).SignedString(i.secret)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}

	return &Token{
		AccessToken: signed,
		TokenType:   SchemeBearer,
		ExpiresAt:   expiresAt.Time,
	}, nil
}

// Verify checks tokenString and returns the subject id it was issued for.
func (i *Issuer) Verify(tokenString string) (int64, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims,
		func(*jwt.Token) (interface{}, error) { return i.secret, nil },
		jwt.WithValidMethods([]string{i.method.Alg()}),
		jwt.WithTimeFunc(i.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return 0, apperrors.WrapAuthError(err, apperrors.AuthExpired)
		}
		return 0, apperrors.WrapAuthError(err, apperrors.AuthInvalidSignature)
	}

	if claims.Type != TypeAccess {
		return 0, apperrors.NewAuthError(apperrors.AuthWrongTokenType)
	}

	subjectID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return 0, apperrors.WrapAuthError(err, apperrors.AuthInvalidSignature)
	}
	return subjectID, nil
}
