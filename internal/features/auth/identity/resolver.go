// Package identity turns request credentials into a user identity.
package identity

import (
	"strings"

	apperrors "wishlist-backend/internal/common/errors"
	"wishlist-backend/internal/features/auth/initdata"
)

type InitDataVerifier interface {
	Verify(raw string) (*initdata.Identity, error)
}

type TokenVerifier interface {
	Verify(tokenString string) (int64, error)
}

type Resolver struct {
	initData InitDataVerifier
	tokens   TokenVerifier
}

func NewResolver(initData InitDataVerifier, tokens TokenVerifier) *Resolver {
	return &Resolver{initData: initData, tokens: tokens}
}

// ResolveFromInitData verifies the raw X-Telegram-Init-Data header value.
func (r *Resolver) ResolveFromInitData(header string) (*initdata.Identity, error) {
	if header == "" {
		return nil, apperrors.NewAuthError(apperrors.AuthMissingHeader)
	}
	return r.initData.Verify(header)
}

// ResolveFromToken accepts only "Bearer <token>"; the scheme is case-insensitive.
func (r *Resolver) ResolveFromToken(authorization string) (int64, error) {
	if authorization == "" {
		return 0, apperrors.NewAuthError(apperrors.AuthMissingHeader)
	}

	scheme, tokenString, found := strings.Cut(authorization, " ")
	if !found || !strings.EqualFold(scheme, "bearer") || tokenString == "" {
		return 0, apperrors.NewAuthError(apperrors.AuthInvalidScheme)
	}
	return r.tokens.Verify(tokenString)
}
