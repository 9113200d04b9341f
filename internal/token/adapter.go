package token

import (
	"decisio/internal/platform/middleware"
)

func ToMiddlewareClaims(claims *Claims) *middleware.Claims {
	return &middleware.Claims{
		Subject: claims.Subject,
		JTI:     claims.ID,
	}
}

// MiddlewareAdapter exposes the token service through the verifier interface
// the auth middleware consumes.
type MiddlewareAdapter struct {
	service *Service
}

func NewMiddlewareAdapter(service *Service) *MiddlewareAdapter {
	return &MiddlewareAdapter{service: service}
}

func (a *MiddlewareAdapter) Verify(tokenString string) (*middleware.Claims, error) {
	claims, err := a.service.Verify(tokenString)
	if err != nil {
		return nil, err
	}
	return ToMiddlewareClaims(claims), nil
}
