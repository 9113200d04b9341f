// Package token mints and verifies the HS256 service tokens that guard the
// decision API. Tokens identify calling services, not end users; the subject
// claim carries the service name.
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	dErrors "decisio/pkg/domain-errors"
)

const (
	// Issuer identifies tokens minted by this service.
	Issuer = "decisio"
	// Audience scopes tokens to the decision API.
	Audience = "decisio-api"
)

// Claims represents the JWT claims for our service tokens.
type Claims struct {
	Env string `json:"env,omitempty"`
	jwt.RegisteredClaims
}

// Service handles token creation and validation.
type Service struct {
	signingKey []byte
	env        string
	tokenTTL   time.Duration
}

func New(signingKey string, env string, tokenTTL time.Duration) *Service {
	return &Service{
		signingKey: []byte(signingKey),
		env:        env,
		tokenTTL:   tokenTTL,
	}
}

// Mint issues a signed token for the named calling service.
func (s *Service) Mint(service string) (string, error) {
	if service == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "service name cannot be empty")
	}

	now := time.Now()
	newToken := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Env: s.env,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   service,
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    Issuer,
			Audience:  []string{Audience},
			ID:        uuid.NewString(),
		},
	})

	signedToken, err := newToken.SignedString(s.signingKey)
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "could not sign token")
	}
	return signedToken, nil
}

// Verify checks the signature and standard claims of a presented token.
func (s *Service) Verify(tokenString string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenUnverifiable
		}
		return s.signingKey, nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, dErrors.New(dErrors.CodeUnauthorized, "token expired")
		}
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token")
	}

	if !parsed.Valid {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token")
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token claims")
	}

	// Explicit issuer and audience validation: the token must have been
	// minted by this service, for this API.
	if claims.Issuer != Issuer {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token issuer")
	}
	if !hasAudience(claims.Audience, Audience) {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token audience")
	}

	// Tokens minted for another environment are rejected. Tokens without an
	// env claim predate the check and still pass.
	if s.env != "" && claims.Env != "" && claims.Env != s.env {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token environment")
	}

	return claims, nil
}

func hasAudience(audience jwt.ClaimStrings, want string) bool {
	for _, aud := range audience {
		if aud == want {
			return true
		}
	}
	return false
}
