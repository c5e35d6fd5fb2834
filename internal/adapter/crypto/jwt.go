package crypto

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/RapidPrime/ReferenceClient/internal/config"
	"github.com/RapidPrime/ReferenceClient/internal/core/ports/primary"
)

var _ primary.TokenVerifier = (*JWTServiceImpl)(nil)

var (
	ErrInvalidToken = fmt.Errorf("invalid token")
	ErrNoSecret     = errors.New("no signing secret configured")
)

// DefaultTokenTTL is the lifetime of tokens minted without an "exp" claim
const DefaultTokenTTL = time.Hour

// JWTServiceImpl signs and verifies HS256 tokens for the status API
type JWTServiceImpl struct {
	HMACSecretKey string
	now           func() time.Time
}

func NewJWTService(jwtConfig *config.JwtConfig) *JWTServiceImpl {
	return &JWTServiceImpl{
		HMACSecretKey: jwtConfig.Secret,
		now:           time.Now,
	}
}

// GenerateTokenHMAC signs claims with the shared secret. method must name an
// HMAC algorithm (HS256, HS384 or HS512).
func (J *JWTServiceImpl) GenerateTokenHMAC(_ context.Context, method string, claims map[string]interface{}) (string, error) {
	if J.HMACSecretKey == "" {
		return "", ErrNoSecret
	}
	signingMethod, ok := jwt.GetSigningMethod(method).(*jwt.SigningMethodHMAC)
	if !ok {
		return "", fmt.Errorf("unsupported signing method: %s", method)
	}

	mapClaims := jwt.MapClaims{}
	for k, v := range claims {
		mapClaims[k] = v
	}
	if _, exists := mapClaims["exp"]; !exists {
		mapClaims["exp"] = J.now().Add(DefaultTokenTTL).Unix()
	}

	tok := jwt.NewWithClaims(signingMethod, mapClaims)
	return tok.SignedString([]byte(J.HMACSecretKey))
}

// VerifyTokenHMAC reports whether token carries a valid HMAC signature made
// with the shared secret and has not expired.
func (J *JWTServiceImpl) VerifyTokenHMAC(_ context.Context, token string) (bool, error) {
	if J.HMACSecretKey == "" {
		return false, ErrNoSecret
	}
	parsedToken, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(J.HMACSecretKey), nil
	}, jwt.WithTimeFunc(J.now))
	if err != nil {
		return false, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	return parsedToken.Valid, nil
}
