package crypto

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/RapidPrime/ReferenceClient/internal/config"
)

func TestGenerateAndVerify(t *testing.T) {
	ctx := context.Background()
	svc := NewJWTService(&config.JwtConfig{Secret: "s3cret"})

	tok, err := svc.GenerateTokenHMAC(ctx, "HS256", map[string]interface{}{"sub": "status"})
	if err != nil {
		t.Fatalf("GenerateTokenHMAC: %v", err)
	}
	ok, err := svc.VerifyTokenHMAC(ctx, tok)
	if err != nil || !ok {
		t.Fatalf("VerifyTokenHMAC = %v, %v; want true, nil", ok, err)
	}

	other := NewJWTService(&config.JwtConfig{Secret: "other"})
	if ok, err := other.VerifyTokenHMAC(ctx, tok); ok || !errors.Is(err, ErrInvalidToken) {
		t.Errorf("foreign secret: got %v, %v", ok, err)
	}
}

func TestVerifyExpired(t *testing.T) {
	ctx := context.Background()
	svc := NewJWTService(&config.JwtConfig{Secret: "s3cret"})
	tok, err := svc.GenerateTokenHMAC(ctx, "HS256", map[string]interface{}{})
	if err != nil {
		t.Fatal(err)
	}
	svc.now = func() time.Time { return time.Now().Add(2 * DefaultTokenTTL) }
	if ok, err := svc.VerifyTokenHMAC(ctx, tok); ok || !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expired token: got %v, %v", ok, err)
	}
}

func TestRejectsNonHMAC(t *testing.T) {
	ctx := context.Background()
	svc := NewJWTService(&config.JwtConfig{Secret: "s3cret"})
	if _, err := svc.GenerateTokenHMAC(ctx, "RS256", nil); err == nil {
		t.Error("RS256 accepted for HMAC signing")
	}
	// alg "none" header
	const unsigned = "eyJhbGciOiJub25lIiwidHlwIjoiSldUIn0.eyJzdWIiOiJ4In0."
	if ok, _ := svc.VerifyTokenHMAC(ctx, unsigned); ok {
		t.Error("unsigned token accepted")
	}
}

func TestNoSecret(t *testing.T) {
	svc := NewJWTService(&config.JwtConfig{})
	if _, err := svc.GenerateTokenHMAC(context.Background(), "HS256", nil); !errors.Is(err, ErrNoSecret) {
		t.Errorf("got %v, want ErrNoSecret", err)
	}
}
