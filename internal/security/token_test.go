package security

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestTokenRoundTrip(t *testing.T) {
	v := NewTokenVerifier("test-secret")

	raw, err := v.Sign("user-1", "Alice", "alice@example.com", time.Hour)
	if err != nil {
		t.Fatalf("Sign() error = %v", err)
	}

	claims, err := v.Verify(raw)
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if claims.Subject != "user-1" || claims.Name != "Alice" || claims.Email != "alice@example.com" {
		t.Errorf("claims = %+v", claims)
	}
}

func TestVerifyRejects(t *testing.T) {
	v := NewTokenVerifier("test-secret")

	expired, _ := v.Sign("user-1", "Alice", "", -time.Minute)
	otherKey, _ := NewTokenVerifier("other-secret").Sign("user-1", "Alice", "", time.Hour)

	noSubject := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	})
	noSubjectRaw, _ := noSubject.SignedString([]byte("test-secret"))

	noExpiry := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "user-1"},
	})
	noExpiryRaw, _ := noExpiry.SignedString([]byte("test-secret"))

	tests := []struct {
		name string
		raw  string
	}{
		{name: "expired", raw: expired},
		{name: "wrong key", raw: otherKey},
		{name: "missing subject", raw: noSubjectRaw},
		{name: "missing expiry", raw: noExpiryRaw},
		{name: "garbage", raw: "not-a-token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := v.Verify(tt.raw)
			if !errors.Is(err, ErrInvalidToken) {
				t.Errorf("Verify() error = %v, want ErrInvalidToken", err)
			}
		})
	}
}
