package security

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	testSigningKey = "0123456789abcdef0123456789abcdef"
	testIssuer     = "user-access-service"
	testAudience   = "user-access-clients"
)

func newTestCodec(t *testing.T) *TokenCodec {
	t.Helper()
	codec, err := NewTokenCodec(testSigningKey, testIssuer, testAudience)
	if err != nil {
		t.Fatalf("NewTokenCodec returned error: %v", err)
	}
	return codec
}

func TestSignAndParseRoundTrip(t *testing.T) {
	codec := newTestCodec(t)

	token, claims, err := codec.Sign("user-1", "alice@example.com", "Alice Example", "User", 15*time.Minute)
	if err != nil {
		t.Fatalf("Sign returned error: %v", err)
	}
	if claims.ID == "" {
		t.Fatal("expected a generated jti")
	}

	parsed, err := codec.Parse(token)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if parsed.Subject != "user-1" {
		t.Fatalf("unexpected subject: %s", parsed.Subject)
	}
	if parsed.NameID != "alice@example.com" || parsed.Email != "alice@example.com" {
		t.Fatalf("unexpected email claims: %s / %s", parsed.NameID, parsed.Email)
	}
	if parsed.Name != "Alice Example" {
		t.Fatalf("unexpected name claim: %s", parsed.Name)
	}
	if parsed.Role != "User" {
		t.Fatalf("unexpected role claim: %s", parsed.Role)
	}
}

func TestParseAcceptsExpiredToken(t *testing.T) {
	codec := newTestCodec(t)
	codec.WithClock(func() time.Time { return time.Now().UTC().Add(-2 * time.Hour) })

	token, _, err := codec.Sign("user-1", "alice@example.com", "Alice", "User", time.Minute)
	if err != nil {
		t.Fatalf("Sign returned error: %v", err)
	}

	// Lifetime is deliberately not enforced so the refresh exchange can use
	// an access-expired token as a subject/role carrier.
	if _, err := codec.Parse(token); err != nil {
		t.Fatalf("Parse rejected expired token: %v", err)
	}
}

func TestParseRejectsTamperedToken(t *testing.T) {
	codec := newTestCodec(t)

	token, _, err := codec.Sign("user-1", "alice@example.com", "Alice", "User", time.Minute)
	if err != nil {
		t.Fatalf("Sign returned error: %v", err)
	}

	parts := strings.Split(token, ".")
	tampered := parts[0] + "." + parts[1] + "." + strings.Repeat("A", len(parts[2]))

	if _, err := codec.Parse(tampered); !errors.Is(err, ErrTokenSignatureInvalid) {
		t.Fatalf("expected ErrTokenSignatureInvalid, got %v", err)
	}
}

func TestParseRejectsForeignAlgorithm(t *testing.T) {
	codec := newTestCodec(t)

	foreign := jwt.NewWithClaims(jwt.SigningMethodHS512, jwt.RegisteredClaims{
		Subject:  "user-1",
		Issuer:   testIssuer,
		Audience: jwt.ClaimStrings{testAudience},
	})
	signed, err := foreign.SignedString([]byte(testSigningKey))
	if err != nil {
		t.Fatalf("sign foreign token: %v", err)
	}

	if _, err := codec.Parse(signed); !errors.Is(err, ErrTokenSignatureInvalid) {
		t.Fatalf("expected ErrTokenSignatureInvalid for HS512, got %v", err)
	}
}

func TestParseRejectsGarbage(t *testing.T) {
	codec := newTestCodec(t)
	if _, err := codec.Parse("not-a-token"); !errors.Is(err, ErrTokenMalformed) {
		t.Fatalf("expected ErrTokenMalformed, got %v", err)
	}
}

func TestParseRejectsWrongIssuer(t *testing.T) {
	other, err := NewTokenCodec(testSigningKey, "someone-else", testAudience)
	if err != nil {
		t.Fatalf("NewTokenCodec returned error: %v", err)
	}
	token, _, err := other.Sign("user-1", "alice@example.com", "Alice", "User", time.Minute)
	if err != nil {
		t.Fatalf("Sign returned error: %v", err)
	}

	codec := newTestCodec(t)
	if _, err := codec.Parse(token); !errors.Is(err, ErrTokenClaimsInvalid) {
		t.Fatalf("expected ErrTokenClaimsInvalid, got %v", err)
	}
}

func TestGenerateRefreshTokenShape(t *testing.T) {
	token, err := GenerateRefreshToken()
	if err != nil {
		t.Fatalf("GenerateRefreshToken returned error: %v", err)
	}
	// 64 random bytes, standard base64.
	if len(token) != 88 {
		t.Fatalf("unexpected encoded length: %d", len(token))
	}

	other, err := GenerateRefreshToken()
	if err != nil {
		t.Fatalf("GenerateRefreshToken returned error: %v", err)
	}
	if token == other {
		t.Fatal("expected distinct refresh tokens")
	}
}
