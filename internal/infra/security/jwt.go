package security

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	uuid "github.com/google/uuid"
)

var (
	// ErrTokenMalformed indicates the token cannot be parsed at all.
	ErrTokenMalformed = errors.New("jwt: malformed token")
	// ErrTokenSignatureInvalid indicates the algorithm or signature does not match.
	ErrTokenSignatureInvalid = errors.New("jwt: invalid signature")
	// ErrTokenClaimsInvalid indicates issuer or audience verification failed.
	ErrTokenClaimsInvalid = errors.New("jwt: invalid claims")
)

// AccessTokenClaims is the fixed claim set embedded in every access token.
// No extension fields are supported.
type AccessTokenClaims struct {
	NameID string `json:"nameid"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// TokenCodec mints and verifies HMAC-SHA-256 signed access tokens against a
// single symmetric key. Lifetime is deliberately not checked on Parse; the
// refresh exchange uses an access-expired token purely as a carrier of
// subject and role (see RefreshAccessToken).
type TokenCodec struct {
	key      []byte
	issuer   string
	audience string
	now      func() time.Time
}

// NewTokenCodec constructs a codec for the configured symmetric key. A
// missing key is a startup misconfiguration and fails hard.
func NewTokenCodec(key, issuer, audience string) (*TokenCodec, error) {
	if strings.TrimSpace(key) == "" {
		return nil, fmt.Errorf("jwt: signing key is required")
	}
	if strings.TrimSpace(issuer) == "" {
		return nil, fmt.Errorf("jwt: issuer is required")
	}
	if strings.TrimSpace(audience) == "" {
		return nil, fmt.Errorf("jwt: audience is required")
	}
	return &TokenCodec{
		key:      []byte(key),
		issuer:   issuer,
		audience: audience,
		now:      func() time.Time { return time.Now().UTC() },
	}, nil
}

// WithClock overrides the codec clock for deterministic tests.
func (c *TokenCodec) WithClock(clock func() time.Time) {
	if clock != nil {
		c.now = clock
	}
}

// Sign mints an access token for the given user identity and role claim.
func (c *TokenCodec) Sign(userID, email, fullName, roleName string, ttl time.Duration) (string, *AccessTokenClaims, error) {
	if strings.TrimSpace(userID) == "" {
		return "", nil, fmt.Errorf("jwt: user id is required")
	}

	now := c.now()
	claims := &AccessTokenClaims{
		NameID: email,
		Name:   fullName,
		Email:  email,
		Role:   roleName,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    c.issuer,
			Audience:  jwt.ClaimStrings{c.audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        uuid.NewString(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(c.key)
	if err != nil {
		return "", nil, fmt.Errorf("jwt: sign token: %w", err)
	}

	return signed, claims, nil
}

// Parse verifies signature, signing method, issuer, and audience, and
// returns the claim set. Expiry is intentionally not validated here.
func (c *TokenCodec) Parse(tokenString string) (*AccessTokenClaims, error) {
	tokenString = strings.TrimSpace(tokenString)
	if tokenString == "" {
		return nil, ErrTokenMalformed
	}

	claims := &AccessTokenClaims{}
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	)

	parsed, err := parser.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return c.key, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenMalformed) {
			return nil, ErrTokenMalformed
		}
		return nil, ErrTokenSignatureInvalid
	}
	if parsed == nil || !parsed.Valid {
		return nil, ErrTokenSignatureInvalid
	}

	if claims.Issuer != c.issuer {
		return nil, ErrTokenClaimsInvalid
	}
	audienceOK := false
	for _, aud := range claims.Audience {
		if aud == c.audience {
			audienceOK = true
			break
		}
	}
	if !audienceOK {
		return nil, ErrTokenClaimsInvalid
	}
	if strings.TrimSpace(claims.Subject) == "" {
		return nil, ErrTokenClaimsInvalid
	}

	return claims, nil
}
