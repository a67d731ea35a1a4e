package token

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/WQTY-MASTER/SGMS/config"
)

var (
	// ErrWeakSecret is returned at startup when the configured signing
	// secret is below the HS256 key floor
	ErrWeakSecret = errors.New("signing secret too short")

	// ErrMalformedToken is returned when the token cannot be parsed
	ErrMalformedToken = errors.New("malformed token")

	// ErrInvalidSignature is returned on signature mismatch (tampering or
	// wrong key)
	ErrInvalidSignature = errors.New("invalid token signature")

	// ErrTokenExpired is returned when the token is past its expiry
	ErrTokenExpired = errors.New("token expired")

	// ErrEmptyIdentity is returned when encoding an identity without a
	// username
	ErrEmptyIdentity = errors.New("identity username must not be empty")
)

// minSecretLen is the HS256 minimum key length: 256 bits
const minSecretLen = 32

// bearerPrefix is the transport prefix tolerated on decode
const bearerPrefix = "Bearer "

// Codec signs identities into self-contained, time-bounded tokens and
// validates them back into claims. It holds the only copy of the signing
// secret and TTL; both are read-only after construction, so a single Codec
// is safe for concurrent use.
type Codec struct {
	secret []byte
	ttl    time.Duration
	logger *zap.Logger
}

// NewCodec creates a Codec from the JWT configuration. It fails rather than
// accept a key shorter than the HS256 minimum.
func NewCodec(cfg config.JWTConfig, logger *zap.Logger) (*Codec, error) {
	secret := []byte(cfg.Secret)
	if len(secret) < minSecretLen {
		return nil, fmt.Errorf("%w: %d bytes, need at least %d", ErrWeakSecret, len(secret), minSecretLen)
	}
	if cfg.TTL <= 0 {
		return nil, fmt.Errorf("token TTL must be positive, got %s", cfg.TTL)
	}
	return &Codec{
		secret: secret,
		ttl:    cfg.TTL,
		logger: logger,
	}, nil
}

// Encode signs the identity into a token valid for the configured TTL
func (c *Codec) Encode(identity Identity) (string, error) {
	if identity.Username == "" {
		return "", ErrEmptyIdentity
	}

	now := time.Now()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   identity.Username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
		},
		Role: tagRole(identity.Role),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Decode verifies the signature, structure and expiry of a token and returns
// its claims. A leading "Bearer " transport prefix is tolerated. Failures are
// one of ErrMalformedToken, ErrInvalidSignature or ErrTokenExpired.
func (c *Codec) Decode(raw string) (*Claims, error) {
	raw = stripBearer(raw)
	if raw == "" {
		return nil, ErrMalformedToken
	}

	parsed, err := jwt.ParseWithClaims(raw, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return c.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

	if err != nil {
		return nil, mapParseError(err)
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, ErrMalformedToken
	}
	return claims, nil
}

// Validate decodes the token and checks that its subject matches the
// expected username. It never propagates decode failures; the cause is
// logged so operators can still tell expiry from tampering.
func (c *Codec) Validate(raw, username string) bool {
	claims, err := c.Decode(raw)
	if err != nil {
		c.logger.Warn("token validation failed", zap.Error(err))
		return false
	}
	if claims.Subject != username {
		c.logger.Warn("token subject mismatch",
			zap.String("subject", claims.Subject),
			zap.String("expected", username))
		return false
	}
	return true
}

// TTL returns the configured token lifetime
func (c *Codec) TTL() time.Duration {
	return c.ttl
}

// mapParseError collapses jwt parse failures into the codec's three
// distinguishable kinds
func mapParseError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrTokenExpired
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return ErrInvalidSignature
	case errors.Is(err, jwt.ErrTokenUnverifiable):
		// wrong signing method lands here via the keyfunc
		return ErrInvalidSignature
	default:
		return ErrMalformedToken
	}
}

func stripBearer(raw string) string {
	if strings.HasPrefix(raw, bearerPrefix) {
		return strings.TrimSpace(raw[len(bearerPrefix):])
	}
	return strings.TrimSpace(raw)
}
