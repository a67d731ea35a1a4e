package token

import (
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/WQTY-MASTER/SGMS/config"
	"github.com/WQTY-MASTER/SGMS/models"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func newTestCodec(t *testing.T) *Codec {
	t.Helper()
	codec, err := NewCodec(config.JWTConfig{Secret: testSecret, TTL: time.Hour}, zap.NewNop())
	require.NoError(t, err)
	return codec
}

func TestNewCodec(t *testing.T) {
	t.Run("rejects secret below 32 bytes", func(t *testing.T) {
		_, err := NewCodec(config.JWTConfig{Secret: "too-short", TTL: time.Hour}, zap.NewNop())
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrWeakSecret)
	})

	t.Run("rejects empty secret", func(t *testing.T) {
		_, err := NewCodec(config.JWTConfig{Secret: "", TTL: time.Hour}, zap.NewNop())
		assert.ErrorIs(t, err, ErrWeakSecret)
	})

	t.Run("rejects non-positive TTL", func(t *testing.T) {
		_, err := NewCodec(config.JWTConfig{Secret: testSecret}, zap.NewNop())
		assert.Error(t, err)
	})

	t.Run("accepts 32-byte secret", func(t *testing.T) {
		codec, err := NewCodec(config.JWTConfig{Secret: testSecret, TTL: time.Hour}, zap.NewNop())
		require.NoError(t, err)
		assert.NotNil(t, codec)
	})
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	codec := newTestCodec(t)

	for _, role := range []models.Role{models.RoleStudent, models.RoleTeacher} {
		t.Run(string(role), func(t *testing.T) {
			raw, err := codec.Encode(Identity{Username: "alice", Role: role})
			require.NoError(t, err)
			assert.Len(t, strings.Split(raw, "."), 3)

			claims, err := codec.Decode(raw)
			require.NoError(t, err)
			assert.Equal(t, "alice", claims.Subject)
			assert.Equal(t, "ROLE_"+string(role), claims.Role)

			identity, err := claims.Identity()
			require.NoError(t, err)
			assert.Equal(t, "alice", identity.Username)
			assert.Equal(t, role, identity.Role)
		})
	}
}

func TestEncodeRejectsEmptyUsername(t *testing.T) {
	codec := newTestCodec(t)
	_, err := codec.Encode(Identity{Role: models.RoleStudent})
	assert.ErrorIs(t, err, ErrEmptyIdentity)
}

func TestDecodeBearerPrefix(t *testing.T) {
	codec := newTestCodec(t)
	raw, err := codec.Encode(Identity{Username: "bob", Role: models.RoleTeacher})
	require.NoError(t, err)

	claims, err := codec.Decode("Bearer " + raw)
	require.NoError(t, err)
	assert.Equal(t, "bob", claims.Subject)
}

func TestDecodeFailureKinds(t *testing.T) {
	codec := newTestCodec(t)

	t.Run("tampered signature", func(t *testing.T) {
		raw, err := codec.Encode(Identity{Username: "alice", Role: models.RoleStudent})
		require.NoError(t, err)

		// flip the last signature character
		last := raw[len(raw)-1]
		replacement := byte('A')
		if last == replacement {
			replacement = 'B'
		}
		tampered := raw[:len(raw)-1] + string(replacement)

		_, err = codec.Decode(tampered)
		assert.ErrorIs(t, err, ErrInvalidSignature)
	})

	t.Run("tampered claims", func(t *testing.T) {
		raw, err := codec.Encode(Identity{Username: "alice", Role: models.RoleStudent})
		require.NoError(t, err)

		parts := strings.Split(raw, ".")
		require.Len(t, parts, 3)
		// swap in the payload of a token signed with a different key
		otherCodec, err := NewCodec(config.JWTConfig{
			Secret: "ffffffffffffffffffffffffffffffff",
			TTL:    time.Hour,
		}, zap.NewNop())
		require.NoError(t, err)
		other, err := otherCodec.Encode(Identity{Username: "mallory", Role: models.RoleTeacher})
		require.NoError(t, err)
		otherParts := strings.Split(other, ".")

		spliced := parts[0] + "." + otherParts[1] + "." + parts[2]
		_, err = codec.Decode(spliced)
		assert.ErrorIs(t, err, ErrInvalidSignature)
	})

	t.Run("expired token with valid signature", func(t *testing.T) {
		// sign with the same key but an expiry in the past
		claims := &Claims{
			RegisteredClaims: jwt.RegisteredClaims{
				Subject:   "alice",
				IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
			},
			Role: "ROLE_STUDENT",
		}
		raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
		require.NoError(t, err)

		_, err = codec.Decode(raw)
		assert.ErrorIs(t, err, ErrTokenExpired)
	})

	t.Run("wrong key", func(t *testing.T) {
		otherCodec, err := NewCodec(config.JWTConfig{
			Secret: "another-secret-key-32-bytes-long",
			TTL:    time.Hour,
		}, zap.NewNop())
		require.NoError(t, err)

		raw, err := otherCodec.Encode(Identity{Username: "alice", Role: models.RoleStudent})
		require.NoError(t, err)

		_, err = codec.Decode(raw)
		assert.ErrorIs(t, err, ErrInvalidSignature)
	})

	t.Run("garbage input", func(t *testing.T) {
		_, err := codec.Decode("not-a-token")
		assert.ErrorIs(t, err, ErrMalformedToken)
	})

	t.Run("empty input", func(t *testing.T) {
		_, err := codec.Decode("")
		assert.ErrorIs(t, err, ErrMalformedToken)
	})

	t.Run("unsigned alg rejected", func(t *testing.T) {
		claims := &Claims{
			RegisteredClaims: jwt.RegisteredClaims{
				Subject:   "alice",
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			},
			Role: "ROLE_STUDENT",
		}
		raw, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = codec.Decode(raw)
		assert.Error(t, err)
	})
}

func TestValidate(t *testing.T) {
	codec := newTestCodec(t)
	raw, err := codec.Encode(Identity{Username: "alice", Role: models.RoleStudent})
	require.NoError(t, err)

	t.Run("matching subject", func(t *testing.T) {
		assert.True(t, codec.Validate(raw, "alice"))
	})

	t.Run("subject mismatch", func(t *testing.T) {
		assert.False(t, codec.Validate(raw, "bob"))
	})

	t.Run("subject comparison is case-sensitive", func(t *testing.T) {
		assert.False(t, codec.Validate(raw, "Alice"))
	})

	t.Run("decode failure yields false", func(t *testing.T) {
		assert.False(t, codec.Validate("garbage", "alice"))
	})
}

func TestConcurrentEncode(t *testing.T) {
	codec := newTestCodec(t)

	const workers = 16
	tokens := make([]string, workers)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			username := fmt.Sprintf("user-%d", i)
			raw, err := codec.Encode(Identity{Username: username, Role: models.RoleStudent})
			assert.NoError(t, err)
			tokens[i] = raw
		}(i)
	}
	wg.Wait()

	// every token decodes independently to its own subject
	seen := make(map[string]bool)
	for i, raw := range tokens {
		claims, err := codec.Decode(raw)
		require.NoError(t, err)
		assert.Equal(t, fmt.Sprintf("user-%d", i), claims.Subject)
		seen[raw] = true
	}
	assert.Len(t, seen, workers)
}
