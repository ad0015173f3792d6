package service

import (
	"strings"
	"testing"
	"time"

	"go-account-api/model"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var codecEpoch = time.Date(2025, 2, 12, 19, 46, 0, 0, time.UTC)

type testClock struct{ now time.Time }

func (c *testClock) Now() time.Time { return c.now }

func newTestCodec(t *testing.T, clock *testClock, mutate func(*CodecConfig)) *TokenCodec {
	t.Helper()
	cfg := CodecConfig{
		Secret:     []byte("test-secret"),
		Algorithm:  "HS256",
		Issuer:     "go-account-api",
		AccessTTL:  15 * time.Minute,
		RefreshTTL: 72 * time.Hour,
		Now:        clock.Now,
	}
	if mutate != nil {
		mutate(&cfg)
	}
	codec, err := NewTokenCodec(cfg)
	require.NoError(t, err)
	return codec
}

func TestNewTokenCodec_RejectsBadConfig(t *testing.T) {
	base := CodecConfig{Secret: []byte("s"), Algorithm: "HS256", AccessTTL: time.Minute, RefreshTTL: time.Hour}

	for name, mutate := range map[string]func(*CodecConfig){
		"empty secret":   func(c *CodecConfig) { c.Secret = nil },
		"rsa algorithm":  func(c *CodecConfig) { c.Algorithm = "RS256" },
		"none algorithm": func(c *CodecConfig) { c.Algorithm = "none" },
		"zero ttl":       func(c *CodecConfig) { c.AccessTTL = 0 },
	} {
		t.Run(name, func(t *testing.T) {
			cfg := base
			mutate(&cfg)
			_, err := NewTokenCodec(cfg)
			assert.Error(t, err)
		})
	}
}

func TestTokenCodec_EncodeStampsClaims(t *testing.T) {
	clock := &testClock{now: codecEpoch}
	codec := newTestCodec(t, clock, nil)
	subject := model.NewSubject(uuid.New(), "phone")

	t.Run("access defaults", func(t *testing.T) {
		_, claims, err := codec.Encode(model.TokenAccess, subject, StampOptions{})
		require.NoError(t, err)

		assert.Equal(t, model.TokenAccess, claims.Type)
		assert.Equal(t, "go-account-api", claims.Issuer)
		assert.Equal(t, subject, claims.Subject)
		_, err = uuid.Parse(claims.ID)
		assert.NoError(t, err, "jti should be a UUID")
		assert.Equal(t, codecEpoch.Unix(), claims.IssuedAt.Unix())
		assert.Equal(t, codecEpoch.Unix(), claims.NotBefore.Unix())
		assert.Equal(t, codecEpoch.Add(15*time.Minute).Unix(), claims.ExpiresAt.Unix())
	})

	t.Run("refresh uses its own ttl", func(t *testing.T) {
		_, claims, err := codec.Encode(model.TokenRefresh, subject, StampOptions{})
		require.NoError(t, err)
		assert.Equal(t, codecEpoch.Add(72*time.Hour).Unix(), claims.ExpiresAt.Unix())
	})

	t.Run("supplied times and ttl override", func(t *testing.T) {
		issuedAt := codecEpoch.Add(-time.Hour)
		notBefore := codecEpoch.Add(time.Hour)
		_, claims, err := codec.Encode(model.TokenAccess, subject, StampOptions{
			IssuedAt:  issuedAt,
			NotBefore: notBefore,
			TTL:       5 * time.Minute,
		})
		require.NoError(t, err)
		assert.Equal(t, issuedAt.Unix(), claims.IssuedAt.Unix())
		assert.Equal(t, notBefore.Unix(), claims.NotBefore.Unix())
		assert.Equal(t, notBefore.Add(5*time.Minute).Unix(), claims.ExpiresAt.Unix())
	})

	t.Run("fresh jti per call", func(t *testing.T) {
		_, first, err := codec.Encode(model.TokenAccess, subject, StampOptions{})
		require.NoError(t, err)
		_, second, err := codec.Encode(model.TokenAccess, subject, StampOptions{})
		require.NoError(t, err)
		assert.NotEqual(t, first.ID, second.ID)
	})

	t.Run("unknown kind", func(t *testing.T) {
		_, _, err := codec.Encode(model.TokenKind("SESSION"), subject, StampOptions{})
		assert.Error(t, err)
	})
}

func TestTokenCodec_RoundTrip(t *testing.T) {
	clock := &testClock{now: codecEpoch}
	codec := newTestCodec(t, clock, nil)
	subject := model.NewSubject(uuid.New(), "laptop")

	for _, kind := range []model.TokenKind{model.TokenAccess, model.TokenRefresh} {
		t.Run(string(kind), func(t *testing.T) {
			token, encoded, err := codec.Encode(kind, subject, StampOptions{})
			require.NoError(t, err)

			decoded, err := codec.Decode(token)
			require.NoError(t, err)

			assert.Equal(t, encoded.Type, decoded.Type)
			assert.Equal(t, encoded.Subject, decoded.Subject)
			assert.Equal(t, encoded.Issuer, decoded.Issuer)
			assert.Equal(t, encoded.ID, decoded.ID)
			assert.Equal(t, encoded.IssuedAt.Unix(), decoded.IssuedAt.Unix())
			assert.Equal(t, encoded.NotBefore.Unix(), decoded.NotBefore.Unix())
			assert.Equal(t, encoded.ExpiresAt.Unix(), decoded.ExpiresAt.Unix())
		})
	}
}

func TestTokenCodec_DecodeDoesNotCheckKind(t *testing.T) {
	codec := newTestCodec(t, &testClock{now: codecEpoch}, nil)

	token, _, err := codec.Encode(model.TokenRefresh, model.NewSubject(uuid.New(), ""), StampOptions{})
	require.NoError(t, err)

	claims, err := codec.Decode(token)
	require.NoError(t, err)
	assert.Equal(t, model.TokenRefresh, claims.Type)
}

func TestTokenCodec_ExpiredAndTamperedFailAlike(t *testing.T) {
	clock := &testClock{now: codecEpoch}
	codec := newTestCodec(t, clock, nil)
	subject := model.NewSubject(uuid.New(), "phone")

	token, _, err := codec.Encode(model.TokenAccess, subject, StampOptions{})
	require.NoError(t, err)

	otherSecret := newTestCodec(t, clock, func(c *CodecConfig) { c.Secret = []byte("another-secret") })
	forged, _, err := otherSecret.Encode(model.TokenAccess, subject, StampOptions{})
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)
	forgedParts := strings.Split(forged, ".")
	swappedPayload := strings.Join([]string{parts[0], forgedParts[1], parts[2]}, ".")

	t.Run("wrong secret", func(t *testing.T) {
		_, err := codec.Decode(forged)
		assert.ErrorIs(t, err, ErrTokenDecode)
	})

	t.Run("payload swapped", func(t *testing.T) {
		_, err := codec.Decode(swappedPayload)
		assert.ErrorIs(t, err, ErrTokenDecode)
	})

	t.Run("malformed", func(t *testing.T) {
		_, err := codec.Decode("not.a.jwt")
		assert.ErrorIs(t, err, ErrTokenDecode)
	})

	t.Run("expired", func(t *testing.T) {
		expiredClock := &testClock{now: codecEpoch.Add(15 * time.Minute)}
		later := newTestCodec(t, expiredClock, nil)

		_, err := later.Decode(token)
		assert.ErrorIs(t, err, ErrTokenDecode)
		assert.ErrorIs(t, err, jwt.ErrTokenExpired)
	})
}

func TestTokenCodec_RejectsOtherAlgorithmsAndIssuers(t *testing.T) {
	clock := &testClock{now: codecEpoch}
	codec := newTestCodec(t, clock, nil)
	subject := model.NewSubject(uuid.New(), "phone")

	t.Run("algorithm", func(t *testing.T) {
		hs512 := newTestCodec(t, clock, func(c *CodecConfig) { c.Algorithm = "HS512" })
		token, _, err := hs512.Encode(model.TokenAccess, subject, StampOptions{})
		require.NoError(t, err)

		_, err = codec.Decode(token)
		assert.ErrorIs(t, err, ErrTokenDecode)
	})

	t.Run("issuer", func(t *testing.T) {
		foreign := newTestCodec(t, clock, func(c *CodecConfig) { c.Issuer = "someone-else" })
		token, _, err := foreign.Encode(model.TokenAccess, subject, StampOptions{})
		require.NoError(t, err)

		_, err = codec.Decode(token)
		assert.ErrorIs(t, err, ErrTokenDecode)
		assert.ErrorIs(t, err, jwt.ErrTokenInvalidIssuer)
	})

	t.Run("bad subject", func(t *testing.T) {
		token, _, err := codec.Encode(model.TokenAccess, "no-separator", StampOptions{})
		require.NoError(t, err)

		_, err = codec.Decode(token)
		assert.ErrorIs(t, err, ErrTokenDecode)
	})
}

func TestTokenCodec_NotBefore(t *testing.T) {
	clock := &testClock{now: codecEpoch}
	subject := model.NewSubject(uuid.New(), "phone")
	future := codecEpoch.Add(time.Hour)

	t.Run("not enforced by default", func(t *testing.T) {
		codec := newTestCodec(t, clock, nil)
		token, _, err := codec.Encode(model.TokenAccess, subject, StampOptions{NotBefore: future})
		require.NoError(t, err)

		claims, err := codec.Decode(token)
		require.NoError(t, err)
		assert.Equal(t, future.Unix(), claims.NotBefore.Unix())
	})

	t.Run("enforced", func(t *testing.T) {
		codec := newTestCodec(t, clock, func(c *CodecConfig) { c.EnforceNotBefore = true })
		token, _, err := codec.Encode(model.TokenAccess, subject, StampOptions{NotBefore: future})
		require.NoError(t, err)

		_, err = codec.Decode(token)
		assert.ErrorIs(t, err, ErrTokenDecode)
		assert.ErrorIs(t, err, jwt.ErrTokenNotValidYet)

		clock.now = future
		defer func() { clock.now = codecEpoch }()
		_, err = codec.Decode(token)
		assert.NoError(t, err)
	})
}
