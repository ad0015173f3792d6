package service

import (
	"errors"
	"fmt"
	"go-account-api/model"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ErrTokenDecode is returned for every token that cannot be accepted: bad
// signature, malformed, expired or not yet valid. Callers only see this class.
var ErrTokenDecode = errors.New("token could not be decoded")

var supportedAlgorithms = map[string]jwt.SigningMethod{
	jwt.SigningMethodHS256.Alg(): jwt.SigningMethodHS256,
	jwt.SigningMethodHS384.Alg(): jwt.SigningMethodHS384,
	jwt.SigningMethodHS512.Alg(): jwt.SigningMethodHS512,
}

// CodecConfig configures a TokenCodec.
type CodecConfig struct {
	Secret           []byte
	Algorithm        string
	Issuer           string
	AccessTTL        time.Duration
	RefreshTTL       time.Duration
	EnforceNotBefore bool
	// Now defaults to time.Now.
	Now func() time.Time
}

// StampOptions overrides the timestamps Encode would otherwise derive.
// Zero values mean "not supplied".
type StampOptions struct {
	IssuedAt  time.Time
	NotBefore time.Time
	TTL       time.Duration
}

// TokenEncoder is the encoding half of TokenCodec.
type TokenEncoder interface {
	Encode(kind model.TokenKind, subject string, opts StampOptions) (string, *model.TokenClaims, error)
}

// TokenDecoder is the decoding half of TokenCodec.
type TokenDecoder interface {
	Decode(tokenString string) (*model.TokenClaims, error)
}

// TokenCodec signs and verifies HMAC JWTs carrying model.TokenClaims.
type TokenCodec struct {
	secret           []byte
	method           jwt.SigningMethod
	issuer           string
	accessTTL        time.Duration
	refreshTTL       time.Duration
	enforceNotBefore bool
	now              func() time.Time
}

func NewTokenCodec(cfg CodecConfig) (*TokenCodec, error) {
	if len(cfg.Secret) == 0 {
		return nil, errors.New("token codec: empty signing secret")
	}
	method, ok := supportedAlgorithms[cfg.Algorithm]
	if !ok {
		return nil, fmt.Errorf("token codec: unsupported signing algorithm %q", cfg.Algorithm)
	}
	if cfg.AccessTTL <= 0 || cfg.RefreshTTL <= 0 {
		return nil, errors.New("token codec: token TTLs must be positive")
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &TokenCodec{
		secret:           cfg.Secret,
		method:           method,
		issuer:           cfg.Issuer,
		accessTTL:        cfg.AccessTTL,
		refreshTTL:       cfg.RefreshTTL,
		enforceNotBefore: cfg.EnforceNotBefore,
		now:              now,
	}, nil
}

// TTL returns the configured lifetime for kind.
func (c *TokenCodec) TTL(kind model.TokenKind) time.Duration {
	if kind == model.TokenRefresh {
		return c.refreshTTL
	}
	return c.accessTTL
}

// Encode stamps a fresh claim set for kind and subject and signs it. The
// returned claims are exactly what the token carries.
func (c *TokenCodec) Encode(kind model.TokenKind, subject string, opts StampOptions) (string, *model.TokenClaims, error) {
	if !kind.Valid() {
		return "", nil, fmt.Errorf("token codec: unknown token kind %q", kind)
	}

	issuedAt := opts.IssuedAt
	if issuedAt.IsZero() {
		issuedAt = c.now()
	}
	notBefore := opts.NotBefore
	if notBefore.IsZero() {
		notBefore = issuedAt
	}
	ttl := opts.TTL
	if ttl <= 0 {
		ttl = c.TTL(kind)
	}

	claims := &model.TokenClaims{
		Type: kind,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    c.issuer,
			Subject:   subject,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(issuedAt.UTC()),
			NotBefore: jwt.NewNumericDate(notBefore.UTC()),
			ExpiresAt: jwt.NewNumericDate(notBefore.Add(ttl).UTC()),
		},
	}

	signed, err := jwt.NewWithClaims(c.method, claims).SignedString(c.secret)
	if err != nil {
		return "", nil, fmt.Errorf("failed to sign token string: %w", err)
	}
	return signed, claims, nil
}

// Decode verifies the signature and expiry of tokenString and returns its
// claims. The token kind is not checked here.
func (c *TokenCodec) Decode(tokenString string) (*model.TokenClaims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{c.method.Alg()}),
		jwt.WithoutClaimsValidation(),
	)

	claims := &model.TokenClaims{}
	token, err := parser.ParseWithClaims(tokenString, claims, func(*jwt.Token) (interface{}, error) {
		return c.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTokenDecode, err)
	}
	if !token.Valid {
		return nil, ErrTokenDecode
	}

	if err := c.validate(claims); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTokenDecode, err)
	}
	return claims, nil
}

func (c *TokenCodec) validate(claims *model.TokenClaims) error {
	now := c.now()

	if claims.ExpiresAt == nil {
		return fmt.Errorf("%w: exp", jwt.ErrTokenRequiredClaimMissing)
	}
	if !now.Before(claims.ExpiresAt.Time) {
		return jwt.ErrTokenExpired
	}
	if c.enforceNotBefore && claims.NotBefore != nil && now.Before(claims.NotBefore.Time) {
		return jwt.ErrTokenNotValidYet
	}
	if c.issuer != "" && claims.Issuer != c.issuer {
		return jwt.ErrTokenInvalidIssuer
	}
	if !claims.Type.Valid() {
		return fmt.Errorf("%w: type", jwt.ErrTokenInvalidClaims)
	}
	if _, err := claims.TokenID(); err != nil {
		return fmt.Errorf("%w: jti", jwt.ErrTokenInvalidClaims)
	}
	if _, _, err := model.ParseSubject(claims.Subject); err != nil {
		return fmt.Errorf("%w: sub", jwt.ErrTokenInvalidClaims)
	}
	return nil
}
