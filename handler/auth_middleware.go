package handler

import (
	"context"
	"errors"
	"go-account-api/common"
	"go-account-api/logger"
	"go-account-api/model"
	"go-account-api/repository"
	"go-account-api/service"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// TokenPrefix must precede the token in the auth headers.
const TokenPrefix = "JWT "

type contextKey string

const identityKey contextKey = "identity"

// Identity is what an AuthGate attaches to the request context.
type Identity struct {
	User     *model.User
	Claims   *model.TokenClaims
	DeviceID string
}

// IdentityFromContext returns the identity attached by an AuthGate.
func IdentityFromContext(ctx context.Context) (*Identity, bool) {
	identity, ok := ctx.Value(identityKey).(*Identity)
	return identity, ok && identity != nil
}

// WithIdentity returns a copy of ctx carrying identity.
func WithIdentity(ctx context.Context, identity *Identity) context.Context {
	return context.WithValue(ctx, identityKey, identity)
}

// TokenOwnerFinder resolves the user owning an active token.
type TokenOwnerFinder interface {
	FindActiveByTokenID(ctx context.Context, kind model.TokenKind, tokenID uuid.UUID) (*model.User, error)
}

// AuthGate authenticates requests carrying a token of one kind in one header.
type AuthGate struct {
	kind    model.TokenKind
	header  string
	decoder service.TokenDecoder
	finder  TokenOwnerFinder
}

func NewAuthGate(kind model.TokenKind, header string, decoder service.TokenDecoder, finder TokenOwnerFinder) *AuthGate {
	return &AuthGate{kind: kind, header: header, decoder: decoder, finder: finder}
}

// Authenticate runs the header, decode, kind and lookup checks in order and
// returns the resolved identity.
func (g *AuthGate) Authenticate(r *http.Request) (*Identity, *common.AppError) {
	authHeader := r.Header.Get(g.header)
	if authHeader == "" {
		return nil, common.Unauthorized(g.header + " header is required")
	}
	if !strings.HasPrefix(authHeader, TokenPrefix) {
		return nil, common.Unauthorized("Invalid " + g.header + " header format")
	}
	tokenString := strings.TrimSpace(strings.TrimPrefix(authHeader, TokenPrefix))
	if tokenString == "" {
		return nil, common.Unauthorized("Invalid " + g.header + " header format")
	}

	claims, err := g.decoder.Decode(tokenString)
	if err != nil {
		return nil, common.Forbidden("Invalid or expired token", err)
	}

	if claims.Type != g.kind {
		return nil, common.Forbidden("Invalid token type", nil)
	}

	tokenID, err := claims.TokenID()
	if err != nil {
		return nil, common.Forbidden("Invalid or expired token", err)
	}
	user, err := g.finder.FindActiveByTokenID(r.Context(), g.kind, tokenID)
	if err != nil {
		if errors.Is(err, repository.ErrTokenNotFound) {
			return nil, common.Forbidden("Token is no longer active", nil)
		}
		return nil, common.NewAppError(http.StatusInternalServerError, "Could not verify token", err)
	}

	deviceID, err := claims.DeviceID()
	if err != nil {
		return nil, common.Forbidden("Invalid or expired token", err)
	}

	return &Identity{User: user, Claims: claims, DeviceID: deviceID}, nil
}

// Middleware rejects requests that fail Authenticate and passes the others on
// with the identity attached.
func (g *AuthGate) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, appErr := g.Authenticate(r)
		if appErr != nil {
			logger.Log.WithFields(logrus.Fields{
				"kind":   g.kind,
				"path":   r.URL.Path,
				"status": appErr.Code,
			}).Info("Authentication rejected")
			appErr.Send(w)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), identity)))
	})
}

// Wrap protects an error-returning handler.
func (g *AuthGate) Wrap(next func(http.ResponseWriter, *http.Request) *common.AppError) http.Handler {
	return g.Middleware(ErrorHandlingMiddleware(next))
}
