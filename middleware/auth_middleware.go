package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/WQTY-MASTER/SGMS/models"
	"github.com/WQTY-MASTER/SGMS/repositories"
	"github.com/WQTY-MASTER/SGMS/token"
	"github.com/WQTY-MASTER/SGMS/utils"
)

// TokenDecoder defines the interface for verifying bearer tokens
type TokenDecoder interface {
	// Decode verifies the token signature and expiry and returns its claims
	Decode(raw string) (*token.Claims, error)
}

// UserDirectory defines the account lookup the gate needs
type UserDirectory interface {
	GetByUsername(ctx context.Context, username string) (*models.User, error)
}

// AuthMiddleware authenticates every request outside the exempt paths
type AuthMiddleware struct {
	decoder TokenDecoder
	users   UserDirectory
	logger  *zap.Logger
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(decoder TokenDecoder, users UserDirectory, logger *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		decoder: decoder,
		users:   users,
		logger:  logger,
	}
}

// exemptPathPrefixes lists the request paths that never require a token:
// login, registration and health probes
var exemptPathPrefixes = []string{
	"/auth/login",
	"/auth/register",
	"/health",
}

// IsExempt reports whether a request skips authentication entirely.
// CORS preflights pass regardless of path.
func IsExempt(r *http.Request) bool {
	if r.Method == http.MethodOptions {
		return true
	}
	for _, prefix := range exemptPathPrefixes {
		if r.URL.Path == prefix || strings.HasPrefix(r.URL.Path, prefix+"/") {
			return true
		}
	}
	return false
}

// RequireAuth is a middleware that requires a valid token on every
// non-exempt request. On success the resolved principal is added to the
// request context; on any failure the request is answered with the 401
// envelope and the next handler is never invoked.
func (m *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if IsExempt(r) {
			next.ServeHTTP(w, r)
			return
		}

		ctx := r.Context()
		requestID := GetRequestIDFromContext(ctx)

		raw := r.Header.Get("Authorization")
		if raw == "" {
			m.logger.Warn("missing token",
				zap.String("request_id", requestID),
				zap.String("path", r.URL.Path))
			_ = utils.WriteUnauthorized(w)
			return
		}

		claims, err := m.decoder.Decode(raw)
		if err != nil {
			m.logger.Warn("token rejected",
				zap.String("request_id", requestID),
				zap.String("path", r.URL.Path),
				zap.Error(err))
			_ = utils.WriteUnauthorized(w)
			return
		}

		identity, err := claims.Identity()
		if err != nil {
			m.logger.Warn("token carries unknown role",
				zap.String("request_id", requestID),
				zap.Error(err))
			_ = utils.WriteUnauthorized(w)
			return
		}

		// The token is only a claim; the account store stays authoritative.
		user, err := m.users.GetByUsername(ctx, identity.Username)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				m.logger.Warn("token subject unknown",
					zap.String("request_id", requestID),
					zap.String("username", identity.Username))
			} else {
				m.logger.Error("failed to resolve token subject",
					zap.String("request_id", requestID),
					zap.Error(err))
			}
			_ = utils.WriteUnauthorized(w)
			return
		}

		if !user.IsEnabled() {
			m.logger.Warn("account disabled",
				zap.String("request_id", requestID),
				zap.String("username", user.Username))
			_ = utils.WriteUnauthorized(w)
			return
		}

		principal := &Principal{
			UserID:   user.ID,
			Username: user.Username,
			Role:     user.Role,
		}
		ctx = WithPrincipal(ctx, principal)

		m.logger.Debug("authentication successful",
			zap.String("request_id", requestID),
			zap.String("username", principal.Username),
			zap.String("role", principal.Role.String()))

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
