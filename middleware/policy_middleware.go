package middleware

import (
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/WQTY-MASTER/SGMS/models"
	"github.com/WQTY-MASTER/SGMS/utils"
)

// AccessRule binds one path pattern to the role it requires. Patterns
// ending in "/**" match the path prefix; anything else matches exactly.
type AccessRule struct {
	Pattern string
	Role    models.Role
}

// Matches reports whether the rule applies to the given request path
func (r AccessRule) Matches(path string) bool {
	if prefix, ok := strings.CutSuffix(r.Pattern, "/**"); ok {
		return path == prefix || strings.HasPrefix(path, prefix+"/")
	}
	return path == r.Pattern
}

// DefaultAccessRules returns the ordered role requirements for the API.
// The first matching rule wins, so the more specific score paths come
// before the bare /teacher and /student trees.
func DefaultAccessRules() []AccessRule {
	return []AccessRule{
		{Pattern: "/score/teacher/**", Role: models.RoleTeacher},
		{Pattern: "/score/student/**", Role: models.RoleStudent},
		{Pattern: "/teacher/**", Role: models.RoleTeacher},
		{Pattern: "/student/**", Role: models.RoleStudent},
		{Pattern: "/students/**", Role: models.RoleTeacher},
		{Pattern: "/stat/**", Role: models.RoleTeacher},
	}
}

// AccessControlMiddleware enforces role requirements per request path.
// It must run after AuthMiddleware so the principal is already resolved.
type AccessControlMiddleware struct {
	rules  []AccessRule
	logger *zap.Logger
}

// NewAccessControlMiddleware creates a new AccessControlMiddleware
func NewAccessControlMiddleware(rules []AccessRule, logger *zap.Logger) *AccessControlMiddleware {
	return &AccessControlMiddleware{
		rules:  rules,
		logger: logger,
	}
}

// EnforceAccess is a middleware that checks the principal's role against
// the first rule matching the request path. Paths no rule matches are
// allowed for any authenticated principal.
func (m *AccessControlMiddleware) EnforceAccess(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if IsExempt(r) {
			next.ServeHTTP(w, r)
			return
		}

		ctx := r.Context()
		requestID := GetRequestIDFromContext(ctx)

		principal := GetPrincipalFromContext(ctx)
		if principal == nil {
			m.logger.Error("principal not found in context",
				zap.String("request_id", requestID),
				zap.String("path", r.URL.Path))
			_ = utils.WriteUnauthorized(w)
			return
		}

		for _, rule := range m.rules {
			if !rule.Matches(r.URL.Path) {
				continue
			}
			if principal.Role != rule.Role {
				m.logger.Warn("access denied",
					zap.String("request_id", requestID),
					zap.String("path", r.URL.Path),
					zap.String("required_role", rule.Role.String()),
					zap.String("role", principal.Role.String()))
				_ = utils.WriteForbidden(w)
				return
			}
			break
		}

		next.ServeHTTP(w, r)
	})
}
