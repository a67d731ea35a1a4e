package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/WQTY-MASTER/SGMS/models"
)

func TestAccessRuleMatches(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		path    string
		want    bool
	}{
		{"prefix matches subtree", "/teacher/**", "/teacher/scores", true},
		{"prefix matches bare root", "/teacher/**", "/teacher", true},
		{"prefix rejects sibling", "/teacher/**", "/teachers", false},
		{"deep subtree", "/score/teacher/**", "/score/teacher/segment/9", true},
		{"exact pattern", "/stat", "/stat", true},
		{"exact pattern rejects child", "/stat", "/stat/segments", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rule := AccessRule{Pattern: tt.pattern, Role: models.RoleTeacher}
			assert.Equal(t, tt.want, rule.Matches(tt.path))
		})
	}
}

func TestEnforceAccess(t *testing.T) {
	logger := zap.NewNop()

	runRequest := func(t *testing.T, role models.Role, path string) *httptest.ResponseRecorder {
		t.Helper()

		mw := NewAccessControlMiddleware(DefaultAccessRules(), logger)
		handler := mw.EnforceAccess(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))

		req := httptest.NewRequest(http.MethodGet, path, nil)
		principal := &Principal{UserID: 1, Username: "u", Role: role}
		req = req.WithContext(WithPrincipal(req.Context(), principal))
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)
		return w
	}

	t.Run("teacher allowed on teacher score paths", func(t *testing.T) {
		w := runRequest(t, models.RoleTeacher, "/score/teacher/list")
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("student denied on teacher score paths", func(t *testing.T) {
		w := runRequest(t, models.RoleStudent, "/score/teacher/list")
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("student allowed on student score paths", func(t *testing.T) {
		w := runRequest(t, models.RoleStudent, "/score/student/list")
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("teacher denied on student tree", func(t *testing.T) {
		w := runRequest(t, models.RoleTeacher, "/student/info")
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("teacher allowed on student roster", func(t *testing.T) {
		w := runRequest(t, models.RoleTeacher, "/students/options")
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("student denied on statistics", func(t *testing.T) {
		w := runRequest(t, models.RoleStudent, "/stat/segments")
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("unmatched path allows any authenticated role", func(t *testing.T) {
		w := runRequest(t, models.RoleStudent, "/profile")
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("missing principal returns 401", func(t *testing.T) {
		mw := NewAccessControlMiddleware(DefaultAccessRules(), logger)
		handler := mw.EnforceAccess(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("handler should not be called")
		}))

		req := httptest.NewRequest(http.MethodGet, "/score/teacher/list", nil)
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("first matching rule wins", func(t *testing.T) {
		// /score/teacher/** precedes /teacher/**, so a teacher passes and
		// a student is stopped by the first rule, not the later one.
		w := runRequest(t, models.RoleStudent, "/score/teacher/segment/9")
		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}
