package middleware

import (
	"net/http"
	"net/http/httptest"
	"sat_practice_backend/internal/model"
	"sat_practice_backend/internal/util"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

const secret = "test-secret-test-secret-test-secret"

func newRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/open", TryAuthMiddleware(secret), func(c *gin.Context) {
		c.String(http.StatusOK, util.UserID(c))
	})
	r.GET("/private", AuthMiddleware(secret), func(c *gin.Context) {
		c.String(http.StatusOK, util.UserID(c))
	})
	r.GET("/admin", AuthMiddleware(secret), RoleMiddleware(model.Admin), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return r
}

func do(r *gin.Engine, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddlewares(t *testing.T) {
	r := newRouter()
	student, _ := util.GenerateJWT("u1", model.Student, secret, time.Hour)
	admin, _ := util.GenerateJWT("a1", model.Admin, secret, time.Hour)
	forged, _ := util.GenerateJWT("u1", model.Admin, "another-secret", time.Hour)
	expired, _ := util.GenerateJWT("u1", model.Student, secret, -time.Minute)

	cases := []struct {
		path, token string
		status int
		body   string
	}{
		{"/open", "", http.StatusOK, ""},
		{"/open", forged, http.StatusOK, ""},
		{"/open", student, http.StatusOK, "u1"},
		{"/private", "", http.StatusUnauthorized, ""},
		{"/private", expired, http.StatusUnauthorized, ""},
		{"/private", student, http.StatusOK, "u1"},
		{"/admin", student, http.StatusForbidden, ""},
		{"/admin", forged, http.StatusUnauthorized, ""},
		{"/admin", admin, http.StatusNoContent, ""},
	}
	for _, tc := range cases {
		w := do(r, tc.path, tc.token)
		if w.Code != tc.status {
			t.Errorf("%s: status = %d, want %d", tc.path, w.Code, tc.status)
			continue
		}
		if tc.status == http.StatusOK && w.Body.String() != tc.body {
			t.Errorf("%s: body = %q, want %q", tc.path, w.Body.String(), tc.body)
		}
	}
}

func TestTokenQueryParameter(t *testing.T) {
	r := newRouter()
	token, _ := util.GenerateJWT("u9", model.Student, secret, time.Hour)
	w := do(r, "/private?token="+token, "")
	if w.Code != http.StatusOK || w.Body.String() != "u9" {
		t.Fatalf("query token: %d %q", w.Code, w.Body.String())
	}
}
