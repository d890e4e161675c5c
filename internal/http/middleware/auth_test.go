package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/careercoach-backend/internal/data/repos"
	"github.com/yungbote/careercoach-backend/internal/data/repos/testutil"
	"github.com/yungbote/careercoach-backend/internal/platform/ctxutil"
	"github.com/yungbote/careercoach-backend/internal/platform/sessionstore"
	"github.com/yungbote/careercoach-backend/internal/services"
)

func newAuthRouter(t *testing.T) (*gin.Engine, services.AuthService) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db := testutil.DB(t)
	log := testutil.Logger(t)
	auth := services.NewAuthService(db, log, repos.NewUserRepo(db, log), sessionstore.NewMemoryRevocations(), "mw-secret", time.Hour)
	am := NewAuthMiddleware(log, auth)

	r := gin.New()
	protected := r.Group("/api", am.RequireAuth())
	protected.GET("/me", func(c *gin.Context) {
		rd := ctxutil.GetRequestData(c.Request.Context())
		c.String(http.StatusOK, rd.Username)
	})
	protected.GET("/progress/chart.png", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	protected.POST("/logout", func(c *gin.Context) {
		if err := auth.Logout(c.Request.Context()); err != nil {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.Status(http.StatusNoContent)
	})
	protected.GET("/admin/users", am.RequireAdmin(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r, auth
}

func login(t *testing.T, auth services.AuthService, username string) string {
	t.Helper()
	ctx := context.Background()
	if _, err := auth.Register(ctx, services.RegisterInput{Username: username, Password: "long-password"}); err != nil {
		t.Fatalf("register: %v", err)
	}
	sess, err := auth.Authenticate(ctx, username, "long-password")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	return sess.AccessToken
}

func do(r *gin.Engine, method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestRequireAuth(t *testing.T) {
	r, auth := newAuthRouter(t)
	token := login(t, auth, "ada")

	if rec := do(r, http.MethodGet, "/api/me", ""); rec.Code != http.StatusUnauthorized {
		t.Fatalf("no token: status=%d", rec.Code)
	}
	if rec := do(r, http.MethodGet, "/api/me", "garbage"); rec.Code != http.StatusUnauthorized {
		t.Fatalf("bad token: status=%d", rec.Code)
	}
	rec := do(r, http.MethodGet, "/api/me", token)
	if rec.Code != http.StatusOK || rec.Body.String() != "ada" {
		t.Fatalf("status=%d body=%q", rec.Code, rec.Body.String())
	}

}

func TestQueryTokenOnlyForChart(t *testing.T) {
	r, auth := newAuthRouter(t)
	token := login(t, auth, "ada")

	if rec := do(r, http.MethodGet, "/api/progress/chart.png?token="+token, ""); rec.Code != http.StatusOK {
		t.Fatalf("chart with query token: status=%d", rec.Code)
	}
	if rec := do(r, http.MethodGet, "/api/me?token="+token, ""); rec.Code != http.StatusUnauthorized {
		t.Fatalf("query token accepted outside the chart: status=%d", rec.Code)
	}
	if rec := do(r, http.MethodPost, "/api/logout?token="+token, ""); rec.Code != http.StatusUnauthorized {
		t.Fatalf("query token accepted on POST: status=%d", rec.Code)
	}
}

func TestRequireAuthRejectsRevokedToken(t *testing.T) {
	r, auth := newAuthRouter(t)
	token := login(t, auth, "grace")

	if rec := do(r, http.MethodPost, "/api/logout", token); rec.Code != http.StatusNoContent {
		t.Fatalf("logout: status=%d", rec.Code)
	}
	if rec := do(r, http.MethodGet, "/api/me", token); rec.Code != http.StatusUnauthorized {
		t.Fatalf("revoked token accepted: status=%d", rec.Code)
	}
}

func TestRequireAdmin(t *testing.T) {
	r, auth := newAuthRouter(t)
	token := login(t, auth, "linus")

	if rec := do(r, http.MethodGet, "/api/admin/users", token); rec.Code != http.StatusForbidden {
		t.Fatalf("standard user: status=%d", rec.Code)
	}
}
