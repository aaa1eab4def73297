package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/tillpoint-api/internal/domain/entity"
	"github.com/sangkips/tillpoint-api/internal/infrastructure/memory"
	"github.com/sangkips/tillpoint-api/internal/infrastructure/session"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// withUser stands in for AuthMiddleware
func withUser(id uuid.UUID, roles, permissions []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user_id", id)
		c.Set("user_roles", roles)
		c.Set("user_permissions", permissions)
		c.Next()
	}
}

func serve(r *gin.Engine, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, nil)
	r.ServeHTTP(w, req)
	return w
}

func TestRequireFreshSession(t *testing.T) {
	ctx := context.Background()
	sessions := session.NewMemoryStore()
	userID := uuid.New()

	r := gin.New()
	r.Use(withUser(userID, nil, nil), RequireFreshSession(sessions))
	r.GET("/cart", func(c *gin.Context) { c.Status(http.StatusOK) })

	if w := serve(r, http.MethodGet, "/cart"); w.Code != http.StatusOK {
		t.Fatalf("fresh session status = %d, want 200", w.Code)
	}

	if err := sessions.SetForceReauth(ctx, userID); err != nil {
		t.Fatal(err)
	}
	w := serve(r, http.MethodGet, "/cart")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("forced session status = %d, want 401", w.Code)
	}
	var body struct {
		Success bool   `json:"success"`
		Reason  string `json:"reason"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body.Success || body.Reason != "reauth_required" {
		t.Errorf("body = %+v, want reauth_required", body)
	}

	if err := sessions.ClearForceReauth(ctx, userID); err != nil {
		t.Fatal(err)
	}
	if w := serve(r, http.MethodGet, "/cart"); w.Code != http.StatusOK {
		t.Errorf("after re-auth status = %d, want 200", w.Code)
	}
}

func TestSelectedTill(t *testing.T) {
	sessions := session.NewMemoryStore()
	userID, tillID := uuid.New(), uuid.New()

	var got any
	r := gin.New()
	r.Use(withUser(userID, nil, nil), SelectedTill(sessions))
	r.GET("/", func(c *gin.Context) {
		got, _ = c.Get("till_id")
		c.Status(http.StatusOK)
	})

	serve(r, http.MethodGet, "/")
	if got != nil {
		t.Fatalf("till_id = %v before selection", got)
	}

	if err := sessions.SetSelectedTill(context.Background(), userID, tillID); err != nil {
		t.Fatal(err)
	}
	serve(r, http.MethodGet, "/")
	if got != tillID {
		t.Errorf("till_id = %v, want %s", got, tillID)
	}
}

func TestRequirePermission(t *testing.T) {
	tests := []struct {
		name        string
		roles       []string
		permissions []string
		want        int
	}{
		{name: "granted", permissions: []string{entity.PermissionCloseTill}, want: http.StatusOK},
		{name: "missing", permissions: []string{entity.PermissionProcessSales}, want: http.StatusForbidden},
		{name: "admin bypass", roles: []string{entity.RoleAdmin}, want: http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.Use(withUser(uuid.New(), tt.roles, tt.permissions), RequirePermission(entity.PermissionCloseTill))
			r.POST("/tills/close", func(c *gin.Context) { c.Status(http.StatusOK) })

			if w := serve(r, http.MethodPost, "/tills/close"); w.Code != tt.want {
				t.Errorf("status = %d, want %d", w.Code, tt.want)
			}
		})
	}
}

func TestRateLimiterPerUser(t *testing.T) {
	rl := NewRateLimiter(RateLimiterConfig{RequestsPerSecond: 0.001, BurstSize: 2})
	alice, bob := uuid.New(), uuid.New()

	current := alice
	r := gin.New()
	r.Use(func(c *gin.Context) { c.Set("user_id", current); c.Next() }, rl.Middleware())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	for i := 0; i < 2; i++ {
		if w := serve(r, http.MethodGet, "/"); w.Code != http.StatusOK {
			t.Fatalf("request %d status = %d", i, w.Code)
		}
	}
	if w := serve(r, http.MethodGet, "/"); w.Code != http.StatusTooManyRequests {
		t.Errorf("third request status = %d, want 429", w.Code)
	}

	current = bob
	if w := serve(r, http.MethodGet, "/"); w.Code != http.StatusOK {
		t.Errorf("other user status = %d, want 200", w.Code)
	}
}

func TestIdempotencyScopedPerRoute(t *testing.T) {
	repo := memory.NewStore().Repositories().Idempotency
	owner := uuid.New()

	calls := map[string]int{}
	handler := func(c *gin.Context) {
		calls[c.FullPath()]++
		c.JSON(http.StatusCreated, gin.H{"route": c.FullPath(), "n": calls[c.FullPath()]})
	}
	r := gin.New()
	r.Use(withUser(owner, nil, nil), Idempotency(IdempotencyConfig{Repo: repo}))
	r.POST("/checkout", handler)
	r.POST("/tills/drops", handler)

	post := func(path, body string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
		req.Header.Set(IdempotencyKeyHeader, "k-1")
		r.ServeHTTP(w, req)
		return w
	}

	first := post("/checkout", `{"amount":"5.00"}`)
	replay := post("/checkout", `{"amount":"5.00"}`)
	if replay.Header().Get("X-Idempotency-Replayed") != "true" || replay.Body.String() != first.Body.String() {
		t.Errorf("replay = %q %s, want stored %s", replay.Header().Get("X-Idempotency-Replayed"), replay.Body.String(), first.Body.String())
	}
	if calls["/checkout"] != 1 {
		t.Errorf("checkout handler ran %d times, want 1", calls["/checkout"])
	}

	drop := post("/tills/drops", `{"amount":"5.00"}`)
	if drop.Header().Get("X-Idempotency-Replayed") != "" || calls["/tills/drops"] != 1 {
		t.Errorf("same key on another route was replayed: %s", drop.Body.String())
	}

	if w := post("/checkout", `{"amount":"9.00"}`); w.Code != http.StatusUnprocessableEntity {
		t.Errorf("reused key with new body status = %d, want 422", w.Code)
	}

	n, err := repo.PurgeExpired(context.Background(), time.Now().Add(IdempotencyKeyTTL+time.Minute))
	if err != nil || n != 2 {
		t.Fatalf("PurgeExpired() = %d, %v; want 2", n, err)
	}
	post("/checkout", `{"amount":"5.00"}`)
	if calls["/checkout"] != 2 {
		t.Errorf("checkout handler ran %d times after purge, want 2", calls["/checkout"])
	}
}
