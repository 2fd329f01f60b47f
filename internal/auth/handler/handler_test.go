package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/agilsa/GorbyJump/internal/auth"
	"github.com/agilsa/GorbyJump/internal/middleware"
	"github.com/agilsa/GorbyJump/internal/session"
	"github.com/agilsa/GorbyJump/internal/twitter"

	"github.com/gin-gonic/gin"
)

const frontendURL = "http://localhost:8080"

func newTestHandler(t *testing.T) (*gin.Engine, *session.MemoryStore) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := session.NewMemoryStore()
	oauth := twitter.NewOAuth("client-id", "consumer-key", "consumer-secret", "http://localhost:5000/auth/twitter/callback")
	h := NewHandler(oauth, store, frontendURL)

	requireAuth := middleware.GinRequireAuth(middleware.NewAuthMiddleware(store))

	router := gin.New()
	h.RegisterRoutes(router, requireAuth)
	return router, store
}

func seedSession(t *testing.T, store session.Store) string {
	t.Helper()
	sid, err := session.GenerateID()
	if err != nil {
		t.Fatalf("GenerateID: %v", err)
	}
	err = store.Create(context.Background(), session.Session{
		SessionID: sid,
		Identity: auth.Identity{
			ID:          "user-1",
			Username:    "player",
			DisplayName: "Player One",
			Token:       "tok",
			TokenSecret: "sec",
		},
		CreatedAt: time.Now(),
		ExpiresAt: time.Now().Add(time.Hour),
	})
	if err != nil {
		t.Fatalf("seed session: %v", err)
	}
	return sid
}

func TestAuthURLEndpoint(t *testing.T) {
	router, _ := newTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/auth/twitter/url", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}

	var resp struct {
		AuthURL string `json:"authUrl"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}

	for _, want := range []string{
		"client_id=client-id",
		"response_type=code",
		"tweet.read",
		"follows.read",
	} {
		if !strings.Contains(resp.AuthURL, want) {
			t.Errorf("auth url missing %q: %s", want, resp.AuthURL)
		}
	}
}

func TestCallbackUnparsableRedirectsWithoutIdentity(t *testing.T) {
	router, _ := newTestHandler(t)

	// No oauth_token/oauth_verifier at all.
	req := httptest.NewRequest(http.MethodGet, "/auth/twitter/callback", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusFound {
		t.Fatalf("status = %d, want 302", w.Code)
	}
	loc := w.Header().Get("Location")
	if loc != frontendURL {
		t.Errorf("location = %q, want bare frontend URL", loc)
	}
	if strings.Contains(loc, "twitter_auth") {
		t.Error("failed callback must not carry identity data")
	}
}

func TestProfileRequiresSession(t *testing.T) {
	router, _ := newTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/api/twitter/profile", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestProfileReturnsClaimsWithoutCredential(t *testing.T) {
	router, store := newTestHandler(t)
	sid := seedSession(t, store)

	req := httptest.NewRequest(http.MethodGet, "/api/twitter/profile", nil)
	req.AddCookie(&http.Cookie{Name: session.CookieName, Value: sid})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		ID            string `json:"id"`
		Username      string `json:"username"`
		DisplayName   string `json:"displayName"`
		Authenticated bool   `json:"authenticated"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.ID != "user-1" || resp.Username != "player" || !resp.Authenticated {
		t.Errorf("resp = %+v", resp)
	}

	body := w.Body.String()
	if strings.Contains(body, "tok") || strings.Contains(body, "tokenSecret") {
		t.Error("profile leaked the credential")
	}
}

func TestLogoutEndsSession(t *testing.T) {
	router, store := newTestHandler(t)
	sid := seedSession(t, store)

	req := httptest.NewRequest(http.MethodPost, "/api/twitter/logout", nil)
	req.AddCookie(&http.Cookie{Name: session.CookieName, Value: sid})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.Success {
		t.Errorf("resp = %+v", resp)
	}

	if sess, _ := store.Get(context.Background(), sid); sess != nil {
		t.Error("session survived logout")
	}
}

func TestExpiredSessionIsUnauthorized(t *testing.T) {
	router, store := newTestHandler(t)

	sid, _ := session.GenerateID()
	err := store.Create(context.Background(), session.Session{
		SessionID: sid,
		Identity:  auth.Identity{ID: "user-1", Username: "player"},
		CreatedAt: time.Now(),
		ExpiresAt: time.Now().Add(10 * time.Millisecond),
	})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	time.Sleep(20 * time.Millisecond)

	req := httptest.NewRequest(http.MethodGet, "/api/twitter/profile", nil)
	req.AddCookie(&http.Cookie{Name: session.CookieName, Value: sid})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}
