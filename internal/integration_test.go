package internal

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/surge-sentinel/platform/internal/auth"
	"github.com/surge-sentinel/platform/internal/dashboard"
	"github.com/surge-sentinel/platform/internal/hospital"
	"github.com/surge-sentinel/platform/internal/navigation"
	"github.com/surge-sentinel/platform/internal/session"
	"github.com/surge-sentinel/platform/internal/shared/config"
)

func testRouter() http.Handler {
	cfg := config.AuthConfig{JWTSecret: "integration-secret", TokenTTL: time.Hour}

	store := session.NewStore(cfg.TokenTTL)
	sessionHandler := session.NewHandler(store, cfg)
	dashboardHandler := dashboard.NewHandler()

	r := chi.NewRouter()
	r.Mount("/", sessionHandler.PublicRoutes())
	r.Group(func(r chi.Router) {
		r.Use(auth.Middleware(cfg))
		r.Mount("/session", sessionHandler.Routes())
		r.Mount("/dashboard", dashboardHandler.Routes())
	})
	return r
}

type sessionPayload struct {
	Account struct {
		Email string `json:"email"`
		Role  string `json:"role"`
	} `json:"account"`
	ActivePage string `json:"activePage"`
	Language   string `json:"language"`
	Navigation struct {
		Pages []string `json:"pages"`
	} `json:"navigation"`
	Token string `json:"token"`
}

func login(t *testing.T, srv http.Handler, role string) sessionPayload {
	t.Helper()

	body, _ := json.Marshal(map[string]string{"role": role})
	req := httptest.NewRequest(http.MethodPost, "/login", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("login as %s: expected 201, got %d: %s", role, rec.Code, rec.Body.String())
	}

	var payload sessionPayload
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("failed to decode login response: %v", err)
	}
	if payload.Token == "" {
		t.Fatal("login must return a token")
	}
	return payload
}

// TestFullSessionWorkflow walks the role lifecycle end to end: login,
// rehydrate, navigate, resolve views and logout.
func TestFullSessionWorkflow(t *testing.T) {
	srv := testRouter()

	// 1. Select the Hospital role
	payload := login(t, srv, "Hospital")
	if payload.Account.Email != "hospital@medflux.ai" {
		t.Errorf("unexpected account %q", payload.Account.Email)
	}
	if payload.ActivePage != navigation.PageDashboard {
		t.Errorf("login must land on the default page, got %q", payload.ActivePage)
	}
	token := payload.Token

	// 2. Rehydrate: a fresh GET with the token returns the same session
	req := httptest.NewRequest(http.MethodGet, "/session/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("rehydrate: expected 200, got %d", rec.Code)
	}

	// 3. Navigate to Reports
	body, _ := json.Marshal(map[string]string{"page": navigation.PageReports})
	req = httptest.NewRequest(http.MethodPost, "/session/navigate", bytes.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("navigate: expected 200, got %d", rec.Code)
	}

	var after sessionPayload
	if err := json.Unmarshal(rec.Body.Bytes(), &after); err != nil {
		t.Fatalf("failed to decode navigate response: %v", err)
	}
	if after.ActivePage != navigation.PageReports {
		t.Errorf("expected Reports, got %q", after.ActivePage)
	}

	// 4. Resolve the view for the new page
	req = httptest.NewRequest(http.MethodGet, "/dashboard/view?page="+url.QueryEscape(navigation.PageReports), nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("view: expected 200, got %d", rec.Code)
	}

	var view dashboard.View
	if err := json.Unmarshal(rec.Body.Bytes(), &view); err != nil {
		t.Fatalf("failed to decode view: %v", err)
	}
	if !view.Found {
		t.Error("Reports must resolve for the Hospital role")
	}

	// 5. A page outside the role resolves to the not-found view, not an
	// error status
	req = httptest.NewRequest(http.MethodGet, "/dashboard/view?page="+url.QueryEscape(navigation.PageManageHospitals), nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("out-of-range view: expected 200, got %d", rec.Code)
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &view); err != nil {
		t.Fatalf("failed to decode view: %v", err)
	}
	if view.Found {
		t.Error("Manage Hospitals must not resolve for the Hospital role")
	}

	// 6. Logout
	req = httptest.NewRequest(http.MethodDelete, "/session/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("logout: expected 204, got %d", rec.Code)
	}

	// 7. The token still validates, so the session rehydrates fresh at
	// the default page, same as a new login
	req = httptest.NewRequest(http.MethodGet, "/session/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("post-logout rehydrate: expected 200, got %d", rec.Code)
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &after); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if after.ActivePage != navigation.PageDashboard {
		t.Errorf("rehydrated session must start at the default page, got %q", after.ActivePage)
	}
}

func TestLoginRejectsUnknownRole(t *testing.T) {
	srv := testRouter()

	body, _ := json.Marshal(map[string]string{"role": "SuperUser"})
	req := httptest.NewRequest(http.MethodPost, "/login", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestSessionRoutesRequireToken(t *testing.T) {
	srv := testRouter()

	req := httptest.NewRequest(http.MethodGet, "/session/", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestEveryRoleNavigationRoundTrip(t *testing.T) {
	srv := testRouter()

	for _, role := range auth.AllRoles {
		t.Run(string(role), func(t *testing.T) {
			payload := login(t, srv, string(role))

			if payload.ActivePage != navigation.DefaultPage(role) {
				t.Errorf("expected default page %q, got %q",
					navigation.DefaultPage(role), payload.ActivePage)
			}
			if len(payload.Navigation.Pages) == 0 {
				t.Error("login response must carry the role's navigation")
			}
		})
	}
}

// TestStreamOutlivesRequestTimeout mirrors the server wiring: plain API
// routes run under a request deadline while the SSE stream is mounted
// outside it, so a subscriber stays connected past that deadline and still
// receives broadcasts.
func TestStreamOutlivesRequestTimeout(t *testing.T) {
	log := zap.NewNop()
	hospitals := hospital.NewService(nil, nil, nil, log)
	handler := hospital.NewHandler(hospitals)

	r := chi.NewRouter()
	r.Get("/hospitals/stream", handler.Stream)
	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(100 * time.Millisecond))
		r.Mount("/hospitals", handler.Routes())
	})

	srv := httptest.NewServer(r)
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/hospitals/stream", nil)
	if err != nil {
		t.Fatalf("failed to build request: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("stream request failed: %v", err)
	}
	defer resp.Body.Close()

	if ct := resp.Header.Get("Content-Type"); ct != "text/event-stream" {
		t.Fatalf("expected event stream, got %q", ct)
	}

	// Wait out the sibling deadline, then broadcast. A stream cut at the
	// deadline would EOF before any data line arrives.
	time.Sleep(250 * time.Millisecond)
	hospitals.Hub().BroadcastJSON(map[string]string{"name": "City General"})

	reader := bufio.NewReader(resp.Body)
	for {
		line, err := reader.ReadString('\n')
		if err != nil {
			t.Fatalf("stream closed before broadcast arrived: %v", err)
		}
		if strings.HasPrefix(line, "data:") {
			if !strings.Contains(line, "City General") {
				t.Fatalf("unexpected stream payload: %q", line)
			}
			return
		}
	}
}
