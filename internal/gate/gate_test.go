package gate

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/debangshucode/client-management-system/internal/auth"
)

func TestAllowed(t *testing.T) {
	cases := []struct {
		role    string
		allowed []string
		want    bool
	}{
		{"admin", []string{"admin"}, true},
		{"subadmin", []string{"admin"}, false},
		{"subadmin", []string{"admin", "subadmin"}, true},
		{"user", []string{"admin", "subadmin"}, false},
		{"", []string{"admin"}, false},
	}
	for _, tc := range cases {
		if got := Allowed(tc.role, tc.allowed...); got != tc.want {
			t.Fatalf("Allowed(%q, %v) = %v, want %v", tc.role, tc.allowed, got, tc.want)
		}
	}
}

func TestRequireWithoutIdentity(t *testing.T) {
	called := false
	h := Require(func(w http.ResponseWriter, r *http.Request) { called = true }, "admin")

	rr := httptest.NewRecorder()
	h(rr, httptest.NewRequest(http.MethodGet, "/clients", nil))
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", rr.Code)
	}
	if called {
		t.Fatal("handler must not run without an identity")
	}
}

func TestRequireRoleMismatch(t *testing.T) {
	called := false
	h := Require(func(w http.ResponseWriter, r *http.Request) { called = true }, "admin")

	req := httptest.NewRequest(http.MethodGet, "/clients", nil)
	req = req.WithContext(auth.WithClaims(req.Context(), &auth.Claims{UserID: 1, Role: "user"}))
	rr := httptest.NewRecorder()
	h(rr, req)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", rr.Code)
	}
	if called {
		t.Fatal("handler must not run for a disallowed role")
	}
}

func TestRequireAllowsListedRole(t *testing.T) {
	svc, err := auth.NewService("0123456789abcdef0123456789abcdef", time.Hour)
	if err != nil {
		t.Fatalf("token service: %v", err)
	}
	tok, err := svc.Issue(3, "s@example.com", "subadmin")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	called := false
	inner := Require(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	}, "admin", "subadmin")
	h := svc.Middleware(inner)

	req := httptest.NewRequest(http.MethodGet, "/quotes/1", nil)
	req.AddCookie(&http.Cookie{Name: "token", Value: tok})
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rr.Code)
	}
	if !called {
		t.Fatal("handler should run for an allowed role")
	}
}
