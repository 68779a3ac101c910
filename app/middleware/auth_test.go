package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	jwtutil "staffdesk/app/jwt"
)

func TestRequireAdmin(t *testing.T) {
	signer := &jwtutil.Signer{Secret: []byte("test-secret"), Issuer: "staffdesk", ExpMin: 5}
	mw := &Auth{Signer: signer}
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims := GetClaims(r.Context())
		if claims == nil || claims.Username != "alice" {
			t.Error("claims missing from context")
		}
		w.WriteHeader(http.StatusOK)
	})

	t.Run("no token", func(t *testing.T) {
		rec := httptest.NewRecorder()
		mw.RequireAdmin(next).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin/backups", nil))
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("status = %d", rec.Code)
		}
	})

	t.Run("non-admin role", func(t *testing.T) {
		token, err := signer.Sign(2, "bob", "user")
		if err != nil {
			t.Fatal(err)
		}
		req := httptest.NewRequest(http.MethodGet, "/admin/backups", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		mw.RequireAdmin(next).ServeHTTP(rec, req)
		if rec.Code != http.StatusForbidden {
			t.Errorf("status = %d", rec.Code)
		}
	})

	t.Run("admin", func(t *testing.T) {
		token, err := signer.Sign(1, "alice", "admin")
		if err != nil {
			t.Fatal(err)
		}
		req := httptest.NewRequest(http.MethodGet, "/admin/backups", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		mw.RequireAdmin(next).ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Errorf("status = %d", rec.Code)
		}
	})
}
