package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Dosada05/league-system/models"
	"github.com/golang-jwt/jwt/v4"
)

var testSecret = []byte("test-secret")

func actorEcho(t *testing.T) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor, err := GetActorFromContext(r.Context())
		if err != nil {
			t.Errorf("GetActorFromContext: %v", err)
		}
		w.Header().Set("X-Actor", actor.UserID+"/"+string(actor.Role))
		w.WriteHeader(http.StatusNoContent)
	})
}

func TestAuthenticate(t *testing.T) {
	valid, err := IssueToken(testSecret, "u-1", models.RoleOrganizer, time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	expired, _ := IssueToken(testSecret, "u-1", models.RoleOrganizer, -time.Hour)
	foreign, _ := IssueToken([]byte("other"), "u-1", models.RoleOrganizer, time.Hour)

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"valid", "Bearer " + valid, http.StatusNoContent},
		{"missing", "", http.StatusUnauthorized},
		{"not bearer", "Basic abc", http.StatusUnauthorized},
		{"expired", "Bearer " + expired, http.StatusUnauthorized},
		{"wrong secret", "Bearer " + foreign, http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			Authenticate(testSecret)(actorEcho(t)).ServeHTTP(rec, req)
			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d", rec.Code, tt.status)
			}
			if tt.status == http.StatusNoContent && rec.Header().Get("X-Actor") != "u-1/organizer" {
				t.Errorf("actor = %q", rec.Header().Get("X-Actor"))
			}
		})
	}
}

func TestAuthorize(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	h := Authorize(models.RoleAdmin, models.RoleOrganizer)(next)

	tests := []struct {
		name   string
		claims jwt.MapClaims
		status int
	}{
		{"organizer", jwt.MapClaims{"user_id": "u", "role": "organizer"}, http.StatusOK},
		{"player", jwt.MapClaims{"user_id": "u", "role": "player"}, http.StatusForbidden},
		{"unknown role", jwt.MapClaims{"user_id": "u", "role": "root"}, http.StatusUnauthorized},
		{"no claims", nil, http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", nil)
			if tt.claims != nil {
				req = req.WithContext(WithClaims(req.Context(), tt.claims))
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			if rec.Code != tt.status {
				t.Errorf("status = %d, want %d", rec.Code, tt.status)
			}
		})
	}
}

func TestGetUserIDFromContext_NumericClaim(t *testing.T) {
	ctx := WithClaims(httptest.NewRequest(http.MethodGet, "/", nil).Context(), jwt.MapClaims{"user_id": float64(42)})
	id, err := GetUserIDFromContext(ctx)
	if err != nil || id != "42" {
		t.Errorf("id = %q, err = %v", id, err)
	}
	ctx = WithClaims(ctx, jwt.MapClaims{"user_id": 1.5})
	if _, err := GetUserIDFromContext(ctx); err == nil {
		t.Error("fractional id must be rejected")
	}
}
