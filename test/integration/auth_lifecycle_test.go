package integration

import (
	"encoding/json"
	"net/http"
	"testing"
)

func TestSignupSigninAndMe(t *testing.T) {
	srv := newTestServer(t)

	token, userID := srv.signup(t, "lifecycle@example.com", "Str0ngPass!word")
	if token == "" || userID == "" {
		t.Fatal("signup returned empty token or user id")
	}

	rr := srv.do(t, http.MethodPost, "/api/auth/signup", "", map[string]string{
		"email":    "lifecycle@example.com",
		"password": "Str0ngPass!word",
	})
	if rr.Code != http.StatusConflict {
		t.Fatalf("duplicate signup status = %d, want 409", rr.Code)
	}

	rr = srv.do(t, http.MethodPost, "/api/auth/signin", "", map[string]string{
		"email":    "Lifecycle@Example.com",
		"password": "Str0ngPass!word",
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("signin status = %d: %s", rr.Code, rr.Body.String())
	}

	rr = srv.do(t, http.MethodGet, "/api/users/me", token, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("me status = %d: %s", rr.Code, rr.Body.String())
	}
	var env struct {
		Data struct {
			Email string `json:"email"`
		} `json:"data"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&env); err != nil {
		t.Fatal(err)
	}
	if env.Data.Email != "lifecycle@example.com" {
		t.Fatalf("me email = %q", env.Data.Email)
	}

	rr = srv.do(t, http.MethodGet, "/api/users/me", "", nil)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("me without token status = %d, want 401", rr.Code)
	}

	rr = srv.do(t, http.MethodGet, "/api/users/me", "not-a-jwt", nil)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("me with garbage token status = %d, want 401", rr.Code)
	}
}

func TestChangePasswordRoundTrip(t *testing.T) {
	srv := newTestServer(t)
	token, _ := srv.signup(t, "rotate@example.com", "OldPass!word1")

	rr := srv.do(t, http.MethodPost, "/api/auth/change-password", token, map[string]string{
		"current_password": "OldPass!word1",
		"new_password":     "NewPass!word2",
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("change password status = %d: %s", rr.Code, rr.Body.String())
	}

	rr = srv.do(t, http.MethodPost, "/api/auth/signin", "", map[string]string{
		"email":    "rotate@example.com",
		"password": "OldPass!word1",
	})
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("old password signin status = %d, want 401", rr.Code)
	}

	rr = srv.do(t, http.MethodPost, "/api/auth/signin", "", map[string]string{
		"email":    "rotate@example.com",
		"password": "NewPass!word2",
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("new password signin status = %d: %s", rr.Code, rr.Body.String())
	}
}
