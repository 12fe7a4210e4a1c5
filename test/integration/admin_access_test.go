package integration

import (
	"encoding/json"
	"net/http"
	"testing"
)

func TestAdminRoutesRejectNonAdmins(t *testing.T) {
	srv := newTestServer(t)
	token, _ := srv.signup(t, "plain@example.com", "Plain!password1")

	for _, target := range []string{
		"/api/admin/dashboard/stats",
		"/api/admin/users",
		"/api/admin/reviews",
		"/api/admin/disputes",
		"/api/admin/companies",
	} {
		rr := srv.do(t, http.MethodGet, target, token, nil)
		if rr.Code != http.StatusForbidden {
			t.Fatalf("%s status = %d, want 403", target, rr.Code)
		}
	}

	rr := srv.do(t, http.MethodGet, "/api/admin/dashboard/stats", "", nil)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("unauthenticated status = %d, want 401", rr.Code)
	}
}

func TestAdminCompanyManagement(t *testing.T) {
	srv := newTestServer(t)
	adminToken, adminID := srv.signup(t, "owner@example.com", "Own3r!password")
	srv.promoteAdmin(t, adminID)

	rr := srv.do(t, http.MethodPost, "/api/admin/companies", adminToken, map[string]string{
		"name":         "Harbor Line Freight",
		"website":      "https://harborline.example",
		"headquarters": "Rotterdam, Netherlands",
	})
	if rr.Code != http.StatusCreated {
		t.Fatalf("create status = %d: %s", rr.Code, rr.Body.String())
	}

	rr = srv.do(t, http.MethodPost, "/api/admin/companies", adminToken, map[string]string{
		"name": "harbor line freight",
	})
	if rr.Code != http.StatusConflict {
		t.Fatalf("duplicate create status = %d, want 409", rr.Code)
	}

	rr = srv.do(t, http.MethodGet, "/api/admin/companies?search=harbor", adminToken, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("list status = %d", rr.Code)
	}
	var env struct {
		Data []struct {
			Name   string `json:"name"`
			Status string `json:"status"`
		} `json:"data"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&env); err != nil {
		t.Fatal(err)
	}
	if len(env.Data) != 1 || env.Data[0].Name != "Harbor Line Freight" {
		t.Fatalf("companies = %+v", env.Data)
	}
	if env.Data[0].Status != "active" {
		t.Fatalf("status = %q, want active", env.Data[0].Status)
	}
}

func TestSearchEndpoints(t *testing.T) {
	srv := newTestServer(t)
	srv.seedForwarder(t, "Nordic Freight Partners")
	srv.seedForwarder(t, "Pacific Cargo Lines")

	rr := srv.do(t, http.MethodGet, "/api/search/freight-forwarders?q=nordic", "", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("search status = %d", rr.Code)
	}
	var results struct {
		Data struct {
			Results []struct {
				Name string `json:"name"`
			} `json:"results"`
		} `json:"data"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&results); err != nil {
		t.Fatal(err)
	}
	if len(results.Data.Results) != 1 || results.Data.Results[0].Name != "Nordic Freight Partners" {
		t.Fatalf("results = %+v", results.Data.Results)
	}

	rr = srv.do(t, http.MethodGet, "/api/search/suggestions?q=pa", "", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("suggestions status = %d", rr.Code)
	}
	var suggestions struct {
		Data struct {
			Suggestions []string `json:"suggestions"`
		} `json:"data"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&suggestions); err != nil {
		t.Fatal(err)
	}
	if len(suggestions.Data.Suggestions) != 1 || suggestions.Data.Suggestions[0] != "Pacific Cargo Lines" {
		t.Fatalf("suggestions = %+v", suggestions.Data.Suggestions)
	}
}
