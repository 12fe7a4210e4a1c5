package integration

import (
	"encoding/json"
	"net/http"
	"testing"
)

func TestReviewModerationLifecycle(t *testing.T) {
	srv := newTestServer(t)
	forwarderID := srv.seedForwarder(t, "Acme Logistics")

	reviewerToken, _ := srv.signup(t, "reviewer@example.com", "Rev1ewer!pass")
	adminToken, adminID := srv.signup(t, "admin@example.com", "Adm1n!password")
	srv.promoteAdmin(t, adminID)

	rr := srv.do(t, http.MethodPost, "/api/reviews", reviewerToken, map[string]any{
		"freight_forwarder_id": forwarderID,
		"overall_rating":       4.5,
		"review_text":          "Fast customs clearance, responsive branch staff.",
		"category_scores":      map[string]float64{"communication": 5, "documentation": 4},
	})
	if rr.Code != http.StatusCreated {
		t.Fatalf("submit status = %d: %s", rr.Code, rr.Body.String())
	}
	var created struct {
		Data struct {
			ID     string `json:"id"`
			Status string `json:"status"`
		} `json:"data"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&created); err != nil {
		t.Fatal(err)
	}
	if created.Data.Status != "pending" {
		t.Fatalf("new review status = %q, want pending", created.Data.Status)
	}

	// Pending reviews stay out of the public listing.
	rr = srv.do(t, http.MethodGet, "/api/reviews?freight_forwarder_id="+forwarderID, "", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("list status = %d", rr.Code)
	}
	var listing struct {
		Data struct {
			Items []json.RawMessage `json:"items"`
		} `json:"data"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&listing); err != nil {
		t.Fatal(err)
	}
	if len(listing.Data.Items) != 0 {
		t.Fatalf("expected no published reviews, got %d", len(listing.Data.Items))
	}

	rr = srv.do(t, http.MethodPut, "/api/admin/reviews/"+created.Data.ID+"/approve", adminToken, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("approve status = %d: %s", rr.Code, rr.Body.String())
	}

	rr = srv.do(t, http.MethodGet, "/api/reviews?freight_forwarder_id="+forwarderID, "", nil)
	if err := json.NewDecoder(rr.Body).Decode(&listing); err != nil {
		t.Fatal(err)
	}
	if len(listing.Data.Items) != 1 {
		t.Fatalf("expected one published review, got %d", len(listing.Data.Items))
	}

	// The forwarder detail now carries the aggregate.
	rr = srv.do(t, http.MethodGet, "/api/freight-forwarders/"+forwarderID, "", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("forwarder detail status = %d", rr.Code)
	}
	var detail struct {
		Data struct {
			AverageRating float64 `json:"average_rating"`
			ReviewCount   int64   `json:"review_count"`
		} `json:"data"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&detail); err != nil {
		t.Fatal(err)
	}
	if detail.Data.ReviewCount != 1 || detail.Data.AverageRating != 4.5 {
		t.Fatalf("aggregate = %+v", detail.Data)
	}
}

func TestDisputeLifecycle(t *testing.T) {
	srv := newTestServer(t)
	forwarderID := srv.seedForwarder(t, "Zenith Cargo")

	reviewerToken, _ := srv.signup(t, "shipper@example.com", "Sh1pper!pass")
	adminToken, adminID := srv.signup(t, "moderator@example.com", "M0derator!pass")
	srv.promoteAdmin(t, adminID)

	rr := srv.do(t, http.MethodPost, "/api/reviews", reviewerToken, map[string]any{
		"freight_forwarder_id": forwarderID,
		"overall_rating":       1.0,
		"review_text":          "Shipment sat in the warehouse for three weeks.",
	})
	if rr.Code != http.StatusCreated {
		t.Fatalf("submit status = %d: %s", rr.Code, rr.Body.String())
	}
	var created struct {
		Data struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&created); err != nil {
		t.Fatal(err)
	}

	rr = srv.do(t, http.MethodPost, "/api/reviews/"+created.Data.ID+"/dispute", reviewerToken, map[string]string{
		"reason":      "factual_error",
		"description": "The shipment was delivered in four days.",
	})
	if rr.Code != http.StatusCreated {
		t.Fatalf("dispute status = %d: %s", rr.Code, rr.Body.String())
	}
	var dispute struct {
		Data struct {
			ID     string `json:"id"`
			Status string `json:"status"`
		} `json:"data"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&dispute); err != nil {
		t.Fatal(err)
	}
	if dispute.Data.Status != "pending" {
		t.Fatalf("dispute status = %q, want pending", dispute.Data.Status)
	}

	rr = srv.do(t, http.MethodPut, "/api/admin/disputes/"+dispute.Data.ID+"/resolve", adminToken, map[string]string{
		"admin_notes": "Verified with the carrier, review stands.",
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("resolve status = %d: %s", rr.Code, rr.Body.String())
	}
	var resolved struct {
		Data struct {
			Status string `json:"status"`
		} `json:"data"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&resolved); err != nil {
		t.Fatal(err)
	}
	if resolved.Data.Status != "resolved" {
		t.Fatalf("resolved status = %q", resolved.Data.Status)
	}
}
