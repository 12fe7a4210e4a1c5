package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/logiscore/logiscore-backend/internal/domain"
	"github.com/logiscore/logiscore-backend/internal/http/middleware"
	"github.com/logiscore/logiscore-backend/internal/repository"
	"github.com/logiscore/logiscore-backend/internal/service"
)

type stubReviewService struct {
	submitFn  func(userID string, sub service.ReviewSubmission) (*domain.Review, error)
	listFn    func(forwarderID string, req repository.PageRequest) (repository.PageResult[domain.Review], error)
	byUserFn  func(userID string, req repository.PageRequest) (repository.PageResult[domain.Review], error)
	getFn     func(id string) (*domain.Review, error)
	disputeFn func(reviewID, reporterID string, sub service.DisputeSubmission) (*domain.Dispute, error)
}

func (s *stubReviewService) Submit(_ context.Context, userID string, sub service.ReviewSubmission) (*domain.Review, error) {
	return s.submitFn(userID, sub)
}

func (s *stubReviewService) ListPublished(_ context.Context, forwarderID string, req repository.PageRequest) (repository.PageResult[domain.Review], error) {
	return s.listFn(forwarderID, req)
}

func (s *stubReviewService) ListByUser(_ context.Context, userID string, req repository.PageRequest) (repository.PageResult[domain.Review], error) {
	return s.byUserFn(userID, req)
}

func (s *stubReviewService) Get(_ context.Context, id string) (*domain.Review, error) {
	return s.getFn(id)
}

func (s *stubReviewService) FileDispute(_ context.Context, reviewID, reporterID string, sub service.DisputeSubmission) (*domain.Dispute, error) {
	return s.disputeFn(reviewID, reporterID, sub)
}

func authedRequest(method, target string, body []byte, userID string) *http.Request {
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	ctx := context.WithValue(req.Context(), middleware.UserIDContextKey, userID)
	return req.WithContext(ctx)
}

func TestReviewHandlerSubmit(t *testing.T) {
	t.Run("requires auth", func(t *testing.T) {
		h := NewReviewHandler(&stubReviewService{})
		req := httptest.NewRequest(http.MethodPost, "/api/reviews", bytes.NewReader([]byte("{}")))
		rr := httptest.NewRecorder()
		h.Submit(rr, req)
		if rr.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want 401", rr.Code)
		}
	})

	t.Run("created", func(t *testing.T) {
		h := NewReviewHandler(&stubReviewService{
			submitFn: func(userID string, sub service.ReviewSubmission) (*domain.Review, error) {
				if userID != "u1" {
					t.Fatalf("userID = %q", userID)
				}
				return &domain.Review{ID: "r1", FreightForwarderID: sub.ForwarderID, Status: domain.ReviewStatusPending}, nil
			},
		})
		body, _ := json.Marshal(map[string]any{"freight_forwarder_id": "f1", "overall_rating": 4.5})
		rr := httptest.NewRecorder()
		h.Submit(rr, authedRequest(http.MethodPost, "/api/reviews", body, "u1"))
		if rr.Code != http.StatusCreated {
			t.Fatalf("status = %d, want 201", rr.Code)
		}
	})

	t.Run("invalid rating", func(t *testing.T) {
		h := NewReviewHandler(&stubReviewService{
			submitFn: func(string, service.ReviewSubmission) (*domain.Review, error) {
				return nil, service.ErrInvalidRating
			},
		})
		body, _ := json.Marshal(map[string]any{"freight_forwarder_id": "f1", "overall_rating": 9})
		rr := httptest.NewRecorder()
		h.Submit(rr, authedRequest(http.MethodPost, "/api/reviews", body, "u1"))
		if rr.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", rr.Code)
		}
	})
}

func TestReviewHandlerGet(t *testing.T) {
	h := NewReviewHandler(&stubReviewService{
		getFn: func(id string) (*domain.Review, error) {
			if id == "r1" {
				return &domain.Review{ID: "r1"}, nil
			}
			return nil, service.ErrReviewNotFound
		},
	})

	router := chi.NewRouter()
	router.Get("/api/reviews/{reviewID}", h.Get)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/reviews/r1", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/reviews/missing", nil))
	if rr.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rr.Code)
	}
}

func TestReviewHandlerDispute(t *testing.T) {
	h := NewReviewHandler(&stubReviewService{
		disputeFn: func(reviewID, reporterID string, sub service.DisputeSubmission) (*domain.Dispute, error) {
			return &domain.Dispute{ID: "d1", ReviewID: reviewID, Status: domain.DisputeStatusPending}, nil
		},
	})
	router := chi.NewRouter()
	router.Post("/api/reviews/{reviewID}/dispute", h.FileDispute)

	t.Run("reason required", func(t *testing.T) {
		body, _ := json.Marshal(map[string]string{"description": "no reason given"})
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, authedRequest(http.MethodPost, "/api/reviews/r1/dispute", body, "u1"))
		if rr.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", rr.Code)
		}
	})

	t.Run("created", func(t *testing.T) {
		body, _ := json.Marshal(map[string]string{"reason": "factual error"})
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, authedRequest(http.MethodPost, "/api/reviews/r1/dispute", body, "u1"))
		if rr.Code != http.StatusCreated {
			t.Fatalf("status = %d, want 201", rr.Code)
		}
	})
}

func TestReviewHandlerListPagination(t *testing.T) {
	h := NewReviewHandler(&stubReviewService{
		listFn: func(forwarderID string, req repository.PageRequest) (repository.PageResult[domain.Review], error) {
			return repository.PageResult[domain.Review]{Page: req.Page, PageSize: req.PageSize, Total: 0, TotalPages: 0}, nil
		},
	})

	rr := httptest.NewRecorder()
	h.List(rr, httptest.NewRequest(http.MethodGet, "/api/reviews?page=0", nil))
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("page=0 must fail, got %d", rr.Code)
	}

	rr = httptest.NewRecorder()
	h.List(rr, httptest.NewRequest(http.MethodGet, "/api/reviews?page=2&page_size=5", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	var env struct {
		Data struct {
			Items      []any `json:"items"`
			Pagination struct {
				Page     int `json:"page"`
				PageSize int `json:"page_size"`
			} `json:"pagination"`
		} `json:"data"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&env); err != nil {
		t.Fatal(err)
	}
	if env.Data.Items == nil {
		t.Fatal("items must encode as an empty array, not null")
	}
	if env.Data.Pagination.Page != 2 || env.Data.Pagination.PageSize != 5 {
		t.Fatalf("pagination echo = %+v", env.Data.Pagination)
	}
}
