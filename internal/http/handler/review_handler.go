package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/logiscore/logiscore-backend/internal/http/middleware"
	"github.com/logiscore/logiscore-backend/internal/http/response"
	"github.com/logiscore/logiscore-backend/internal/observability"
	"github.com/logiscore/logiscore-backend/internal/service"
)

type ReviewHandler struct {
	reviewSvc service.ReviewServiceInterface
}

func NewReviewHandler(reviewSvc service.ReviewServiceInterface) *ReviewHandler {
	return &ReviewHandler{reviewSvc: reviewSvc}
}

// List returns published (approved) reviews, optionally filtered to
// one forwarder via ?freight_forwarder_id=.
func (h *ReviewHandler) List(w http.ResponseWriter, r *http.Request) {
	pageReq, err := parsePageRequest(r)
	if err != nil {
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", err.Error(), nil)
		return
	}
	forwarderID := strings.TrimSpace(r.URL.Query().Get("freight_forwarder_id"))
	page, err := h.reviewSvc.ListPublished(r.Context(), forwarderID, pageReq)
	if err != nil {
		response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "internal error", nil)
		return
	}
	response.JSON(w, r, http.StatusOK, paginatedData(page))
}

func (h *ReviewHandler) Mine(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.Error(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "missing auth context", nil)
		return
	}
	pageReq, err := parsePageRequest(r)
	if err != nil {
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", err.Error(), nil)
		return
	}
	page, err := h.reviewSvc.ListByUser(r.Context(), userID, pageReq)
	if err != nil {
		response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "internal error", nil)
		return
	}
	response.JSON(w, r, http.StatusOK, paginatedData(page))
}

func (h *ReviewHandler) Submit(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.Error(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "missing auth context", nil)
		return
	}
	var sub service.ReviewSubmission
	if err := json.NewDecoder(r.Body).Decode(&sub); err != nil {
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid json body", nil)
		return
	}
	review, err := h.reviewSvc.Submit(r.Context(), userID, sub)
	if err != nil {
		writeReviewError(w, r, err)
		return
	}
	observability.Audit(r, "review.submitted", "review_id", review.ID, "forwarder_id", review.FreightForwarderID)
	response.JSON(w, r, http.StatusCreated, review)
}

func (h *ReviewHandler) Get(w http.ResponseWriter, r *http.Request) {
	review, err := h.reviewSvc.Get(r.Context(), chi.URLParam(r, "reviewID"))
	if err != nil {
		writeReviewError(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusOK, review)
}

func (h *ReviewHandler) FileDispute(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.Error(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "missing auth context", nil)
		return
	}
	var sub service.DisputeSubmission
	if err := json.NewDecoder(r.Body).Decode(&sub); err != nil {
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid json body", nil)
		return
	}
	if strings.TrimSpace(sub.Reason) == "" {
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "reason is required", nil)
		return
	}
	dispute, err := h.reviewSvc.FileDispute(r.Context(), chi.URLParam(r, "reviewID"), userID, sub)
	if err != nil {
		writeReviewError(w, r, err)
		return
	}
	observability.Audit(r, "review.disputed", "review_id", dispute.ReviewID, "dispute_id", dispute.ID)
	response.JSON(w, r, http.StatusCreated, dispute)
}

func writeReviewError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrReviewNotFound):
		response.Error(w, r, http.StatusNotFound, "NOT_FOUND", "review not found", nil)
	case errors.Is(err, service.ErrForwarderNotFound):
		response.Error(w, r, http.StatusNotFound, "NOT_FOUND", "freight forwarder not found", nil)
	case errors.Is(err, service.ErrInvalidRating), errors.Is(err, service.ErrInvalidScore):
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", err.Error(), nil)
	default:
		response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "internal error", nil)
	}
}
