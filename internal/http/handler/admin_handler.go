package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/logiscore/logiscore-backend/internal/domain"
	"github.com/logiscore/logiscore-backend/internal/http/response"
	"github.com/logiscore/logiscore-backend/internal/observability"
	"github.com/logiscore/logiscore-backend/internal/repository"
	"github.com/logiscore/logiscore-backend/internal/service"
)

const maxLogoUploadBytes = 5 * 1024 * 1024

type AdminHandler struct {
	adminSvc service.AdminServiceInterface
	storage  service.StorageService
}

func NewAdminHandler(adminSvc service.AdminServiceInterface, storage service.StorageService) *AdminHandler {
	return &AdminHandler{adminSvc: adminSvc, storage: storage}
}

func (h *AdminHandler) DashboardStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.adminSvc.Stats(r.Context())
	if err != nil {
		response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "internal error", nil)
		return
	}
	response.JSON(w, r, http.StatusOK, stats)
}

func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	pageReq, err := parsePageRequest(r)
	if err != nil {
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", err.Error(), nil)
		return
	}
	filter := repository.UserFilter{
		Search:   strings.TrimSpace(r.URL.Query().Get("search")),
		UserType: strings.TrimSpace(r.URL.Query().Get("user_type")),
	}
	page, err := h.adminSvc.ListUsers(r.Context(), pageReq, filter)
	if err != nil {
		response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "internal error", nil)
		return
	}
	response.JSON(w, r, http.StatusOK, paginatedData(page))
}

func (h *AdminHandler) UpdateSubscription(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Tier string `json:"tier"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid json body", nil)
		return
	}
	userID := chi.URLParam(r, "userID")
	user, err := h.adminSvc.UpdateSubscription(r.Context(), userID, body.Tier)
	if err != nil {
		writeAdminError(w, r, err)
		return
	}
	observability.Audit(r, "admin.subscription.updated", "user_id", userID, "tier", user.SubscriptionTier)
	response.JSON(w, r, http.StatusOK, user)
}

func (h *AdminHandler) ListReviews(w http.ResponseWriter, r *http.Request) {
	pageReq, err := parsePageRequest(r)
	if err != nil {
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", err.Error(), nil)
		return
	}
	status := strings.TrimSpace(r.URL.Query().Get("status"))
	page, err := h.adminSvc.ModerationQueue(r.Context(), status, pageReq)
	if err != nil {
		response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "internal error", nil)
		return
	}
	response.JSON(w, r, http.StatusOK, paginatedData(page))
}

func (h *AdminHandler) ApproveReview(w http.ResponseWriter, r *http.Request) {
	reviewID := chi.URLParam(r, "reviewID")
	if err := h.adminSvc.ApproveReview(r.Context(), reviewID); err != nil {
		writeAdminError(w, r, err)
		return
	}
	observability.Audit(r, "admin.review.approved", "review_id", reviewID)
	response.JSON(w, r, http.StatusOK, map[string]any{"message": "review approved"})
}

func (h *AdminHandler) RejectReview(w http.ResponseWriter, r *http.Request) {
	reviewID := chi.URLParam(r, "reviewID")
	if err := h.adminSvc.RejectReview(r.Context(), reviewID); err != nil {
		writeAdminError(w, r, err)
		return
	}
	observability.Audit(r, "admin.review.rejected", "review_id", reviewID)
	response.JSON(w, r, http.StatusOK, map[string]any{"message": "review rejected"})
}

func (h *AdminHandler) ListDisputes(w http.ResponseWriter, r *http.Request) {
	pageReq, err := parsePageRequest(r)
	if err != nil {
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", err.Error(), nil)
		return
	}
	status := strings.TrimSpace(r.URL.Query().Get("status"))
	page, err := h.adminSvc.ListDisputes(r.Context(), status, pageReq)
	if err != nil {
		response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "internal error", nil)
		return
	}
	response.JSON(w, r, http.StatusOK, paginatedData(page))
}

func (h *AdminHandler) ResolveDispute(w http.ResponseWriter, r *http.Request) {
	var body struct {
		AdminNotes string `json:"admin_notes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid json body", nil)
		return
	}
	disputeID := chi.URLParam(r, "disputeID")
	dispute, err := h.adminSvc.ResolveDispute(r.Context(), disputeID, body.AdminNotes)
	if err != nil {
		writeAdminError(w, r, err)
		return
	}
	observability.Audit(r, "admin.dispute.resolved", "dispute_id", disputeID)
	response.JSON(w, r, http.StatusOK, dispute)
}

func (h *AdminHandler) ListCompanies(w http.ResponseWriter, r *http.Request) {
	pageReq, err := parsePageRequest(r)
	if err != nil {
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", err.Error(), nil)
		return
	}
	search := strings.TrimSpace(r.URL.Query().Get("search"))
	companies, err := h.adminSvc.ListCompanies(r.Context(), pageReq, search)
	if err != nil {
		response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "internal error", nil)
		return
	}
	response.JSON(w, r, http.StatusOK, companies)
}

func (h *AdminHandler) CreateCompany(w http.ResponseWriter, r *http.Request) {
	var create service.CompanyCreate
	if err := json.NewDecoder(r.Body).Decode(&create); err != nil {
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid json body", nil)
		return
	}
	if strings.TrimSpace(create.Name) == "" {
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "company name is required", nil)
		return
	}
	company, err := h.adminSvc.CreateCompany(r.Context(), create)
	if err != nil {
		writeAdminError(w, r, err)
		return
	}
	observability.Audit(r, "admin.company.created", "company_id", company.ID, "name", company.Name)
	response.JSON(w, r, http.StatusCreated, company)
}

// UploadCompanyLogo stores the multipart "file" part in the object
// store, then records the object key on the forwarder.
func (h *AdminHandler) UploadCompanyLogo(w http.ResponseWriter, r *http.Request) {
	forwarderID := chi.URLParam(r, "forwarderID")
	if err := r.ParseMultipartForm(maxLogoUploadBytes); err != nil {
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid multipart form", nil)
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "missing file part", nil)
		return
	}
	defer func() { _ = file.Close() }()

	objectKey, err := h.storage.UploadLogo(r.Context(), forwarderID, file, header.Size)
	if err != nil {
		writeStorageError(w, r, err)
		return
	}
	company, err := h.adminSvc.SetCompanyLogo(r.Context(), forwarderID, objectKey)
	if err != nil {
		writeAdminError(w, r, err)
		return
	}
	url, err := h.storage.LogoURL(r.Context(), objectKey)
	if err != nil {
		// The upload stands; the caller can fetch a URL later.
		url = ""
	}
	observability.Audit(r, "admin.company.logo_uploaded", "company_id", forwarderID)
	response.JSON(w, r, http.StatusOK, map[string]any{
		"company":    company,
		"object_key": objectKey,
		"logo_url":   url,
	})
}

func (h *AdminHandler) ListCampaigns(w http.ResponseWriter, r *http.Request) {
	campaigns, err := h.adminSvc.ListCampaigns(r.Context())
	if err != nil {
		response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "internal error", nil)
		return
	}
	response.JSON(w, r, http.StatusOK, campaigns)
}

func (h *AdminHandler) CreateCampaign(w http.ResponseWriter, r *http.Request) {
	var campaign domain.AdCampaign
	if err := json.NewDecoder(r.Body).Decode(&campaign); err != nil {
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid json body", nil)
		return
	}
	if err := h.adminSvc.CreateCampaign(r.Context(), &campaign); err != nil {
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", err.Error(), nil)
		return
	}
	observability.Audit(r, "admin.campaign.created", "campaign_id", campaign.ID)
	response.JSON(w, r, http.StatusCreated, campaign)
}

func writeAdminError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrUserNotFound):
		response.Error(w, r, http.StatusNotFound, "NOT_FOUND", "user not found", nil)
	case errors.Is(err, service.ErrReviewNotFound):
		response.Error(w, r, http.StatusNotFound, "NOT_FOUND", "review not found", nil)
	case errors.Is(err, service.ErrDisputeNotFound):
		response.Error(w, r, http.StatusNotFound, "NOT_FOUND", "dispute not found", nil)
	case errors.Is(err, service.ErrForwarderNotFound):
		response.Error(w, r, http.StatusNotFound, "NOT_FOUND", "freight forwarder not found", nil)
	case errors.Is(err, service.ErrInvalidTier):
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", err.Error(), nil)
	case errors.Is(err, service.ErrDuplicateName):
		response.Error(w, r, http.StatusConflict, "DUPLICATE_NAME", err.Error(), nil)
	default:
		response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "internal error", nil)
	}
}

func writeStorageError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrFileTooBig):
		response.Error(w, r, http.StatusBadRequest, "FILE_TOO_BIG", err.Error(), nil)
	case errors.Is(err, service.ErrInvalidFileType):
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", err.Error(), nil)
	default:
		response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "logo upload failed", nil)
	}
}
