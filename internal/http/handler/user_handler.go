package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/logiscore/logiscore-backend/internal/http/middleware"
	"github.com/logiscore/logiscore-backend/internal/http/response"
	"github.com/logiscore/logiscore-backend/internal/observability"
	"github.com/logiscore/logiscore-backend/internal/security"
	"github.com/logiscore/logiscore-backend/internal/service"
)

type UserHandler struct {
	userSvc  service.UserServiceInterface
	oauthSvc service.OAuthServiceInterface
}

func NewUserHandler(userSvc service.UserServiceInterface, oauthSvc service.OAuthServiceInterface) *UserHandler {
	return &UserHandler{userSvc: userSvc, oauthSvc: oauthSvc}
}

func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.Error(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "missing auth context", nil)
		return
	}
	user, err := h.userSvc.GetByID(r.Context(), userID)
	if err != nil {
		writeUserError(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusOK, user)
}

func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.Error(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "missing auth context", nil)
		return
	}
	var update service.ProfileUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid json body", nil)
		return
	}
	user, err := h.userSvc.UpdateProfile(r.Context(), userID, update)
	if err != nil {
		writeUserError(w, r, err)
		return
	}
	observability.Audit(r, "user.profile.updated", "user_id", userID)
	response.JSON(w, r, http.StatusOK, user)
}

func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, err := h.userSvc.GetByID(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		writeUserError(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusOK, user)
}

// GitHubAuthorize hands the client the provider authorize URL with a
// fresh state value.
func (h *UserHandler) GitHubAuthorize(w http.ResponseWriter, r *http.Request) {
	state, err := security.NewRandomString(24)
	if err != nil {
		response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "failed to generate oauth state", nil)
		return
	}
	url, err := h.oauthSvc.AuthorizeURL(state)
	if err != nil {
		writeOAuthError(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusOK, map[string]any{"authorize_url": url, "state": state})
}

// GitHubAuth exchanges the provider code from the request body for a
// bearer token.
func (h *UserHandler) GitHubAuth(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Code string `json:"code"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid json body", nil)
		return
	}
	h.exchange(w, r, body.Code)
}

// GitHubCallback is the browser redirect target; the code arrives as a
// query parameter.
func (h *UserHandler) GitHubCallback(w http.ResponseWriter, r *http.Request) {
	h.exchange(w, r, r.URL.Query().Get("code"))
}

func (h *UserHandler) exchange(w http.ResponseWriter, r *http.Request, code string) {
	if code == "" {
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "missing oauth code", nil)
		return
	}
	result, err := h.oauthSvc.ExchangeCode(r.Context(), code)
	if err != nil {
		observability.Audit(r, "auth.github.failed")
		writeOAuthError(w, r, err)
		return
	}
	observability.Audit(r, "auth.github.success", "user_id", result.User.ID)
	response.JSON(w, r, http.StatusOK, result)
}

func writeUserError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, service.ErrUserNotFound) {
		response.Error(w, r, http.StatusNotFound, "NOT_FOUND", "user not found", nil)
		return
	}
	response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "internal error", nil)
}

func writeOAuthError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrOAuthNotConfigured):
		response.Error(w, r, http.StatusInternalServerError, "CONFIG", "github oauth not configured", nil)
	case errors.Is(err, service.ErrOAuthUpstream):
		response.Error(w, r, http.StatusBadGateway, "UPSTREAM", "github request failed", nil)
	default:
		response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "internal error", nil)
	}
}
