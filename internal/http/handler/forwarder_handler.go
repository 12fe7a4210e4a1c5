package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/logiscore/logiscore-backend/internal/http/response"
	"github.com/logiscore/logiscore-backend/internal/service"
)

type ForwarderHandler struct {
	forwarderSvc service.ForwarderServiceInterface
}

func NewForwarderHandler(forwarderSvc service.ForwarderServiceInterface) *ForwarderHandler {
	return &ForwarderHandler{forwarderSvc: forwarderSvc}
}

func (h *ForwarderHandler) List(w http.ResponseWriter, r *http.Request) {
	pageReq, err := parsePageRequest(r)
	if err != nil {
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", err.Error(), nil)
		return
	}
	search := strings.TrimSpace(r.URL.Query().Get("search"))
	page, err := h.forwarderSvc.List(r.Context(), pageReq, search)
	if err != nil {
		response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "internal error", nil)
		return
	}
	response.JSON(w, r, http.StatusOK, paginatedData(page))
}

func (h *ForwarderHandler) Get(w http.ResponseWriter, r *http.Request) {
	detail, err := h.forwarderSvc.Get(r.Context(), chi.URLParam(r, "forwarderID"))
	if err != nil {
		writeForwarderError(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusOK, detail)
}

func (h *ForwarderHandler) Branches(w http.ResponseWriter, r *http.Request) {
	branches, err := h.forwarderSvc.Branches(r.Context(), chi.URLParam(r, "forwarderID"))
	if err != nil {
		writeForwarderError(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusOK, branches)
}

func writeForwarderError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, service.ErrForwarderNotFound) {
		response.Error(w, r, http.StatusNotFound, "NOT_FOUND", "freight forwarder not found", nil)
		return
	}
	response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "internal error", nil)
}
