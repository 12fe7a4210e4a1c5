package handler

import (
	"net/http"

	"github.com/logiscore/logiscore-backend/internal/http/response"
	"github.com/logiscore/logiscore-backend/internal/service"
)

type SearchHandler struct {
	forwarderSvc service.ForwarderServiceInterface
}

func NewSearchHandler(forwarderSvc service.ForwarderServiceInterface) *SearchHandler {
	return &SearchHandler{forwarderSvc: forwarderSvc}
}

func (h *SearchHandler) Forwarders(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	results, err := h.forwarderSvc.Search(r.Context(), query, parseLimit(r, 20))
	if err != nil {
		response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "internal error", nil)
		return
	}
	response.JSON(w, r, http.StatusOK, map[string]any{"query": query, "results": results})
}

// Suggestions returns name completions for the search box.
func (h *SearchHandler) Suggestions(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	results, err := h.forwarderSvc.Suggest(r.Context(), query, parseLimit(r, 10))
	if err != nil {
		response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "internal error", nil)
		return
	}
	names := make([]string, 0, len(results))
	for _, f := range results {
		names = append(names, f.Name)
	}
	response.JSON(w, r, http.StatusOK, map[string]any{"query": query, "suggestions": names})
}
