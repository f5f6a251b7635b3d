package faillog

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/meridianworks/meridian/pkg/handlers"
	"github.com/meridianworks/meridian/pkg/pagination"
	"github.com/meridianworks/meridian/pkg/routes"
)

// Handler provides HTTP endpoints for inspecting and pruning the
// failure log.
type Handler struct {
	sys        System
	logger     *slog.Logger
	pagination pagination.Config
}

// NewHandler creates a Handler with the given system, logger, and pagination config.
func NewHandler(
	sys System,
	logger *slog.Logger,
	pagination pagination.Config,
) *Handler {
	return &Handler{
		sys:        sys,
		logger:     logger.With("handler", "faillog"),
		pagination: pagination,
	}
}

// Routes returns the route group definition for failure log endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/failures",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.List},
			{Method: "DELETE", Pattern: "", Handler: h.Prune},
		},
	}
}

// List returns failure entries newest first, with optional tag and
// since query parameter filters. limit is honored as an alias for
// page_size.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	values := r.URL.Query()

	page := pagination.PageRequestFromQuery(values, h.pagination)
	if values.Get("page_size") == "" {
		if limit, err := strconv.Atoi(values.Get("limit")); err == nil && limit > 0 {
			page.PageSize = limit
			page.Normalize(h.pagination)
		}
	}

	filters, err := FiltersFromQuery(values)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	result, err := h.sys.List(r.Context(), page, filters)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// Prune removes entries older than the olderThan query parameter,
// an RFC 3339 timestamp or a bare date.
func (h *Handler) Prune(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("olderThan")
	if raw == "" {
		handlers.RespondError(w, h.logger, http.StatusBadRequest,
			errors.New("olderThan query parameter is required"))
		return
	}

	olderThan, err := parseTimeParam("olderThan", raw)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	removed, err := h.sys.Prune(r.Context(), olderThan)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, map[string]int{"removed": removed})
}
