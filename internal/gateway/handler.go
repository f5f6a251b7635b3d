package gateway

import (
	"log/slog"
	"net/http"

	"github.com/meridianworks/meridian/pkg/handlers"
	"github.com/meridianworks/meridian/pkg/routes"
)

// Handler provides the inbound HTTP endpoints.
type Handler struct {
	gw     *Gateway
	logger *slog.Logger
}

// NewHandler creates a Handler for the given gateway.
func NewHandler(gw *Gateway, logger *slog.Logger) *Handler {
	return &Handler{
		gw:     gw,
		logger: logger.With("handler", "gateway"),
	}
}

// Routes returns the route group definition for the inbound endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "",
		Routes: []routes.Route{
			{Method: "POST", Pattern: "/messages", Handler: h.Submit},
			{Method: "GET", Pattern: "/health", Handler: h.Health},
		},
	}
}

// submitResponse is the payload returned for every accepted submission.
type submitResponse struct {
	Success  bool   `json:"success"`
	Message  string `json:"message"`
	Tag      string `json:"tag,omitempty"`
	EmailRef string `json:"emailRef"`
	Data     any    `json:"data,omitempty"`
}

// Submit handles POST /messages. Rejected submissions receive an error
// status; accepted submissions always receive 200 with the routing
// outcome, even when the handler reported a failure.
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	if !h.gw.authorized(r.Header.Get("Authorization")) {
		handlers.RespondError(w, h.logger, MapHTTPStatus(ErrUnauthorized), ErrUnauthorized)
		return
	}

	msg, err := h.gw.decode(r)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	if !msg.Auth.Passed() || !h.gw.senderAllowed(msg.From) {
		handlers.RespondError(w, h.logger, MapHTTPStatus(ErrSenderRejected), ErrSenderRejected)
		return
	}

	outcome := h.gw.accept(r.Context(), msg)

	handlers.RespondJSON(w, http.StatusOK, submitResponse{
		Success:  outcome.Success,
		Message:  outcome.Message,
		Tag:      outcome.Tag,
		EmailRef: msg.ID,
		Data:     outcome.Data,
	})
}

// Health handles GET /health.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	handlers.RespondJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"service": "meridian-gateway",
	})
}
