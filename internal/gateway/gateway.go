// Package gateway exposes the inbound message endpoint. It is the
// single entry point for email submissions: it authenticates the
// caller, enforces the transport and sender policies, archives
// attachments, and hands the normalized message to the tag router.
package gateway

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/meridianworks/meridian/internal/config"
	"github.com/meridianworks/meridian/internal/infrastructure"
	"github.com/meridianworks/meridian/internal/mail"
	"github.com/meridianworks/meridian/internal/router"
	"github.com/meridianworks/meridian/pkg/middleware"
	"github.com/meridianworks/meridian/pkg/module"
	"github.com/meridianworks/meridian/pkg/routes"
	"github.com/meridianworks/meridian/pkg/storage"
)

// Dispatcher routes a normalized message to its tag handler.
type Dispatcher interface {
	Dispatch(ctx context.Context, msg *mail.Message) *router.Outcome
}

// Gateway accepts inbound message submissions and forwards accepted
// messages to the dispatcher.
type Gateway struct {
	cfg      config.InboundConfig
	store    storage.System
	dispatch Dispatcher
	logger   *slog.Logger
}

// New creates a Gateway with the given inbound configuration, blob
// store, and dispatcher.
func New(
	cfg config.InboundConfig,
	store storage.System,
	dispatch Dispatcher,
	logger *slog.Logger,
) *Gateway {
	return &Gateway{
		cfg:      cfg,
		store:    store,
		dispatch: dispatch,
		logger:   logger.With("system", "gateway"),
	}
}

// Handler returns the HTTP handler for the gateway endpoints.
func (g *Gateway) Handler() *Handler {
	return NewHandler(g, g.logger)
}

// NewModule creates the inbound module mounted at the configured base path.
func NewModule(
	cfg *config.Config,
	infra *infrastructure.Infrastructure,
	dispatch Dispatcher,
) *module.Module {
	logger := infra.Logger.With("module", "gateway")
	gw := New(cfg.Inbound, infra.Storage, dispatch, logger)

	mux := http.NewServeMux()
	routes.Register(mux, gw.Handler().Routes())

	m := module.New(cfg.Inbound.BasePath, mux)
	m.Use(middleware.Logger(logger))

	return m
}
