package api

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/phrazzld/flashquest/internal/api/shared"
	"github.com/phrazzld/flashquest/internal/domain"
	"github.com/phrazzld/flashquest/internal/events"
	"github.com/phrazzld/flashquest/internal/service"
)

// ChangesHandler reports which persisted keys changed so that open views can
// refresh themselves.
type ChangesHandler struct {
	tracker *events.VersionTracker
}

// NewChangesHandler creates a new ChangesHandler
func NewChangesHandler(tracker *events.VersionTracker) *ChangesHandler {
	if tracker == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("version tracker cannot be nil for ChangesHandler")
	}
	return &ChangesHandler{tracker: tracker}
}

// GetChanges handles GET /api/changes?since=N. Without since it returns every
// key that changed since start-up.
func (h *ChangesHandler) GetChanges(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("since")
	if raw == "" {
		shared.RespondWithJSON(w, r, http.StatusOK, h.tracker.Snapshot())
		return
	}
	since, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		HandleAPIError(w, r, domain.NewValidationError("since", "must be a non-negative integer", domain.ErrValidation), "")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, h.tracker.ChangedSince(since))
}

// DevHandler exposes the developer panel. It is routed only when dev tools are
// enabled in configuration.
type DevHandler struct {
	dev    service.DevService
	logger *slog.Logger
}

// NewDevHandler creates a new DevHandler
func NewDevHandler(dev service.DevService, logger *slog.Logger) *DevHandler {
	if dev == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("dev service cannot be nil for DevHandler")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &DevHandler{dev: dev, logger: logger.With(slog.String("component", "dev_handler"))}
}

// GrantCoins handles POST /api/dev/coins
func (h *DevHandler) GrantCoins(w http.ResponseWriter, r *http.Request) {
	balance, err := h.dev.GrantCoins(r.Context())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to grant coins")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, BalanceResponse{Balance: balance})
}

// Reset handles POST /api/dev/reset
func (h *DevHandler) Reset(w http.ResponseWriter, r *http.Request) {
	if err := h.dev.Reset(r.Context()); err != nil {
		HandleAPIError(w, r, err, "Failed to reset data")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
