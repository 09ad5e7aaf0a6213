package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/flashquest/internal/api/shared"
	"github.com/phrazzld/flashquest/internal/domain/catalog"
	"github.com/phrazzld/flashquest/internal/platform/logger"
	"github.com/phrazzld/flashquest/internal/service"
)

// EconomyHandler serves the coin balance and the static shop catalog.
type EconomyHandler struct {
	ledger service.LedgerService
	logger *slog.Logger
}

// NewEconomyHandler creates a new EconomyHandler
func NewEconomyHandler(ledger service.LedgerService, logger *slog.Logger) *EconomyHandler {
	if ledger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("ledger cannot be nil for EconomyHandler")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &EconomyHandler{
		ledger: ledger,
		logger: logger.With(slog.String("component", "economy_handler")),
	}
}

// GetBalance handles GET /api/coins
func (h *EconomyHandler) GetBalance(w http.ResponseWriter, r *http.Request) {
	balance, err := h.ledger.Balance(r.Context())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to read balance")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, BalanceResponse{Balance: balance})
}

// Credit handles POST /api/coins/credit
func (h *EconomyHandler) Credit(w http.ResponseWriter, r *http.Request) {
	var req AmountRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	balance, err := h.ledger.Credit(r.Context(), req.Amount)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to credit coins")
		return
	}
	logger.FromContextOrDefault(r.Context(), h.logger).Debug("coins credited via API",
		slog.Int("amount", req.Amount))
	shared.RespondWithJSON(w, r, http.StatusOK, BalanceResponse{Balance: balance})
}

// Debit handles POST /api/coins/debit
func (h *EconomyHandler) Debit(w http.ResponseWriter, r *http.Request) {
	var req AmountRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	balance, err := h.ledger.Debit(r.Context(), req.Amount)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to debit coins")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, BalanceResponse{Balance: balance})
}

// GetCatalog handles GET /api/catalog
func (h *EconomyHandler) GetCatalog(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithJSON(w, r, http.StatusOK, CatalogResponse{
		Avatars:     catalog.Avatars.Items(),
		Backgrounds: catalog.Backgrounds.Items(),
		Pets:        catalog.Pets.Items(),
		Games:       catalog.Games.Items(),
	})
}
