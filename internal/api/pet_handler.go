package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/phrazzld/flashquest/internal/api/shared"
	"github.com/phrazzld/flashquest/internal/service"
)

// PetHandler handles pet adoption, feeding and revival.
type PetHandler struct {
	pets   service.PetService
	logger *slog.Logger
}

// NewPetHandler creates a new PetHandler
func NewPetHandler(pets service.PetService, logger *slog.Logger) *PetHandler {
	if pets == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("pet service cannot be nil for PetHandler")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PetHandler{
		pets:   pets,
		logger: logger.With(slog.String("component", "pet_handler")),
	}
}

// ListPets handles GET /api/pets
func (h *PetHandler) ListPets(w http.ResponseWriter, r *http.Request) {
	views, err := h.pets.List(r.Context())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list pets")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, views)
}

// Purchase handles POST /api/pets/{id}/purchase
func (h *PetHandler) Purchase(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, "Failed to adopt pet", h.pets.Purchase)
}

// Feed handles POST /api/pets/{id}/feed
func (h *PetHandler) Feed(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, "Failed to feed pet", h.pets.Feed)
}

// Revive handles POST /api/pets/{id}/revive
func (h *PetHandler) Revive(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, "Failed to revive pet", h.pets.Revive)
}

func (h *PetHandler) run(
	w http.ResponseWriter,
	r *http.Request,
	fallback string,
	op func(ctx context.Context, petID string) (*service.PetResult, error),
) {
	result, err := op(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		HandleAPIError(w, r, err, fallback)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, result)
}
