package api

import (
	"errors"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/phrazzld/flashquest/internal/api/shared"
	"github.com/phrazzld/flashquest/internal/platform/logger"
	"github.com/phrazzld/flashquest/internal/service"
)

// MaxImportBytes bounds an uploaded CSV or XLSX file.
const MaxImportBytes = 8 << 20

// SetHandler handles flashcard set and card requests
type SetHandler struct {
	collection service.CollectionService
	logger     *slog.Logger
}

// NewSetHandler creates a new SetHandler
func NewSetHandler(collection service.CollectionService, logger *slog.Logger) *SetHandler {
	if collection == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("collection service cannot be nil for SetHandler")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &SetHandler{
		collection: collection,
		logger:     logger.With(slog.String("component", "set_handler")),
	}
}

// ListSets handles GET /api/sets
func (h *SetHandler) ListSets(w http.ResponseWriter, r *http.Request) {
	sets, err := h.collection.ListSets(r.Context())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list sets")
		return
	}
	out := make([]SetResponse, 0, len(sets))
	for _, set := range sets {
		out = append(out, setToResponse(set))
	}
	shared.RespondWithJSON(w, r, http.StatusOK, out)
}

// CreateSet handles POST /api/sets
func (h *SetHandler) CreateSet(w http.ResponseWriter, r *http.Request) {
	var req CreateSetRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	cards := make([]service.CardInput, 0, len(req.Cards))
	for _, c := range req.Cards {
		cards = append(cards, c.toInput())
	}

	set, err := h.collection.CreateSet(r.Context(), req.Name, cards)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create set")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusCreated, setToResponse(*set))
}

// ImportSet handles POST /api/sets/import, a multipart upload with a "file"
// part and an optional "name" field. The name defaults to the file name
// without its extension.
func (h *SetHandler) ImportSet(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	r.Body = http.MaxBytesReader(w, r.Body, MaxImportBytes)
	if err := r.ParseMultipartForm(MaxImportBytes); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			HandleAPIError(w, r, err, "")
			return
		}
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Expected a multipart upload", err)
		return
	}
	defer func() {
		if err := r.MultipartForm.RemoveAll(); err != nil {
			log.Warn("failed to remove multipart temp files", slog.String("error", err.Error()))
		}
	}()

	file, header, err := r.FormFile("file")
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Missing file", err)
		return
	}
	defer func() { _ = file.Close() }()

	name := r.FormValue("name")
	if strings.TrimSpace(name) == "" {
		base := filepath.Base(header.Filename)
		name = strings.TrimSuffix(base, filepath.Ext(base))
	}

	set, skipped, err := h.collection.ImportSet(r.Context(), name, header.Filename, file)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to import set")
		return
	}
	log.Info("set imported",
		slog.String("set_id", set.ID),
		slog.Int("card_count", len(set.Cards)),
		slog.Int("skipped", skipped))
	shared.RespondWithJSON(w, r, http.StatusCreated, ImportResponse{Set: setToResponse(*set), Skipped: skipped})
}

// GetSet handles GET /api/sets/{id}
func (h *SetHandler) GetSet(w http.ResponseWriter, r *http.Request) {
	set, err := h.collection.GetSet(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get set")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, setToResponse(*set))
}

// RenameSet handles PATCH /api/sets/{id}
func (h *SetHandler) RenameSet(w http.ResponseWriter, r *http.Request) {
	var req RenameSetRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	set, err := h.collection.RenameSet(r.Context(), chi.URLParam(r, "id"), req.Name)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to rename set")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, setToResponse(*set))
}

// DeleteSet handles DELETE /api/sets/{id}. Deleting an unknown set succeeds.
func (h *SetHandler) DeleteSet(w http.ResponseWriter, r *http.Request) {
	if err := h.collection.DeleteSet(r.Context(), chi.URLParam(r, "id")); err != nil {
		HandleAPIError(w, r, err, "Failed to delete set")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AddCard handles POST /api/sets/{id}/cards
func (h *SetHandler) AddCard(w http.ResponseWriter, r *http.Request) {
	var req CardRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	set, err := h.collection.AddCard(r.Context(), chi.URLParam(r, "id"), req.toInput())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to add card")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusCreated, setToResponse(*set))
}

// UpdateCard handles PUT /api/sets/{id}/cards/{index}
func (h *SetHandler) UpdateCard(w http.ResponseWriter, r *http.Request) {
	index, err := getPathIndex(r, "index")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	var req CardRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	set, err := h.collection.UpdateCard(r.Context(), chi.URLParam(r, "id"), index, req.toInput())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update card")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, setToResponse(*set))
}

// DeleteCard handles DELETE /api/sets/{id}/cards/{index}
func (h *SetHandler) DeleteCard(w http.ResponseWriter, r *http.Request) {
	index, err := getPathIndex(r, "index")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	set, err := h.collection.DeleteCard(r.Context(), chi.URLParam(r, "id"), index)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to delete card")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, setToResponse(*set))
}
