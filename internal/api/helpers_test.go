package api

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/flashquest/internal/domain"
	"github.com/phrazzld/flashquest/internal/domain/catalog"
	"github.com/phrazzld/flashquest/internal/platform/memory"
	"github.com/phrazzld/flashquest/internal/service"
	"github.com/phrazzld/flashquest/internal/store"
)

var t0 = time.Date(2024, time.March, 1, 9, 0, 0, 0, time.UTC)

type testServices struct {
	store      *store.Store
	clock      *domain.FixedClock
	logger     *slog.Logger
	ledger     service.LedgerService
	collection service.CollectionService
	avatars    service.UnlockService
	tickets    service.TicketService
	games      service.GameService
	pets       service.PetService
	quiz       service.QuizService
	dev        service.DevService
}

func newTestServices(t *testing.T) *testServices {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	st, err := store.NewStore(memory.NewKV(), nil, log)
	require.NoError(t, err)
	clock := &domain.FixedClock{T: t0}
	economy := service.DefaultEconomy()

	s := &testServices{store: st, clock: clock, logger: log}
	s.ledger, err = service.NewLedgerService(st, log)
	require.NoError(t, err)
	s.collection, err = service.NewCollectionService(st, clock, economy, log)
	require.NoError(t, err)
	s.avatars, err = service.NewUnlockService(catalog.Avatars, st, log)
	require.NoError(t, err)
	s.tickets, err = service.NewTicketService(catalog.Games, st, log)
	require.NoError(t, err)
	s.games, err = service.NewGameService(catalog.Games, st, clock, economy, log)
	require.NoError(t, err)
	s.pets, err = service.NewPetService(catalog.Pets, st, clock, economy, log)
	require.NoError(t, err)
	s.quiz, err = service.NewQuizService(st, clock, economy, log)
	require.NoError(t, err)
	s.dev, err = service.NewDevService(st, economy, log)
	require.NoError(t, err)
	return s
}

// route is one chi route registered for a test.
type route struct {
	method  string
	pattern string
	handler http.HandlerFunc
}

func newRouter(routes ...route) http.Handler {
	r := chi.NewRouter()
	for _, rt := range routes {
		r.Method(rt.method, rt.pattern, rt.handler)
	}
	return r
}

func doJSON(t *testing.T, h http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), "body: %s", w.Body.String())
	return v
}

type errorBody struct {
	Error string `json:"error"`
}
