package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/phrazzld/flashquest/internal/domain"
	"github.com/phrazzld/flashquest/internal/domain/catalog"
	"github.com/phrazzld/flashquest/internal/platform/logger"
	"github.com/phrazzld/flashquest/internal/store"
)

// DefaultPlayTTL bounds how long an opened play can still be completed.
const DefaultPlayTTL = 2 * time.Hour

// Play is one redeemed minigame ticket awaiting completion.
type Play struct {
	ID        uuid.UUID `json:"id"`
	GameID    string    `json:"game_id"`
	StartedAt time.Time `json:"started_at"`
}

// CompletionResult reports the reward for a finished play.
type CompletionResult struct {
	Reward  int `json:"reward"`
	Balance int `json:"balance"`
}

// GameService redeems tickets for minigame plays and pays completion rewards.
// The game logic itself runs in the client.
type GameService interface {
	// Play consumes one ticket for gameID and opens a play.
	Play(ctx context.Context, gameID string) (*Play, error)

	// Complete credits the completion reward once per play.
	Complete(ctx context.Context, playID uuid.UUID) (*CompletionResult, error)
}

type gameServiceImpl struct {
	catalog *catalog.Catalog
	store   *store.Store
	clock   domain.Clock
	reward  int
	ttl     time.Duration
	logger  *slog.Logger

	mu    sync.Mutex
	plays map[uuid.UUID]Play
}

// NewGameService creates a GameService.
func NewGameService(
	games *catalog.Catalog,
	st *store.Store,
	clock domain.Clock,
	economy Economy,
	logger *slog.Logger,
) (GameService, error) {
	if games == nil {
		return nil, domain.NewValidationError("catalog", "cannot be nil", domain.ErrValidation)
	}
	if st == nil {
		return nil, domain.NewValidationError("store", "cannot be nil", domain.ErrValidation)
	}
	if clock == nil {
		clock = domain.SystemClock{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &gameServiceImpl{
		catalog: games,
		store:   st,
		clock:   clock,
		reward:  economy.GameReward,
		ttl:     DefaultPlayTTL,
		logger:  logger.With(slog.String("component", "game_service")),
		plays:   make(map[uuid.UUID]Play),
	}, nil
}

// Play implements GameService.Play
func (s *gameServiceImpl) Play(ctx context.Context, gameID string) (*Play, error) {
	if _, err := s.catalog.Lookup(gameID); err != nil {
		return nil, err
	}

	err := s.store.Update(ctx, func(tx *store.Tx) error {
		return consumeTicket(tx, gameID)
	})
	if err != nil {
		return nil, wrap("game", "play", err)
	}

	play := Play{ID: uuid.New(), GameID: gameID, StartedAt: s.clock.Now()}
	s.mu.Lock()
	s.pruneLocked(play.StartedAt)
	s.plays[play.ID] = play
	s.mu.Unlock()

	logger.FromContextOrDefault(ctx, s.logger).Info("game play started",
		slog.String("play_id", play.ID.String()),
		slog.String("game_id", gameID))
	return &play, nil
}

// Complete implements GameService.Complete
func (s *gameServiceImpl) Complete(ctx context.Context, playID uuid.UUID) (*CompletionResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	play, ok := s.plays[playID]
	if !ok || s.expired(play, s.clock.Now()) {
		delete(s.plays, playID)
		return nil, domain.ErrPlayNotFound
	}

	result := &CompletionResult{Reward: s.reward}
	err := s.store.Update(ctx, func(tx *store.Tx) error {
		var err error
		result.Balance, err = credit(tx, s.reward)
		return err
	})
	if err != nil {
		return nil, wrap("game", "complete", err)
	}
	delete(s.plays, playID)

	logger.FromContextOrDefault(ctx, s.logger).Info("game play completed",
		slog.String("play_id", playID.String()),
		slog.String("game_id", play.GameID),
		slog.Int("reward", s.reward))
	return result, nil
}

func (s *gameServiceImpl) expired(play Play, now time.Time) bool {
	return now.Sub(play.StartedAt) > s.ttl
}

// pruneLocked drops plays that were opened but never completed. Caller holds s.mu.
func (s *gameServiceImpl) pruneLocked(now time.Time) {
	for id, play := range s.plays {
		if s.expired(play, now) {
			delete(s.plays, id)
		}
	}
}
