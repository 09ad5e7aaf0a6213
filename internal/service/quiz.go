package service

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/phrazzld/flashquest/internal/domain"
	"github.com/phrazzld/flashquest/internal/domain/quiz"
	"github.com/phrazzld/flashquest/internal/platform/logger"
	"github.com/phrazzld/flashquest/internal/store"
)

// DefaultSessionTTL bounds how long an abandoned session stays in memory.
const DefaultSessionTTL = 12 * time.Hour

// SessionView is the client-facing state of a quiz session.
type SessionView struct {
	ID       uuid.UUID     `json:"id"`
	SetID    string        `json:"set_id"`
	SetName  string        `json:"set_name"`
	Mode     quiz.Mode     `json:"mode"`
	Position int           `json:"position"`
	Total    int           `json:"total"`
	Score    int           `json:"score"`
	Question string        `json:"question,omitempty"`
	Image    string        `json:"image,omitempty"`
	Answer   string        `json:"answer,omitempty"`
	Revealed bool          `json:"revealed"`
	Finished bool          `json:"finished"`
	Summary  *quiz.Summary `json:"summary,omitempty"`
}

// GradeResult is returned after each graded card.
type GradeResult struct {
	Outcome quiz.Outcome `json:"outcome"`
	Balance int          `json:"balance"`
	Session SessionView  `json:"session"`
}

// QuizService runs quiz sessions and pays rewards into the ledger.
type QuizService interface {
	// Start snapshots and shuffles a set. Empty sets are rejected.
	Start(ctx context.Context, setID string, mode quiz.Mode) (*SessionView, error)

	// Get returns the current state of a session.
	Get(ctx context.Context, id uuid.UUID) (*SessionView, error)

	// Reveal shows the current card's answer (flip mode).
	Reveal(ctx context.Context, id uuid.UUID) (*SessionView, error)

	// Grade records a self-assessment (flip mode).
	Grade(ctx context.Context, id uuid.UUID, correct bool) (*GradeResult, error)

	// Answer grades typed input (type mode).
	Answer(ctx context.Context, id uuid.UUID, input string) (*GradeResult, error)

	// End discards a session and returns its final summary.
	End(ctx context.Context, id uuid.UUID) (*quiz.Summary, error)
}

type quizEntry struct {
	session  *quiz.Session
	lastUsed time.Time
}

type quizServiceImpl struct {
	store   *store.Store
	clock   domain.Clock
	economy Economy
	newRand func() *rand.Rand
	ttl     time.Duration
	logger  *slog.Logger

	mu       sync.Mutex
	sessions map[uuid.UUID]*quizEntry
}

// QuizOption configures the quiz service.
type QuizOption func(*quizServiceImpl)

// WithRandSource makes shuffles deterministic; used by tests.
func WithRandSource(newRand func() *rand.Rand) QuizOption {
	return func(s *quizServiceImpl) {
		s.newRand = newRand
	}
}

// WithSessionTTL overrides DefaultSessionTTL.
func WithSessionTTL(ttl time.Duration) QuizOption {
	return func(s *quizServiceImpl) {
		s.ttl = ttl
	}
}

// NewQuizService creates a QuizService.
func NewQuizService(
	st *store.Store,
	clock domain.Clock,
	economy Economy,
	logger *slog.Logger,
	opts ...QuizOption,
) (QuizService, error) {
	if st == nil {
		return nil, domain.NewValidationError("store", "cannot be nil", domain.ErrValidation)
	}
	if clock == nil {
		clock = domain.SystemClock{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	s := &quizServiceImpl{
		store:    st,
		clock:    clock,
		economy:  economy,
		ttl:      DefaultSessionTTL,
		logger:   logger.With(slog.String("component", "quiz_service")),
		sessions: make(map[uuid.UUID]*quizEntry),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *quizServiceImpl) reward(mode quiz.Mode) int {
	if mode == quiz.ModeType {
		return s.economy.TypeReward
	}
	return s.economy.FlipReward
}

// Start implements QuizService.Start
func (s *quizServiceImpl) Start(ctx context.Context, setID string, mode quiz.Mode) (*SessionView, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var set domain.FlashcardSet
	err := s.store.View(ctx, func(tx *store.Tx) error {
		sets, err := readSets(tx)
		if err != nil {
			return err
		}
		i := sets.IndexOf(setID)
		if i < 0 {
			return domain.ErrSetNotFound
		}
		set = sets[i]
		return nil
	})
	if err != nil {
		return nil, wrap("quiz", "start", err)
	}

	now := s.clock.Now()
	var rnd *rand.Rand
	if s.newRand != nil {
		rnd = s.newRand()
	}
	session, err := quiz.NewSession(set, mode, s.reward(mode), rnd, now)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.pruneLocked(now)
	s.sessions[session.ID] = &quizEntry{session: session, lastUsed: now}
	view := viewOf(session)
	s.mu.Unlock()

	log.Info("quiz session started",
		slog.String("session_id", session.ID.String()),
		slog.String("set_id", setID),
		slog.String("mode", string(mode)),
		slog.Int("card_count", view.Total))
	return &view, nil
}

// pruneLocked drops sessions idle for longer than the TTL. Caller holds s.mu.
func (s *quizServiceImpl) pruneLocked(now time.Time) {
	for id, e := range s.sessions {
		if now.Sub(e.lastUsed) > s.ttl {
			delete(s.sessions, id)
		}
	}
}

// lookupLocked returns the session and marks it used. Caller holds s.mu.
func (s *quizServiceImpl) lookupLocked(id uuid.UUID) (*quiz.Session, error) {
	e, ok := s.sessions[id]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	e.lastUsed = s.clock.Now()
	return e.session, nil
}

// Get implements QuizService.Get
func (s *quizServiceImpl) Get(_ context.Context, id uuid.UUID) (*SessionView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, err := s.lookupLocked(id)
	if err != nil {
		return nil, err
	}
	view := viewOf(session)
	return &view, nil
}

// Reveal implements QuizService.Reveal
func (s *quizServiceImpl) Reveal(_ context.Context, id uuid.UUID) (*SessionView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, err := s.lookupLocked(id)
	if err != nil {
		return nil, err
	}
	if _, err := session.Reveal(); err != nil {
		return nil, err
	}
	view := viewOf(session)
	return &view, nil
}

// Grade implements QuizService.Grade
func (s *quizServiceImpl) Grade(ctx context.Context, id uuid.UUID, correct bool) (*GradeResult, error) {
	return s.score(ctx, id, "grade", func(session *quiz.Session) (quiz.Outcome, error) {
		return session.Grade(correct)
	})
}

// Answer implements QuizService.Answer
func (s *quizServiceImpl) Answer(ctx context.Context, id uuid.UUID, input string) (*GradeResult, error) {
	return s.score(ctx, id, "answer", func(session *quiz.Session) (quiz.Outcome, error) {
		return session.Answer(input)
	})
}

func (s *quizServiceImpl) score(
	ctx context.Context,
	id uuid.UUID,
	op string,
	fn func(*quiz.Session) (quiz.Outcome, error),
) (*GradeResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.lookupLocked(id)
	if err != nil {
		return nil, err
	}
	// Restored if the reward cannot be paid, so the card can be graded again
	saved := *session
	outcome, err := fn(session)
	if err != nil {
		return nil, err
	}

	result := &GradeResult{Outcome: outcome}
	err = s.store.Update(ctx, func(tx *store.Tx) error {
		var err error
		if outcome.CoinsAwarded > 0 {
			result.Balance, err = credit(tx, outcome.CoinsAwarded)
		} else {
			result.Balance, err = readBalance(tx)
		}
		return err
	})
	if err != nil {
		log.Error("failed to pay quiz reward",
			slog.String("session_id", id.String()),
			slog.Int("coins", outcome.CoinsAwarded),
			slog.String("error", err.Error()))
		*session = saved
		return nil, wrap("quiz", op, err)
	}

	result.Session = viewOf(session)
	if outcome.Finished {
		summary := session.Summary()
		log.Info("quiz session finished",
			slog.String("session_id", id.String()),
			slog.Int("score", summary.Score),
			slog.Int("total", summary.Total),
			slog.Int("coins_earned", summary.CoinsEarned))
	}
	return result, nil
}

// End implements QuizService.End
func (s *quizServiceImpl) End(ctx context.Context, id uuid.UUID) (*quiz.Summary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, err := s.lookupLocked(id)
	if err != nil {
		return nil, err
	}
	delete(s.sessions, id)
	summary := session.Summary()
	logger.FromContextOrDefault(ctx, s.logger).Debug("quiz session ended",
		slog.String("session_id", id.String()))
	return &summary, nil
}

func viewOf(session *quiz.Session) SessionView {
	pos, total := session.Position()
	view := SessionView{
		ID:       session.ID,
		SetID:    session.SetID,
		SetName:  session.SetName,
		Mode:     session.Mode,
		Position: pos,
		Total:    total,
		Score:    session.Score(),
		Revealed: session.Revealed(),
		Finished: session.Finished(),
	}
	if card, ok := session.Current(); ok {
		view.Question = card.Question
		view.Image = card.Image
		if session.Revealed() {
			view.Answer = card.Answer
		}
	}
	if view.Finished {
		summary := session.Summary()
		view.Summary = &summary
	}
	return view
}
