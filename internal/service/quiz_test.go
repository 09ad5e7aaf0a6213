package service

import (
	"context"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/flashquest/internal/domain"
	"github.com/phrazzld/flashquest/internal/domain/quiz"
)

type quizFixture struct {
	env        *testEnv
	quiz       QuizService
	collection CollectionService
}

func newQuizFixture(t *testing.T, opts ...QuizOption) *quizFixture {
	t.Helper()
	env := newTestEnv(t)
	opts = append([]QuizOption{WithRandSource(func() *rand.Rand {
		return rand.New(rand.NewPCG(1, 2))
	})}, opts...)
	q, err := NewQuizService(env.store, env.clock, DefaultEconomy(), env.logger, opts...)
	require.NoError(t, err)
	c, err := NewCollectionService(env.store, env.clock, DefaultEconomy(), env.logger)
	require.NoError(t, err)
	return &quizFixture{env: env, quiz: q, collection: c}
}

func (f *quizFixture) createSet(t *testing.T, name string, cards ...CardInput) string {
	t.Helper()
	set, err := f.collection.CreateSet(context.Background(), name, cards)
	require.NoError(t, err)
	return set.ID
}

func TestQuiz_TypeModeScenario(t *testing.T) {
	f := newQuizFixture(t)
	ctx := context.Background()
	setID := f.createSet(t, "Capitals", CardInput{Question: "Capital of France?", Answer: "Paris"})

	view, err := f.quiz.Start(ctx, setID, quiz.ModeType)
	require.NoError(t, err)
	assert.Equal(t, 1, view.Total)
	assert.Equal(t, "Capital of France?", view.Question)
	assert.Empty(t, view.Answer, "answer is hidden until graded")

	res, err := f.quiz.Answer(ctx, view.ID, " paris ")
	require.NoError(t, err)
	assert.True(t, res.Outcome.Correct)
	assert.Equal(t, 10, res.Outcome.CoinsAwarded)
	assert.Equal(t, 10, res.Balance)
	assert.True(t, res.Session.Finished)
	require.NotNil(t, res.Session.Summary)
	assert.Equal(t, 100, res.Session.Summary.Percentage)

	_, err = f.quiz.Answer(ctx, view.ID, "Paris")
	assert.ErrorIs(t, err, quiz.ErrSessionOver)
	assert.Equal(t, 10, f.env.balance(t))
}

func TestQuiz_FlipModeFlow(t *testing.T) {
	f := newQuizFixture(t)
	ctx := context.Background()
	setID := f.createSet(t, "Spanish",
		CardInput{Question: "perro", Answer: "dog"},
		CardInput{Question: "gato", Answer: "cat"},
	)

	view, err := f.quiz.Start(ctx, setID, quiz.ModeFlip)
	require.NoError(t, err)

	_, err = f.quiz.Grade(ctx, view.ID, true)
	assert.ErrorIs(t, err, quiz.ErrNotRevealed)
	_, err = f.quiz.Answer(ctx, view.ID, "dog")
	assert.ErrorIs(t, err, quiz.ErrWrongMode)

	revealed, err := f.quiz.Reveal(ctx, view.ID)
	require.NoError(t, err)
	assert.True(t, revealed.Revealed)
	assert.NotEmpty(t, revealed.Answer)

	res, err := f.quiz.Grade(ctx, view.ID, true)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Balance)
	assert.False(t, res.Session.Finished)
	assert.Equal(t, 1, res.Session.Position)

	_, err = f.quiz.Reveal(ctx, view.ID)
	require.NoError(t, err)
	res, err = f.quiz.Grade(ctx, view.ID, false)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Balance, "wrong answers pay nothing")
	assert.True(t, res.Outcome.Finished)

	summary, err := f.quiz.End(ctx, view.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Score)
	assert.Equal(t, 2, summary.Total)
	assert.Equal(t, 50, summary.Percentage)
	assert.Equal(t, 1, summary.CoinsEarned)
	require.Len(t, summary.Missed, 1)

	_, err = f.quiz.Get(ctx, view.ID)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestQuiz_SnapshotIsolatedFromEdits(t *testing.T) {
	f := newQuizFixture(t)
	ctx := context.Background()
	setID := f.createSet(t, "Deck", CardInput{Question: "q", Answer: "a"})

	view, err := f.quiz.Start(ctx, setID, quiz.ModeType)
	require.NoError(t, err)

	_, err = f.collection.UpdateCard(ctx, setID, 0, CardInput{Question: "q", Answer: "changed"})
	require.NoError(t, err)

	res, err := f.quiz.Answer(ctx, view.ID, "a")
	require.NoError(t, err)
	assert.True(t, res.Outcome.Correct)
}

func TestQuiz_StartRejections(t *testing.T) {
	f := newQuizFixture(t)
	ctx := context.Background()
	emptyID := f.createSet(t, "Empty")
	fullID := f.createSet(t, "Full", CardInput{Question: "q", Answer: "a"})

	_, err := f.quiz.Start(ctx, emptyID, quiz.ModeFlip)
	assert.ErrorIs(t, err, quiz.ErrEmptySet)

	_, err = f.quiz.Start(ctx, "missing", quiz.ModeFlip)
	assert.ErrorIs(t, err, domain.ErrSetNotFound)

	_, err = f.quiz.Start(ctx, fullID, quiz.Mode("speed"))
	assert.ErrorIs(t, err, quiz.ErrInvalidMode)

	_, err = f.quiz.Get(ctx, uuid.New())
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestQuiz_IdleSessionsArePruned(t *testing.T) {
	f := newQuizFixture(t, WithSessionTTL(time.Hour))
	ctx := context.Background()
	setID := f.createSet(t, "Deck", CardInput{Question: "q", Answer: "a"})

	stale, err := f.quiz.Start(ctx, setID, quiz.ModeType)
	require.NoError(t, err)

	f.env.clock.Advance(2 * time.Hour)
	fresh, err := f.quiz.Start(ctx, setID, quiz.ModeType)
	require.NoError(t, err)

	_, err = f.quiz.Get(ctx, stale.ID)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	_, err = f.quiz.Get(ctx, fresh.ID)
	assert.NoError(t, err)
}

func TestQuiz_UnpaidGradeCanBeRetried(t *testing.T) {
	f := newQuizFixture(t)
	setID := f.createSet(t, "Capitals", CardInput{Question: "Capital of France?", Answer: "Paris"})
	view, err := f.quiz.Start(context.Background(), setID, quiz.ModeType)
	require.NoError(t, err)

	cancelled, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = f.quiz.Answer(cancelled, view.ID, "Paris")
	require.Error(t, err)

	got, err := f.quiz.Get(context.Background(), view.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Position)
	assert.False(t, got.Finished)

	res, err := f.quiz.Answer(context.Background(), view.ID, "Paris")
	require.NoError(t, err)
	assert.Equal(t, 10, res.Balance)
}
