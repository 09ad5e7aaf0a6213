// Package quiz implements the ephemeral study session engine: a shuffled
// snapshot of one flashcard set, graded card by card in either flip-reveal or
// type-answer mode. Sessions are never persisted.
package quiz

import (
	"errors"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/phrazzld/flashquest/internal/domain"
)

// Mode selects how answers are graded.
type Mode string

const (
	// ModeFlip reveals the answer and lets the user grade themselves.
	ModeFlip Mode = "flip"
	// ModeType grades a typed answer automatically.
	ModeType Mode = "type"
)

// Session errors
var (
	ErrEmptySet       = errors.New("cannot start a session on an empty set")
	ErrInvalidMode    = errors.New("invalid quiz mode")
	ErrWrongMode      = errors.New("operation not available in this quiz mode")
	ErrNotRevealed    = errors.New("card must be revealed before grading")
	ErrSessionOver    = errors.New("quiz session is finished")
	ErrNegativeReward = errors.New("reward cannot be negative")
)

// Valid reports whether m is a supported mode.
func (m Mode) Valid() bool {
	return m == ModeFlip || m == ModeType
}

// MissedCard is a card the user got wrong, kept for the end-of-session review.
type MissedCard struct {
	Question  string `json:"question"`
	Answer    string `json:"answer"`
	Submitted string `json:"submitted,omitempty"`
}

// Outcome is the result of grading one card.
type Outcome struct {
	Correct      bool   `json:"correct"`
	Expected     string `json:"expected"`
	CoinsAwarded int    `json:"coins_awarded"`
	Finished     bool   `json:"finished"`
}

// Summary is produced once the last card has been graded.
type Summary struct {
	Score       int          `json:"score"`
	Total       int          `json:"total"`
	Percentage  int          `json:"percentage"`
	CoinsEarned int          `json:"coins_earned"`
	Missed      []MissedCard `json:"missed"`
}

// Session is one study run over a value snapshot of a set.
type Session struct {
	ID        uuid.UUID
	SetID     string
	SetName   string
	Mode      Mode
	StartedAt time.Time

	cards    []domain.Flashcard
	index    int
	revealed bool
	score    int
	coins    int
	reward   int
	missed   []MissedCard
}

// NewSession snapshots set, shuffles the copy with rnd and returns a session
// that pays reward coins per correct answer. The stored set is never touched.
func NewSession(set domain.FlashcardSet, mode Mode, reward int, rnd *rand.Rand, now time.Time) (*Session, error) {
	if !mode.Valid() {
		return nil, domain.NewValidationError("mode", "must be flip or type", ErrInvalidMode)
	}
	if reward < 0 {
		return nil, domain.NewValidationError("reward", "cannot be negative", ErrNegativeReward)
	}
	snapshot := set.Clone()
	if len(snapshot.Cards) == 0 {
		return nil, domain.NewValidationError("set", "has no cards", ErrEmptySet)
	}
	if rnd == nil {
		rnd = rand.New(rand.NewPCG(uint64(now.UnixNano()), rand.Uint64()))
	}
	Shuffle(snapshot.Cards, rnd)

	return &Session{
		ID:        uuid.New(),
		SetID:     snapshot.ID,
		SetName:   snapshot.Name,
		Mode:      mode,
		StartedAt: now,
		cards:     snapshot.Cards,
		reward:    reward,
	}, nil
}

// Shuffle performs an in-place uniform Fisher-Yates shuffle.
func Shuffle(cards []domain.Flashcard, rnd *rand.Rand) {
	rnd.Shuffle(len(cards), func(i, j int) {
		cards[i], cards[j] = cards[j], cards[i]
	})
}

// AnswerMatches grades a typed answer: trimmed, case-insensitive, exact.
func AnswerMatches(expected, submitted string) bool {
	return strings.EqualFold(strings.TrimSpace(expected), strings.TrimSpace(submitted))
}

// Finished reports whether every card has been graded.
func (s *Session) Finished() bool {
	return s.index >= len(s.cards)
}

// Position returns the zero-based index of the current card and the deck size.
func (s *Session) Position() (int, int) {
	return s.index, len(s.cards)
}

// Revealed reports whether the current card's answer is showing.
func (s *Session) Revealed() bool {
	return s.revealed
}

// Score returns the running number of correct answers.
func (s *Session) Score() int {
	return s.score
}

// Current returns the card being asked. ok is false once the session is over.
func (s *Session) Current() (card domain.Flashcard, ok bool) {
	if s.Finished() {
		return domain.Flashcard{}, false
	}
	return s.cards[s.index], true
}

// Reveal flips the current card in flip mode and returns its answer.
func (s *Session) Reveal() (string, error) {
	if s.Mode != ModeFlip {
		return "", ErrWrongMode
	}
	card, ok := s.Current()
	if !ok {
		return "", ErrSessionOver
	}
	s.revealed = true
	return card.Answer, nil
}

// Grade records the user's self-assessment in flip mode.
func (s *Session) Grade(correct bool) (Outcome, error) {
	if s.Mode != ModeFlip {
		return Outcome{}, ErrWrongMode
	}
	if s.Finished() {
		return Outcome{}, ErrSessionOver
	}
	if !s.revealed {
		return Outcome{}, ErrNotRevealed
	}
	return s.record(correct, ""), nil
}

// Answer grades a typed answer in type mode.
func (s *Session) Answer(input string) (Outcome, error) {
	if s.Mode != ModeType {
		return Outcome{}, ErrWrongMode
	}
	card, ok := s.Current()
	if !ok {
		return Outcome{}, ErrSessionOver
	}
	return s.record(AnswerMatches(card.Answer, input), strings.TrimSpace(input)), nil
}

func (s *Session) record(correct bool, submitted string) Outcome {
	card := s.cards[s.index]
	out := Outcome{Correct: correct, Expected: card.Answer}
	if correct {
		s.score++
		s.coins += s.reward
		out.CoinsAwarded = s.reward
	} else {
		s.missed = append(s.missed, MissedCard{
			Question:  card.Question,
			Answer:    card.Answer,
			Submitted: submitted,
		})
	}
	s.index++
	s.revealed = false
	out.Finished = s.Finished()
	return out
}

// Summary reports the results so far. Percentage is rounded down.
func (s *Session) Summary() Summary {
	missed := make([]MissedCard, len(s.missed))
	copy(missed, s.missed)
	total := len(s.cards)
	pct := 0
	if total > 0 {
		pct = s.score * 100 / total
	}
	return Summary{
		Score:       s.score,
		Total:       total,
		Percentage:  pct,
		CoinsEarned: s.coins,
		Missed:      missed,
	}
}
