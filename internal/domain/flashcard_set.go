package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// ErrSetNameEmpty is returned when a set name is blank after trimming.
var ErrSetNameEmpty = errors.New("set name cannot be empty")

// setIDSuffixLength is the length of the random part of a set id.
const setIDSuffixLength = 8

// FlashcardSet is a named, ordered collection of flashcards.
type FlashcardSet struct {
	ID    string      `json:"id"`
	Name  string      `json:"name"`
	Cards []Flashcard `json:"cards"`
}

// NewSetID derives a unique set id from the creation time.
// The random suffix keeps ids unique when two sets are created in the same millisecond.
func NewSetID(now time.Time) (string, error) {
	suffix, err := gonanoid.New(setIDSuffixLength)
	if err != nil {
		return "", fmt.Errorf("failed to generate set id: %w", err)
	}
	return fmt.Sprintf("%d-%s", now.UnixMilli(), suffix), nil
}

// NormalizeSetName trims the name and rejects blank input.
func NormalizeSetName(name string) (string, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return "", NewValidationError("name", "cannot be empty", ErrSetNameEmpty)
	}
	return trimmed, nil
}

// SameName reports whether two set names collide (case-insensitive, trimmed).
func SameName(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

// Clone returns a deep copy so callers can never alias the stored cards.
func (s FlashcardSet) Clone() FlashcardSet {
	cards := make([]Flashcard, len(s.Cards))
	copy(cards, s.Cards)
	return FlashcardSet{ID: s.ID, Name: s.Name, Cards: cards}
}

func (s *FlashcardSet) checkIndex(index int) error {
	if index < 0 || index >= len(s.Cards) {
		return fmt.Errorf("%w: index %d, set has %d cards", ErrIndexOutOfRange, index, len(s.Cards))
	}
	return nil
}

// AddCard appends a card at the end of the set.
func (s *FlashcardSet) AddCard(card Flashcard) {
	s.Cards = append(s.Cards, card)
}

// UpdateCard replaces the card at index in place.
func (s *FlashcardSet) UpdateCard(index int, card Flashcard) error {
	if err := s.checkIndex(index); err != nil {
		return err
	}
	s.Cards[index] = card
	return nil
}

// DeleteCard removes the card at index, keeping the order of the others.
func (s *FlashcardSet) DeleteCard(index int) error {
	if err := s.checkIndex(index); err != nil {
		return err
	}
	s.Cards = append(s.Cards[:index], s.Cards[index+1:]...)
	return nil
}

// Collection is the persisted list of sets in creation order.
type Collection []FlashcardSet

// IndexOf returns the position of the set with id, or -1.
func (c Collection) IndexOf(id string) int {
	for i := range c {
		if c[i].ID == id {
			return i
		}
	}
	return -1
}

// NameTaken reports whether name collides with any set other than exceptID.
func (c Collection) NameTaken(name, exceptID string) bool {
	for i := range c {
		if c[i].ID != exceptID && SameName(c[i].Name, name) {
			return true
		}
	}
	return false
}
