package domain

import (
	"errors"
	"strings"
)

// DefaultImageMaxBytes caps the size of an inline card image.
const DefaultImageMaxBytes = 512 * 1024

const imageDataURIPrefix = "data:image/"

// Flashcard-specific validation errors
var (
	// ErrCardQuestionEmpty is returned when a card's question is blank.
	ErrCardQuestionEmpty = errors.New("card question cannot be empty")

	// ErrCardAnswerEmpty is returned when a card's answer is blank.
	ErrCardAnswerEmpty = errors.New("card answer cannot be empty")

	// ErrCardImageInvalid is returned when an image is not an image data URI.
	ErrCardImageInvalid = errors.New("card image must be an image data URI")

	// ErrCardImageTooLarge is returned when an image exceeds the size cap.
	ErrCardImageTooLarge = errors.New("card image exceeds size limit")
)

// Flashcard is a single question/answer pair. It only exists inside a FlashcardSet.
type Flashcard struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
	Image    string `json:"image,omitempty"`
}

// NewFlashcard trims the user text and validates the result.
func NewFlashcard(question, answer, image string, imageMaxBytes int) (Flashcard, error) {
	card := Flashcard{
		Question: strings.TrimSpace(question),
		Answer:   strings.TrimSpace(answer),
		Image:    strings.TrimSpace(image),
	}
	if err := card.Validate(imageMaxBytes); err != nil {
		return Flashcard{}, err
	}
	return card, nil
}

// Validate checks that question and answer are present and that the optional
// image is a data URI within imageMaxBytes. A non-positive cap uses the default.
func (c Flashcard) Validate(imageMaxBytes int) error {
	if strings.TrimSpace(c.Question) == "" {
		return NewValidationError("question", "cannot be empty", ErrCardQuestionEmpty)
	}
	if strings.TrimSpace(c.Answer) == "" {
		return NewValidationError("answer", "cannot be empty", ErrCardAnswerEmpty)
	}
	if c.Image == "" {
		return nil
	}
	if !strings.HasPrefix(c.Image, imageDataURIPrefix) {
		return NewValidationError("image", "must be an image data URI", ErrCardImageInvalid)
	}
	if imageMaxBytes <= 0 {
		imageMaxBytes = DefaultImageMaxBytes
	}
	if len(c.Image) > imageMaxBytes {
		return NewValidationError("image", "exceeds size limit", ErrCardImageTooLarge)
	}
	return nil
}
