package api

import (
	"github.com/phrazzld/flashquest/internal/domain"
	"github.com/phrazzld/flashquest/internal/domain/catalog"
	"github.com/phrazzld/flashquest/internal/domain/quiz"
	"github.com/phrazzld/flashquest/internal/service"
)

// AmountRequest is the payload of the coin credit and debit endpoints.
// Amount is capped at one billion coins per request.
type AmountRequest struct {
	Amount int `json:"amount" validate:"gte=0,lte=1000000000"`
}

// BalanceResponse reports the coin balance.
type BalanceResponse struct {
	Balance int `json:"balance"`
}

// CatalogResponse lists every shop catalog.
type CatalogResponse struct {
	Avatars     []catalog.Item `json:"avatars"`
	Backgrounds []catalog.Item `json:"backgrounds"`
	Pets        []catalog.Item `json:"pets"`
	Games       []catalog.Item `json:"games"`
}

// CardRequest is the payload for creating or replacing a card.
type CardRequest struct {
	Question string `json:"question" validate:"required"`
	Answer   string `json:"answer"   validate:"required"`
	Image    string `json:"image,omitempty"`
}

func (c CardRequest) toInput() service.CardInput {
	return service.CardInput{Question: c.Question, Answer: c.Answer, Image: c.Image}
}

// CreateSetRequest is the payload of POST /api/sets.
type CreateSetRequest struct {
	Name  string        `json:"name"  validate:"required"`
	Cards []CardRequest `json:"cards" validate:"dive"`
}

// RenameSetRequest is the payload of PATCH /api/sets/{id}.
type RenameSetRequest struct {
	Name string `json:"name" validate:"required"`
}

// SetResponse is a flashcard set with its card count.
type SetResponse struct {
	domain.FlashcardSet
	CardCount int `json:"card_count"`
}

func setToResponse(set domain.FlashcardSet) SetResponse {
	if set.Cards == nil {
		set.Cards = []domain.Flashcard{}
	}
	return SetResponse{FlashcardSet: set, CardCount: len(set.Cards)}
}

// ImportResponse reports an imported set and the rows that were skipped.
type ImportResponse struct {
	Set     SetResponse `json:"set"`
	Skipped int         `json:"skipped"`
}

// StartQuizRequest is the payload of POST /api/quiz.
type StartQuizRequest struct {
	SetID string    `json:"set_id" validate:"required"`
	Mode  quiz.Mode `json:"mode"   validate:"required,oneof=flip type"`
}

// GradeRequest is the flip-mode self-assessment.
type GradeRequest struct {
	Correct *bool `json:"correct" validate:"required"`
}

// AnswerRequest is the type-mode answer. An empty answer is graded as wrong.
type AnswerRequest struct {
	Answer string `json:"answer"`
}
