package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/phrazzld/flashquest/internal/domain"
	"github.com/phrazzld/flashquest/internal/importer"
	"github.com/phrazzld/flashquest/internal/platform/logger"
	"github.com/phrazzld/flashquest/internal/store"
)

// CardInput is the user-supplied content of a card before trimming and validation.
type CardInput struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
	Image    string `json:"image,omitempty"`
}

// CollectionService manages flashcard sets and their cards.
type CollectionService interface {
	// ListSets returns every set in creation order.
	ListSets(ctx context.Context) (domain.Collection, error)

	// GetSet returns one set or domain.ErrSetNotFound.
	GetSet(ctx context.Context, id string) (*domain.FlashcardSet, error)

	// CreateSet validates name and cards and appends a new set.
	// A name equal to an existing one under case-insensitive comparison fails
	// with domain.ErrDuplicateName.
	CreateSet(ctx context.Context, name string, cards []CardInput) (*domain.FlashcardSet, error)

	// RenameSet renames a set under the same duplicate-name rule as CreateSet.
	RenameSet(ctx context.Context, id, name string) (*domain.FlashcardSet, error)

	// DeleteSet removes a set and its cards. Unknown ids are ignored.
	DeleteSet(ctx context.Context, id string) error

	// AddCard appends a card to a set.
	AddCard(ctx context.Context, setID string, card CardInput) (*domain.FlashcardSet, error)

	// UpdateCard replaces the card at index.
	UpdateCard(ctx context.Context, setID string, index int, card CardInput) (*domain.FlashcardSet, error)

	// DeleteCard removes the card at index.
	DeleteCard(ctx context.Context, setID string, index int) (*domain.FlashcardSet, error)

	// ImportSet creates a set from a CSV or XLSX upload.
	ImportSet(ctx context.Context, name, filename string, r io.Reader) (*domain.FlashcardSet, int, error)
}

type collectionServiceImpl struct {
	store         *store.Store
	clock         domain.Clock
	imageMaxBytes int
	logger        *slog.Logger
}

// NewCollectionService creates a CollectionService.
func NewCollectionService(
	st *store.Store,
	clock domain.Clock,
	economy Economy,
	logger *slog.Logger,
) (CollectionService, error) {
	if st == nil {
		return nil, domain.NewValidationError("store", "cannot be nil", domain.ErrValidation)
	}
	if clock == nil {
		clock = domain.SystemClock{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &collectionServiceImpl{
		store:         st,
		clock:         clock,
		imageMaxBytes: economy.ImageMaxBytes,
		logger:        logger.With(slog.String("component", "collection_service")),
	}, nil
}

func (s *collectionServiceImpl) newCard(in CardInput) (domain.Flashcard, error) {
	return domain.NewFlashcard(in.Question, in.Answer, in.Image, s.imageMaxBytes)
}

func (s *collectionServiceImpl) newCards(in []CardInput) ([]domain.Flashcard, error) {
	cards := make([]domain.Flashcard, 0, len(in))
	for i, c := range in {
		card, err := s.newCard(c)
		if err != nil {
			var ve *domain.ValidationError
			if errors.As(err, &ve) {
				return nil, domain.NewValidationError(
					fmt.Sprintf("cards[%d].%s", i, ve.Field), ve.Message, ve.Err)
			}
			return nil, err
		}
		cards = append(cards, card)
	}
	return cards, nil
}

// ListSets implements CollectionService.ListSets
func (s *collectionServiceImpl) ListSets(ctx context.Context) (domain.Collection, error) {
	var sets domain.Collection
	err := s.store.View(ctx, func(tx *store.Tx) error {
		var err error
		sets, err = readSets(tx)
		return err
	})
	if err != nil {
		return nil, wrap("collection", "list sets", err)
	}
	if sets == nil {
		sets = domain.Collection{}
	}
	return sets, nil
}

// GetSet implements CollectionService.GetSet
func (s *collectionServiceImpl) GetSet(ctx context.Context, id string) (*domain.FlashcardSet, error) {
	sets, err := s.ListSets(ctx)
	if err != nil {
		return nil, err
	}
	i := sets.IndexOf(id)
	if i < 0 {
		return nil, domain.ErrSetNotFound
	}
	set := sets[i].Clone()
	return &set, nil
}

// CreateSet implements CollectionService.CreateSet
func (s *collectionServiceImpl) CreateSet(
	ctx context.Context,
	name string,
	cards []CardInput,
) (*domain.FlashcardSet, error) {
	name, err := domain.NormalizeSetName(name)
	if err != nil {
		return nil, err
	}
	validated, err := s.newCards(cards)
	if err != nil {
		return nil, err
	}
	return s.create(ctx, name, validated)
}

func (s *collectionServiceImpl) create(
	ctx context.Context,
	name string,
	cards []domain.Flashcard,
) (*domain.FlashcardSet, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	id, err := domain.NewSetID(s.clock.Now())
	if err != nil {
		return nil, NewServiceError("collection", "create set", "failed to generate id", err)
	}
	set := domain.FlashcardSet{ID: id, Name: name, Cards: cards}

	err = s.store.Update(ctx, func(tx *store.Tx) error {
		sets, err := readSets(tx)
		if err != nil {
			return err
		}
		if sets.NameTaken(name, "") {
			return domain.ErrDuplicateName
		}
		return tx.SetJSON(store.KeySets, append(sets, set))
	})
	if err != nil {
		return nil, wrap("collection", "create set", err)
	}

	log.Info("flashcard set created",
		slog.String("set_id", set.ID),
		slog.Int("card_count", len(set.Cards)))
	return &set, nil
}

// RenameSet implements CollectionService.RenameSet
func (s *collectionServiceImpl) RenameSet(ctx context.Context, id, name string) (*domain.FlashcardSet, error) {
	name, err := domain.NormalizeSetName(name)
	if err != nil {
		return nil, err
	}
	return s.mutateSet(ctx, "rename set", id, func(sets domain.Collection, set *domain.FlashcardSet) error {
		if sets.NameTaken(name, id) {
			return domain.ErrDuplicateName
		}
		set.Name = name
		return nil
	})
}

// DeleteSet implements CollectionService.DeleteSet
func (s *collectionServiceImpl) DeleteSet(ctx context.Context, id string) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	deleted := false
	err := s.store.Update(ctx, func(tx *store.Tx) error {
		sets, err := readSets(tx)
		if err != nil {
			return err
		}
		i := sets.IndexOf(id)
		if i < 0 {
			deleted = false
			return nil
		}
		deleted = true
		sets = append(sets[:i], sets[i+1:]...)
		return tx.SetJSON(store.KeySets, sets)
	})
	if err != nil {
		return wrap("collection", "delete set", err)
	}

	if deleted {
		log.Info("flashcard set deleted", slog.String("set_id", id))
	} else {
		log.Debug("delete of unknown set ignored", slog.String("set_id", id))
	}
	return nil
}

// AddCard implements CollectionService.AddCard
func (s *collectionServiceImpl) AddCard(
	ctx context.Context,
	setID string,
	in CardInput,
) (*domain.FlashcardSet, error) {
	card, err := s.newCard(in)
	if err != nil {
		return nil, err
	}
	return s.mutateSet(ctx, "add card", setID, func(_ domain.Collection, set *domain.FlashcardSet) error {
		set.AddCard(card)
		return nil
	})
}

// UpdateCard implements CollectionService.UpdateCard
func (s *collectionServiceImpl) UpdateCard(
	ctx context.Context,
	setID string,
	index int,
	in CardInput,
) (*domain.FlashcardSet, error) {
	card, err := s.newCard(in)
	if err != nil {
		return nil, err
	}
	return s.mutateSet(ctx, "update card", setID, func(_ domain.Collection, set *domain.FlashcardSet) error {
		return set.UpdateCard(index, card)
	})
}

// DeleteCard implements CollectionService.DeleteCard
func (s *collectionServiceImpl) DeleteCard(
	ctx context.Context,
	setID string,
	index int,
) (*domain.FlashcardSet, error) {
	return s.mutateSet(ctx, "delete card", setID, func(_ domain.Collection, set *domain.FlashcardSet) error {
		return set.DeleteCard(index)
	})
}

// ImportSet implements CollectionService.ImportSet
// It returns the created set and the number of source rows that were skipped.
func (s *collectionServiceImpl) ImportSet(
	ctx context.Context,
	name, filename string,
	r io.Reader,
) (*domain.FlashcardSet, int, error) {
	name, err := domain.NormalizeSetName(name)
	if err != nil {
		return nil, 0, err
	}

	parsed, err := importer.Parse(filename, r)
	if err != nil {
		return nil, 0, wrap("collection", "import set", err)
	}

	cards := make([]domain.Flashcard, 0, len(parsed.Rows))
	skipped := parsed.Skipped
	for _, row := range parsed.Rows {
		card, err := domain.NewFlashcard(row.Question, row.Answer, "", s.imageMaxBytes)
		if err != nil {
			skipped++
			continue
		}
		cards = append(cards, card)
	}
	if len(cards) == 0 {
		return nil, skipped, importer.ErrNoRows
	}

	set, err := s.create(ctx, name, cards)
	if err != nil {
		return nil, skipped, err
	}
	return set, skipped, nil
}

type setMutation func(sets domain.Collection, set *domain.FlashcardSet) error

// mutateSet applies fn to the set with id and writes the collection back.
func (s *collectionServiceImpl) mutateSet(
	ctx context.Context,
	op, id string,
	fn setMutation,
) (*domain.FlashcardSet, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var result domain.FlashcardSet
	err := s.store.Update(ctx, func(tx *store.Tx) error {
		sets, err := readSets(tx)
		if err != nil {
			return err
		}
		i := sets.IndexOf(id)
		if i < 0 {
			return domain.ErrSetNotFound
		}
		set := sets[i].Clone()
		if err := fn(sets, &set); err != nil {
			return err
		}
		sets[i] = set
		result = set.Clone()
		return tx.SetJSON(store.KeySets, sets)
	})
	if err != nil {
		return nil, wrap("collection", op, err)
	}

	log.Debug("flashcard set updated", slog.String("set_id", id), slog.String("operation", op))
	return &result, nil
}

func readSets(tx *store.Tx) (domain.Collection, error) {
	var sets domain.Collection
	if _, err := tx.GetJSON(store.KeySets, &sets); err != nil {
		return nil, err
	}
	return sets, nil
}
