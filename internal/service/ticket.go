package service

import (
	"context"
	"log/slog"

	"github.com/phrazzld/flashquest/internal/domain"
	"github.com/phrazzld/flashquest/internal/domain/catalog"
	"github.com/phrazzld/flashquest/internal/platform/logger"
	"github.com/phrazzld/flashquest/internal/store"
)

// TicketItem is a minigame with the number of unused tickets held for it.
type TicketItem struct {
	catalog.Item
	Tickets int `json:"tickets"`
}

// TicketService sells and redeems single-use minigame tickets.
type TicketService interface {
	// List returns every minigame with its ticket count.
	List(ctx context.Context) ([]TicketItem, error)

	// Purchase buys one ticket. It fails with domain.ErrAlreadyOwned while an
	// unused ticket for the same game is held.
	Purchase(ctx context.Context, gameID string) (*PurchaseResult, error)

	// Consume removes one ticket for gameID, or fails with domain.ErrNotOwned.
	Consume(ctx context.Context, gameID string) error
}

type ticketServiceImpl struct {
	catalog *catalog.Catalog
	store   *store.Store
	logger  *slog.Logger
}

// NewTicketService creates a TicketService over the game catalog.
func NewTicketService(games *catalog.Catalog, st *store.Store, logger *slog.Logger) (TicketService, error) {
	if games == nil {
		return nil, domain.NewValidationError("catalog", "cannot be nil", domain.ErrValidation)
	}
	if st == nil {
		return nil, domain.NewValidationError("store", "cannot be nil", domain.ErrValidation)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ticketServiceImpl{
		catalog: games,
		store:   st,
		logger:  logger.With(slog.String("component", "ticket_service")),
	}, nil
}

// List implements TicketService.List
func (s *ticketServiceImpl) List(ctx context.Context) ([]TicketItem, error) {
	var tickets domain.Tickets
	err := s.store.View(ctx, func(tx *store.Tx) error {
		var err error
		tickets, err = readTickets(tx)
		return err
	})
	if err != nil {
		return nil, wrap("ticket", "list", err)
	}

	items := s.catalog.Items()
	out := make([]TicketItem, 0, len(items))
	for _, item := range items {
		out = append(out, TicketItem{Item: item, Tickets: tickets.Count(item.ID)})
	}
	return out, nil
}

// Purchase implements TicketService.Purchase
func (s *ticketServiceImpl) Purchase(ctx context.Context, gameID string) (*PurchaseResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	item, err := s.catalog.Lookup(gameID)
	if err != nil {
		return nil, err
	}

	result := &PurchaseResult{ItemID: item.ID, Price: item.Price}
	err = s.store.Update(ctx, func(tx *store.Tx) error {
		tickets, err := readTickets(tx)
		if err != nil {
			return err
		}
		if tickets.Count(item.ID) > 0 {
			return domain.ErrAlreadyOwned
		}
		balance, err := spend(tx, item.Price)
		if err != nil {
			return err
		}
		result.Balance = balance
		tickets = append(tickets, item.ID)
		return tx.SetJSON(store.KeyTickets, tickets)
	})
	if err != nil {
		return nil, wrap("ticket", "purchase", err)
	}

	log.Info("ticket purchased", slog.String("game_id", item.ID), slog.Int("balance", result.Balance))
	return result, nil
}

// Consume implements TicketService.Consume
func (s *ticketServiceImpl) Consume(ctx context.Context, gameID string) error {
	err := s.store.Update(ctx, func(tx *store.Tx) error {
		return consumeTicket(tx, gameID)
	})
	if err != nil {
		return wrap("ticket", "consume", err)
	}
	logger.FromContextOrDefault(ctx, s.logger).Debug("ticket consumed", slog.String("game_id", gameID))
	return nil
}

func readTickets(tx *store.Tx) (domain.Tickets, error) {
	var tickets domain.Tickets
	if _, err := tx.GetJSON(store.KeyTickets, &tickets); err != nil {
		return nil, err
	}
	return tickets, nil
}

func consumeTicket(tx *store.Tx, gameID string) error {
	tickets, err := readTickets(tx)
	if err != nil {
		return err
	}
	if err := tickets.Consume(gameID); err != nil {
		return err
	}
	if tickets == nil {
		tickets = domain.Tickets{}
	}
	return tx.SetJSON(store.KeyTickets, tickets)
}
