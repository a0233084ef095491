package tickets

import (
	"context"
	"log/slog"

	"github.com/kmuriithi/betpipe/internal/pkg/models"
)

// ExecutionAgent submits one ticket to the bookmaker and reports a terminal
// status per selection, keyed by bet ID. An error means the whole ticket
// failed before any selection could be placed.
type ExecutionAgent interface {
	PlaceTicket(ctx context.Context, ticket *models.Ticket) (map[string]models.PlacementStatus, error)
}

// DryRunAgent logs every ticket instead of placing it and reports all
// selections placed. Used by the composer's dry-run mode and in tests.
type DryRunAgent struct{}

var _ ExecutionAgent = (*DryRunAgent)(nil)

func (a *DryRunAgent) PlaceTicket(ctx context.Context, ticket *models.Ticket) (map[string]models.PlacementStatus, error) {
	statuses := make(map[string]models.PlacementStatus, len(ticket.Selections))
	for _, sel := range ticket.Selections {
		slog.Info("Dry run, would place bet",
			"ticket_id", ticket.ID,
			"bet_id", sel.ID,
			"team", sel.Team,
			"bet_type", sel.BetType,
			"odds", sel.Odds,
		)
		statuses[sel.ID] = models.PlacementPlaced
	}
	return statuses, nil
}
