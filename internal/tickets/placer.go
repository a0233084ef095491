package tickets

import (
	"context"
	"log/slog"

	"github.com/kmuriithi/betpipe/internal/pkg/models"
)

// PlaceAll submits tickets sequentially through the agent, mutating each
// ticket's selections and status in place. An agent error fails every
// selection on that ticket; placement then continues with the next ticket so
// one broken submission never blocks the rest of the batch.
func PlaceAll(ctx context.Context, agent ExecutionAgent, tickets []models.Ticket) []models.Ticket {
	for i := range tickets {
		t := &tickets[i]

		statuses, err := agent.PlaceTicket(ctx, t)
		if err != nil {
			slog.Error("Ticket placement failed", "ticket_id", t.ID, "error", err)
			for j := range t.Selections {
				t.Selections[j].Status = models.PlacementFailed
			}
			t.Status = models.TicketFailed
			continue
		}

		for j := range t.Selections {
			status, ok := statuses[t.Selections[j].ID]
			if !ok {
				status = models.PlacementFailed
			}
			t.Selections[j].Status = status
		}
		t.Status = deriveStatus(t.Selections)
		slog.Info("Ticket placed", "ticket_id", t.ID, "status", t.Status, "combined_odds", t.CombinedOdds)
	}
	return tickets
}

// deriveStatus folds selection outcomes into the ticket state: all placed,
// all failed, or partial.
func deriveStatus(selections []models.BetCandidate) models.TicketStatus {
	placed, failed := 0, 0
	for _, sel := range selections {
		switch sel.Status {
		case models.PlacementPlaced:
			placed++
		case models.PlacementFailed:
			failed++
		}
	}
	switch {
	case failed == 0 && placed > 0:
		return models.TicketPlaced
	case placed == 0:
		return models.TicketFailed
	default:
		return models.TicketPartial
	}
}
