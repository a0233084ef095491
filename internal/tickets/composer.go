// Package tickets groups selected candidates into bounded, conflict-free
// tickets and drives their placement through an execution agent.
package tickets

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/kmuriithi/betpipe/internal/pkg/models"
)

// Composer packs candidates into tickets of at most maxPerTicket selections,
// never co-locating two bets that lean on opposite sides of one fixture.
type Composer struct {
	maxPerTicket int
}

// NewComposer creates a composer. Non-positive sizes fall back to 3.
func NewComposer(maxPerTicket int) *Composer {
	if maxPerTicket <= 0 {
		maxPerTicket = 3
	}
	return &Composer{maxPerTicket: maxPerTicket}
}

// Compose walks candidates in order, sealing the open ticket when it is full
// or when the next candidate conflicts with a member. A candidate that
// conflicts even with an otherwise empty ticket is unplaceable and dropped
// with a diagnostic. Every input candidate lands in exactly one ticket or in
// the dropped list.
func (c *Composer) Compose(candidates []models.BetCandidate) ([]models.Ticket, []string) {
	var tickets []models.Ticket
	var dropped []string

	current := newTicket()
	for _, cand := range candidates {
		if conflictsWithAny(current.Selections, cand) {
			if len(current.Selections) == 0 {
				dropped = append(dropped, fmt.Sprintf("%s (%s on %s): conflicts within a single ticket",
					cand.Team, cand.BetType, cand.FixtureKey))
				continue
			}
			tickets = append(tickets, sealTicket(current))
			current = newTicket()
		}

		current.Selections = append(current.Selections, cand)
		if len(current.Selections) == c.maxPerTicket {
			tickets = append(tickets, sealTicket(current))
			current = newTicket()
		}
	}

	if len(current.Selections) > 0 {
		tickets = append(tickets, sealTicket(current))
	}
	return tickets, dropped
}

func newTicket() models.Ticket {
	return models.Ticket{
		ID:        uuid.NewString(),
		CreatedAt: time.Now().UTC(),
		Status:    models.TicketPending,
	}
}

func sealTicket(t models.Ticket) models.Ticket {
	t.RecomputeOdds()
	return t
}

// conflictsWithAny reports whether the candidate opposes any existing member:
// same fixture, one leaning home and the other away. Directionless bets never
// conflict.
func conflictsWithAny(members []models.BetCandidate, cand models.BetCandidate) bool {
	if cand.Direction == models.DirectionNone {
		return false
	}
	for _, m := range members {
		if m.FixtureKey != cand.FixtureKey {
			continue
		}
		if m.Direction == models.DirectionNone || m.Direction == cand.Direction {
			continue
		}
		return true
	}
	return false
}
