package tickets

import (
	"context"
	"errors"
	"testing"

	"github.com/kmuriithi/betpipe/internal/pkg/models"
)

func cand(id, fixture string, bt models.BetType, odds float64) models.BetCandidate {
	return models.BetCandidate{
		ID:         id,
		FixtureKey: fixture,
		BetType:    bt,
		Direction:  bt.Direction(),
		Odds:       odds,
	}
}

func TestComposeRespectsMaxSize(t *testing.T) {
	c := NewComposer(3)
	var cands []models.BetCandidate
	for i := 0; i < 7; i++ {
		cands = append(cands, cand(string(rune('a'+i)), string(rune('a'+i)), models.BetHomeOver05, 1.30))
	}

	tickets, dropped := c.Compose(cands)
	if len(dropped) != 0 {
		t.Fatalf("dropped %d candidates, want 0", len(dropped))
	}
	if len(tickets) != 3 {
		t.Fatalf("got %d tickets, want 3", len(tickets))
	}
	sizes := []int{len(tickets[0].Selections), len(tickets[1].Selections), len(tickets[2].Selections)}
	if sizes[0] != 3 || sizes[1] != 3 || sizes[2] != 1 {
		t.Errorf("ticket sizes %v, want [3 3 1]", sizes)
	}
}

func TestComposeExactlyOnce(t *testing.T) {
	c := NewComposer(2)
	cands := []models.BetCandidate{
		cand("a", "f1", models.BetHomeOver05, 1.30),
		cand("b", "f2", models.BetOver15, 1.40),
		cand("c", "f3", models.BetHomeDraw, 1.50),
	}

	tickets, dropped := c.Compose(cands)
	seen := map[string]int{}
	for _, tk := range tickets {
		for _, sel := range tk.Selections {
			seen[sel.ID]++
		}
	}
	total := len(dropped)
	for id, n := range seen {
		if n != 1 {
			t.Errorf("candidate %s appears %d times", id, n)
		}
		total++
	}
	if total != len(cands) {
		t.Errorf("%d candidates accounted for, want %d", total, len(cands))
	}
}

func TestComposeSealsOnDirectionConflict(t *testing.T) {
	// Both candidates target fixture f1 from opposite sides. The first goes
	// into the open ticket; the conflicting one must start a new ticket.
	c := NewComposer(3)
	home := cand("h", "f1", models.BetHomeOver05, 1.30)
	away := models.BetCandidate{
		ID: "a", FixtureKey: "f1", BetType: "away_over_05",
		Direction: models.DirectionAway, Odds: 1.60,
	}

	tickets, dropped := c.Compose([]models.BetCandidate{home, away})
	if len(dropped) != 0 {
		t.Fatalf("dropped %v, want none", dropped)
	}
	if len(tickets) != 2 {
		t.Fatalf("got %d tickets, want 2", len(tickets))
	}
	for _, tk := range tickets {
		if len(tk.Selections) != 1 {
			t.Errorf("ticket %s holds %d selections, want 1", tk.ID, len(tk.Selections))
		}
	}
}

func TestComposeDirectionlessNeverConflicts(t *testing.T) {
	c := NewComposer(3)
	cands := []models.BetCandidate{
		cand("h", "f1", models.BetHomeOver05, 1.30),
		cand("o", "f1", models.BetOver15, 1.40),
	}
	tickets, dropped := c.Compose(cands)
	if len(dropped) != 0 || len(tickets) != 1 || len(tickets[0].Selections) != 2 {
		t.Fatalf("same-direction pair split: %d tickets, %d dropped", len(tickets), len(dropped))
	}
}

func TestComposeCombinedOdds(t *testing.T) {
	c := NewComposer(3)
	cands := []models.BetCandidate{
		cand("a", "f1", models.BetHomeOver05, 1.30),
		cand("b", "f2", models.BetHomeDraw, 1.40),
		cand("c", "f3", models.BetOver15, 1.50),
	}
	tickets, _ := c.Compose(cands)
	if len(tickets) != 1 {
		t.Fatalf("got %d tickets, want 1", len(tickets))
	}
	if tickets[0].CombinedOdds != 2.73 {
		t.Errorf("combined odds %v, want 2.73", tickets[0].CombinedOdds)
	}
}

func TestComposeEmptyInput(t *testing.T) {
	tickets, dropped := NewComposer(3).Compose(nil)
	if len(tickets) != 0 || len(dropped) != 0 {
		t.Fatalf("empty input produced %d tickets, %d dropped", len(tickets), len(dropped))
	}
}

type failingAgent struct {
	failTicket int
	calls      int
}

func (a *failingAgent) PlaceTicket(ctx context.Context, ticket *models.Ticket) (map[string]models.PlacementStatus, error) {
	a.calls++
	if a.calls == a.failTicket {
		return nil, errors.New("bookmaker rejected session")
	}
	statuses := map[string]models.PlacementStatus{}
	for _, sel := range ticket.Selections {
		statuses[sel.ID] = models.PlacementPlaced
	}
	return statuses, nil
}

func TestPlaceAllContinuesAfterAgentError(t *testing.T) {
	c := NewComposer(2)
	tickets, _ := c.Compose([]models.BetCandidate{
		cand("a", "f1", models.BetHomeOver05, 1.30),
		cand("b", "f2", models.BetHomeDraw, 1.40),
		cand("c", "f3", models.BetOver15, 1.50),
	})
	if len(tickets) != 2 {
		t.Fatalf("got %d tickets, want 2", len(tickets))
	}

	agent := &failingAgent{failTicket: 1}
	placed := PlaceAll(context.Background(), agent, tickets)

	if placed[0].Status != models.TicketFailed {
		t.Errorf("first ticket status %s, want failed", placed[0].Status)
	}
	for _, sel := range placed[0].Selections {
		if sel.Status != models.PlacementFailed {
			t.Errorf("selection %s status %s, want failed", sel.ID, sel.Status)
		}
	}
	if placed[1].Status != models.TicketPlaced {
		t.Errorf("second ticket status %s, want placed", placed[1].Status)
	}
}

func TestPlaceAllPartialStatus(t *testing.T) {
	tk := models.Ticket{ID: "t1", Selections: []models.BetCandidate{
		cand("a", "f1", models.BetHomeOver05, 1.30),
		cand("b", "f2", models.BetHomeDraw, 1.40),
	}, Status: models.TicketPending}

	agent := agentFunc(func(ctx context.Context, t *models.Ticket) (map[string]models.PlacementStatus, error) {
		return map[string]models.PlacementStatus{
			"a": models.PlacementPlaced,
			"b": models.PlacementFailed,
		}, nil
	})

	placed := PlaceAll(context.Background(), agent, []models.Ticket{tk})
	if placed[0].Status != models.TicketPartial {
		t.Errorf("ticket status %s, want partial", placed[0].Status)
	}
}

func TestDryRunAgentPlacesEverything(t *testing.T) {
	tk := models.Ticket{ID: "t1", Selections: []models.BetCandidate{
		cand("a", "f1", models.BetHomeOver05, 1.30),
	}}
	statuses, err := (&DryRunAgent{}).PlaceTicket(context.Background(), &tk)
	if err != nil {
		t.Fatalf("dry run errored: %v", err)
	}
	if statuses["a"] != models.PlacementPlaced {
		t.Errorf("dry run status %s, want placed", statuses["a"])
	}
}

type agentFunc func(context.Context, *models.Ticket) (map[string]models.PlacementStatus, error)

func (f agentFunc) PlaceTicket(ctx context.Context, t *models.Ticket) (map[string]models.PlacementStatus, error) {
	return f(ctx, t)
}
