package models

import (
	"math"
	"time"
)

// BetType enumerates the markets the pipeline bets on.
type BetType string

const (
	BetHomeOver05 BetType = "home_over_05" // home team scores at least one goal
	BetHomeDraw   BetType = "home_draw"    // double chance: home win or draw
	BetOver15     BetType = "over_1_5"     // total goals >= 2
)

// BetTypes lists all evaluated bet types in evaluation order.
var BetTypes = []BetType{BetHomeOver05, BetHomeDraw, BetOver15}

// Direction is the side of the fixture a bet leans on. Two candidates on the
// same fixture conflict only when one leans home and the other away.
type Direction string

const (
	DirectionHome Direction = "home"
	DirectionAway Direction = "away"
	DirectionNone Direction = "none"
)

// Direction returns the side the bet type leans on.
func (t BetType) Direction() Direction {
	switch t {
	case BetHomeOver05, BetHomeDraw:
		return DirectionHome
	case BetOver15:
		return DirectionNone
	}
	return DirectionNone
}

// PlacementStatus is the terminal outcome string the execution agent reports
// per ticket member. Empty until placement has been attempted.
type PlacementStatus string

const (
	PlacementPlaced PlacementStatus = "placed"
	PlacementFailed PlacementStatus = "failed"
)

// BetCandidate is one proposed single bet, materialized from an eligibility
// flag. Candidates live for one pipeline run; they are rebuilt from the
// market_flags snapshot on every scoring pass.
type BetCandidate struct {
	ID         string          `json:"bet_id"`
	FixtureKey string          `json:"fixture_key"`
	BetType    BetType         `json:"bet_type"`
	Direction  Direction       `json:"direction"`
	Team       string          `json:"team"` // display label, e.g. "Chelsea or Draw"
	Odds       float64         `json:"odds"`
	GameURL    string          `json:"game_url,omitempty"`
	MLWinProb  float64         `json:"ml_win_prob"`
	Status     PlacementStatus `json:"status,omitempty"`

	// Row is the combined row the candidate came from, kept for feature
	// extraction and settlement.
	Row CombinedRow `json:"game"`
}

// TicketStatus is the ticket lifecycle state. Only the execution agent's
// report moves a ticket out of pending.
type TicketStatus string

const (
	TicketPending TicketStatus = "pending"
	TicketPlaced  TicketStatus = "placed"
	TicketPartial TicketStatus = "partial"
	TicketFailed  TicketStatus = "failed"
)

// Ticket is an ordered, bounded set of candidates submitted together.
type Ticket struct {
	ID           string         `json:"ticket_id"`
	Selections   []BetCandidate `json:"selections"`
	CombinedOdds float64        `json:"combined_odds"`
	CreatedAt    time.Time      `json:"timestamp"`
	Status       TicketStatus   `json:"status"`
}

// RecomputeOdds sets CombinedOdds to the product of member odds, rounded to
// two decimals.
func (t *Ticket) RecomputeOdds() {
	combined := 1.0
	for _, sel := range t.Selections {
		combined *= sel.Odds
	}
	t.CombinedOdds = math.Round(combined*100) / 100
}

// SettlementStatus is the outcome of a placed bet once results are known.
type SettlementStatus string

const (
	SettlementWon     SettlementStatus = "won"
	SettlementLost    SettlementStatus = "lost"
	SettlementPending SettlementStatus = "pending"
)

// SettlementRecord joins a placed bet with the fixture's final score.
// Immutable once both placement and result are known.
type SettlementRecord struct {
	FixtureKey string `json:"fixture_key"`
	HomeTeam   string `json:"home_team"`
	AwayTeam   string `json:"away_team"`
	HomeScore  *int   `json:"home_correct_score"`
	AwayScore  *int   `json:"away_correct_score"`

	BetID            string           `json:"bet_id"`
	BetType          BetType          `json:"bet_type"`
	Team             string           `json:"team"`
	Odds             float64          `json:"odds"`
	PlacementStatus  PlacementStatus  `json:"status"`
	SettlementStatus SettlementStatus `json:"settlement_status"`
}
