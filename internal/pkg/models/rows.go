package models

// OddsRow is one bookmaker quote set for a fixture on a date, as scraped.
// Missing markets unmarshal to 0, which every downstream rule treats as
// "not offered" rather than an error.
type OddsRow struct {
	HomeTeam    string `json:"home_team"`
	AwayTeam    string `json:"away_team"`
	KickoffTime string `json:"kickoff_time,omitempty"`

	HomeWinOdds  float64 `json:"home_win_odds,omitempty"`
	DrawOdds     float64 `json:"draw_odds,omitempty"`
	AwayWinOdds  float64 `json:"away_win_odds,omitempty"`
	HomeDrawOdds float64 `json:"home_draw_odds,omitempty"`
	AwayDrawOdds float64 `json:"away_draw_odds,omitempty"`
	HomeOver05   float64 `json:"home_team_over_0.5,omitempty"`
	AwayOver05   float64 `json:"away_team_over_0.5,omitempty"`
	TotalOver15  float64 `json:"total_over_1.5,omitempty"`
	BTTSYes      float64 `json:"btts_yes,omitempty"`

	// GameURL is the bookmaker page the execution agent navigates to.
	GameURL string `json:"game_url,omitempty"`
}

// TipRow is one prediction-service row for a fixture on a date.
// Prob1/ProbX/Prob2 are integer percentages summing to roughly 100.
type TipRow struct {
	MatchID    int64  `json:"match_id"`
	HomeTeam   string `json:"home_team"`
	AwayTeam   string `json:"away_team"`
	Country    string `json:"country,omitempty"`
	LeagueName string `json:"league_name,omitempty"`

	Prob1         int     `json:"prob_1"`
	ProbX         int     `json:"prob_x"`
	Prob2         int     `json:"prob_2"`
	Pred          string  `json:"pred,omitempty"` // predicted outcome label, e.g. "1", "X2"
	HomePredScore int     `json:"home_pred_score"`
	AwayPredScore int     `json:"away_pred_score"`
	AvgGoals      float64 `json:"avg_goals"`
	Kelly         float64 `json:"kelly,omitempty"`
}

// ResultRow carries final and half-time scores for a fixture, published the
// day after the tip. Scores are nil until the fixture has been played.
type ResultRow struct {
	MatchID   int64 `json:"match_id"`
	HomeScore *int  `json:"home_correct_score"`
	AwayScore *int  `json:"away_correct_score"`
	HomeHT    *int  `json:"home_ht_score,omitempty"`
	AwayHT    *int  `json:"away_ht_score,omitempty"`
}

// Played reports whether the full-time score is known.
func (r ResultRow) Played() bool {
	return r.HomeScore != nil && r.AwayScore != nil
}

// CombinedRow is an OddsRow joined with its matched TipRow. Result is nil
// until the day-after merge fills it in. Owned by the fixture matcher;
// later stages read it but never mutate the odds or tip parts.
type CombinedRow struct {
	OddsRow

	Tip             TipRow     `json:"tip"`
	MatchConfidence float64    `json:"match_confidence"`
	Result          *ResultRow `json:"result,omitempty"`
}

// MarketFlags is one boolean per evaluated bet type.
type MarketFlags struct {
	HomeOver05 bool `json:"home_over_bet"`
	HomeDraw   bool `json:"home_draw_bet"`
	Over15     bool `json:"over_1_5_bet"`
}

// MarketFlagRow is a CombinedRow annotated with eligibility flags.
// Rows are never dropped at the evaluation stage.
type MarketFlagRow struct {
	CombinedRow
	Flags MarketFlags `json:"flags"`
}

// OddsFor returns the quoted price for the given bet type, 0 if not offered.
func (r CombinedRow) OddsFor(bt BetType) float64 {
	switch bt {
	case BetHomeOver05:
		return r.HomeOver05
	case BetHomeDraw:
		return r.HomeDrawOdds
	case BetOver15:
		return r.TotalOver15
	}
	return 0
}
