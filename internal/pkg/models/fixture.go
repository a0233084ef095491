package models

import (
	"strconv"
	"strings"
)

// FixtureKey builds the identity used to correlate a fixture across feeds.
// The externally assigned tip id wins when present; otherwise a composite of
// the normalized team names. Within one date's snapshot at most one combined
// row may carry a given key.
func (r CombinedRow) FixtureKey() string {
	if r.Tip.MatchID != 0 {
		return strconv.FormatInt(r.Tip.MatchID, 10)
	}
	return normalizeKeyPart(r.HomeTeam) + "|" + normalizeKeyPart(r.AwayTeam)
}

// normalizeKeyPart lower-cases, collapses whitespace and strips separator
// characters so the composite key stays stable across feed formatting quirks.
func normalizeKeyPart(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return ""
	}
	s = strings.ReplaceAll(s, "|", " ")
	s = strings.ReplaceAll(s, "/", " ")
	s = strings.Join(strings.Fields(s), " ")
	return s
}
