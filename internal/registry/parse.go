package registry

import (
	"fmt"
	"regexp"
	"strings"
)

// Event tickers look like KXNFLGAME-26JAN10GBCHI: series, a dash, a 2-digit
// year, 3-letter month, 2-digit day, then the away and home team codes
// concatenated.
var eventTickerPattern = regexp.MustCompile(`^[A-Z0-9]+-\d{2}(JAN|FEB|MAR|APR|MAY|JUN|JUL|AUG|SEP|OCT|NOV|DEC)\d{2}([A-Z]+)$`)

// splitTeams extracts the away and home team codes from an event ticker.
// The concatenated team segment is ambiguous on its own, so the tracked
// market's side (a known team code) anchors the split.
func splitTeams(eventTicker, side string) (away, home string, err error) {
	m := eventTickerPattern.FindStringSubmatch(eventTicker)
	if m == nil {
		return "", "", fmt.Errorf("unrecognized event ticker format: %q", eventTicker)
	}
	teams := m[2]

	switch {
	case strings.HasPrefix(teams, side) && len(teams) > len(side):
		return side, teams[len(side):], nil
	case strings.HasSuffix(teams, side) && len(teams) > len(side):
		return teams[:len(teams)-len(side)], side, nil
	default:
		return "", "", fmt.Errorf("side %q does not split team segment %q of %q", side, teams, eventTicker)
	}
}

// marketSide returns the team code suffix of a market ticker, the segment
// after the final dash.
func marketSide(marketTicker string) (string, error) {
	i := strings.LastIndex(marketTicker, "-")
	if i < 0 || i == len(marketTicker)-1 {
		return "", fmt.Errorf("market ticker %q has no side suffix", marketTicker)
	}
	return marketTicker[i+1:], nil
}
