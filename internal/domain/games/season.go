package games

import (
	"fmt"
	"sort"
	"time"
)

// SeasonWindow is the regular season plus playoffs for the season starting in StartYear:
// October 18 of StartYear through June 18 of the following year, inclusive.
type SeasonWindow struct {
	StartYear int
}

// Start returns the first day of the window.
func (s SeasonWindow) Start() time.Time {
	return time.Date(s.StartYear, time.October, 18, 0, 0, 0, 0, time.UTC)
}

// End returns the last day of the window.
func (s SeasonWindow) End() time.Time {
	return time.Date(s.StartYear+1, time.June, 18, 0, 0, 0, 0, time.UTC)
}

// Label returns the archive-friendly name, e.g. 2022_2023.
func (s SeasonWindow) Label() string {
	return fmt.Sprintf("%d_%d", s.StartYear, s.StartYear+1)
}

// Contains reports whether day (compared by calendar date) falls inside the window.
func (s SeasonWindow) Contains(day time.Time) bool {
	d := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	return !d.Before(s.Start()) && !d.After(s.End())
}

// SeasonSnapshot groups games for one season window.
type SeasonSnapshot struct {
	Season string `json:"season"`
	Start  string `json:"start"`
	End    string `json:"end"`
	Count  int    `json:"count"`
	Games  []Game `json:"games"`
}

// FilterSeason keeps games whose date falls in the window, de-duplicated by ID and sorted by date then ID.
// Games with unparseable dates are dropped.
func FilterSeason(items []Game, window SeasonWindow) []Game {
	seen := make(map[string]struct{}, len(items))
	out := make([]Game, 0, len(items))
	for _, g := range items {
		day, err := parseGameDate(g.Date)
		if err != nil || !window.Contains(day) {
			continue
		}
		if _, ok := seen[g.ID]; ok {
			continue
		}
		seen[g.ID] = struct{}{}
		out = append(out, g)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date == out[j].Date {
			return out[i].ID < out[j].ID
		}
		return out[i].Date < out[j].Date
	})
	return out
}

// NewSeasonSnapshot builds the archive payload for a season.
func NewSeasonSnapshot(window SeasonWindow, items []Game) SeasonSnapshot {
	return SeasonSnapshot{
		Season: window.Label(),
		Start:  window.Start().Format("2006-01-02"),
		End:    window.End().Format("2006-01-02"),
		Count:  len(items),
		Games:  items,
	}
}

func parseGameDate(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t.UTC(), nil
	}
	if len(raw) >= 10 {
		return time.Parse("2006-01-02", raw[:10])
	}
	return time.Time{}, fmt.Errorf("invalid game date %q", raw)
}
