package odds

import (
	"errors"
	"fmt"
	"strings"
)

// Regions accepted by the odds feed.
var Regions = []string{"us", "us2", "uk", "au", "eu"}

const (
	FormatDecimal  = "decimal"
	FormatAmerican = "american"
	DateISO        = "iso"
	DateUnix       = "unix"
	MarketH2H      = "h2h"
	MarketH2HLay   = "h2h_lay"
)

var (
	ErrSportRequired   = errors.New("sport is required")
	ErrRegionsRequired = errors.New("regions is required (us, us2, uk, au, eu)")
)

// OddsQuery holds the parameters for a live odds request.
type OddsQuery struct {
	Sport      string
	Regions    []string
	Markets    []string
	OddsFormat string
	DateFormat string
	EventIDs   []string
	Bookmakers []string
}

// Validate checks required fields and enumerations.
func (q OddsQuery) Validate() error {
	if strings.TrimSpace(q.Sport) == "" {
		return ErrSportRequired
	}
	if len(q.Regions) == 0 {
		return ErrRegionsRequired
	}
	for _, r := range q.Regions {
		if !isRegion(r) {
			return fmt.Errorf("unknown region %q (expected one of %s)", r, strings.Join(Regions, ", "))
		}
	}
	if q.OddsFormat != "" && q.OddsFormat != FormatDecimal && q.OddsFormat != FormatAmerican {
		return fmt.Errorf("unknown odds format %q", q.OddsFormat)
	}
	if q.DateFormat != "" && q.DateFormat != DateISO && q.DateFormat != DateUnix {
		return fmt.Errorf("unknown date format %q", q.DateFormat)
	}
	return nil
}

// WithDefaults fills markets and formats left empty.
func (q OddsQuery) WithDefaults(oddsFormat, dateFormat string) OddsQuery {
	if len(q.Markets) == 0 {
		q.Markets = []string{MarketH2H}
	}
	if q.OddsFormat == "" {
		q.OddsFormat = oddsFormat
	}
	if q.DateFormat == "" {
		q.DateFormat = dateFormat
	}
	return q
}

// CacheKey returns a stable key for the query.
func (q OddsQuery) CacheKey() string {
	return strings.Join([]string{
		"odds", q.Sport,
		strings.Join(q.Regions, ","),
		strings.Join(q.Markets, ","),
		q.OddsFormat, q.DateFormat,
		strings.Join(q.EventIDs, ","),
		strings.Join(q.Bookmakers, ","),
	}, ":")
}

// SplitList parses a comma separated parameter, trimming blanks and lowercasing nothing.
func SplitList(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func isRegion(r string) bool {
	for _, known := range Regions {
		if r == known {
			return true
		}
	}
	return false
}
