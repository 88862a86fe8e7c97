package oddsapi

import "time"

const (
	providerName       = "oddsapi"
	defaultBaseURL     = "https://api.the-odds-api.com"
	defaultHTTPTimeout = 15 * time.Second
	defaultOddsFormat  = "decimal"
	defaultDateFormat  = "iso"

	headerRemaining = "x-requests-remaining"
	headerUsed      = "x-requests-used"
	headerLast      = "x-requests-last"
)
