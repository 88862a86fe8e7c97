package metrics

// Common metric attribute keys to keep telemetry consistent/searchable.
const (
	AttrMethod   = "method"
	AttrPath     = "path"
	AttrStatus   = "status"
	AttrProvider = "provider"
	AttrCache    = "cache"
	AttrResult   = "result"
	AttrVaR      = "var_method"
	AttrSport    = "sport"
)
