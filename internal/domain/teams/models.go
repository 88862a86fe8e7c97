package teams

// Team represents the normalized NBA team shape.
type Team struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	FullName     string `json:"fullName"`
	Abbreviation string `json:"abbreviation"`
	City         string `json:"city"`
	Conference   string `json:"conference"`
	Division     string `json:"division"`
	UpstreamID   int    `json:"upstreamId,omitempty"`
}

// TeamsResponse is the payload returned by /sports/nba/teams.
type TeamsResponse struct {
	Count int    `json:"count"`
	Teams []Team `json:"teams"`
}
