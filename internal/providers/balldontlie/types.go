package balldontlie

const providerName = "balldontlie"

type listResponse[T any] struct {
	Data []T          `json:"data"`
	Meta metaResponse `json:"meta"`
}

type gameResponse struct {
	ID               int          `json:"id"`
	Date             string       `json:"date"`
	Status           string       `json:"status"`
	Period           int          `json:"period"`
	Postseason       bool         `json:"postseason"`
	HomeTeam         teamResponse `json:"home_team"`
	VisitorTeam      teamResponse `json:"visitor_team"`
	HomeTeamScore    int          `json:"home_team_score"`
	VisitorTeamScore int          `json:"visitor_team_score"`
	Season           int          `json:"season"`
}

type teamResponse struct {
	ID           int    `json:"id"`
	Abbreviation string `json:"abbreviation"`
	City         string `json:"city"`
	Conference   string `json:"conference"`
	Division     string `json:"division"`
	FullName     string `json:"full_name"`
	Name         string `json:"name"`
}

type playerResponse struct {
	ID           int          `json:"id"`
	FirstName    string       `json:"first_name"`
	LastName     string       `json:"last_name"`
	Position     string       `json:"position"`
	Height       string       `json:"height"`
	Weight       string       `json:"weight"`
	JerseyNumber string       `json:"jersey_number"`
	College      string       `json:"college"`
	Country      string       `json:"country"`
	DraftYear    *int         `json:"draft_year"`
	Team         teamResponse `json:"team"`
}

// metaResponse covers both cursor pagination and the older page-based shape.
type metaResponse struct {
	NextCursor *int `json:"next_cursor"`
	TotalPages int  `json:"total_pages"`
}
