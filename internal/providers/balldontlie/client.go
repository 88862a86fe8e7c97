package balldontlie

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/preston-bernstein/better-bets-service/internal/domain/games"
	"github.com/preston-bernstein/better-bets-service/internal/domain/players"
	"github.com/preston-bernstein/better-bets-service/internal/domain/teams"
	"github.com/preston-bernstein/better-bets-service/internal/logging"
	"github.com/preston-bernstein/better-bets-service/internal/providers"
)

// Config controls how the balldontlie client reaches the upstream API.
type Config struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
	MaxPages   int
	Logger     *slog.Logger
}

// Client fetches teams, players, and games from the balldontlie API and maps them to domain models.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient httpDoer
	maxPages   int
	logger     *slog.Logger
}

// NewClient constructs a balldontlie client with the provided configuration.
func NewClient(cfg Config) *Client {
	return &Client{
		baseURL:    normalizeBaseURL(cfg.BaseURL),
		apiKey:     cfg.APIKey,
		httpClient: resolveHTTPClient(cfg.HTTPClient),
		maxPages:   resolveMaxPages(cfg.MaxPages),
		logger:     cfg.Logger,
	}
}

// FetchTeams retrieves every team.
func (c *Client) FetchTeams(ctx context.Context) ([]teams.Team, error) {
	raw, err := fetchAll[teamResponse](ctx, c, "/teams", nil)
	if err != nil {
		return nil, err
	}
	out := make([]teams.Team, 0, len(raw))
	for _, t := range raw {
		out = append(out, mapTeam(t))
	}
	return out, nil
}

// FetchPlayers retrieves players and flags the ones present in the active list.
// When the active list is unavailable on the current plan, every player is reported active.
func (c *Client) FetchPlayers(ctx context.Context) ([]players.Player, error) {
	raw, err := fetchAll[playerResponse](ctx, c, "/players", nil)
	if err != nil {
		return nil, err
	}

	activeIDs, activeErr := c.activePlayerIDs(ctx)
	if activeErr != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		logging.Warn(logging.FromContext(ctx, c.logger), "active players unavailable, treating all as active",
			slog.String(logging.FieldProvider, providerName),
			slog.Any("err", activeErr),
		)
	}

	out := make([]players.Player, 0, len(raw))
	for _, p := range raw {
		active := activeIDs == nil
		if !active {
			_, active = activeIDs[p.ID]
		}
		out = append(out, mapPlayer(p, active))
	}
	return out, nil
}

// FetchTeamGames retrieves a team's games for the season starting in the given year.
func (c *Client) FetchTeamGames(ctx context.Context, team teams.Team, season int) ([]games.Game, error) {
	if team.UpstreamID == 0 {
		return nil, fmt.Errorf("%s: team %q has no upstream id", providerName, team.ID)
	}
	params := url.Values{}
	params.Set("team_ids[]", strconv.Itoa(team.UpstreamID))
	params.Set("seasons[]", strconv.Itoa(season))

	raw, err := fetchAll[gameResponse](ctx, c, "/games", params)
	if err != nil {
		return nil, err
	}
	out := make([]games.Game, 0, len(raw))
	for _, g := range raw {
		out = append(out, mapGame(g))
	}
	return out, nil
}

func (c *Client) activePlayerIDs(ctx context.Context) (map[int]struct{}, error) {
	raw, err := fetchAll[playerResponse](ctx, c, "/players/active", nil)
	if err != nil {
		return nil, err
	}
	ids := make(map[int]struct{}, len(raw))
	for _, p := range raw {
		ids[p.ID] = struct{}{}
	}
	return ids, nil
}

// fetchAll walks cursor or page pagination until exhausted or maxPages is reached.
func fetchAll[T any](ctx context.Context, c *Client, path string, params url.Values) ([]T, error) {
	all := make([]T, 0)
	cursor := ""
	for page := 1; page <= c.maxPages; page++ {
		var payload listResponse[T]
		if err := c.get(ctx, path, pageParams(params, page, cursor), &payload); err != nil {
			return nil, err
		}
		all = append(all, payload.Data...)

		switch {
		case payload.Meta.NextCursor != nil:
			cursor = strconv.Itoa(*payload.Meta.NextCursor)
		case payload.Meta.TotalPages > 0:
			if page >= payload.Meta.TotalPages {
				return all, nil
			}
		default:
			return all, nil
		}
	}
	return all, nil
}

func pageParams(base url.Values, page int, cursor string) url.Values {
	q := url.Values{}
	for k, v := range base {
		q[k] = append([]string(nil), v...)
	}
	q.Set("per_page", strconv.Itoa(defaultPerPage))
	if cursor != "" {
		q.Set("cursor", cursor)
	} else if page > 1 {
		q.Set("page", strconv.Itoa(page))
	}
	return q
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	target := c.baseURL + path
	if len(params) > 0 {
		target += "?" + params.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return err
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", providerName, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return providers.ErrorFromResponse(providerName, resp, body)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s: decode %s: %w", providerName, path, err)
	}
	return nil
}
