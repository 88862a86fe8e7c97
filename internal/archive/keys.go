package archive

import (
	"errors"
	"fmt"
	"path"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/preston-bernstein/better-bets-service/internal/timeutil"
)

// ErrInvalidKey is returned for empty, absolute, or escaping keys.
var ErrInvalidKey = errors.New("invalid archive key")

var datePattern = regexp.MustCompile(`\d{4}-\d{2}-\d{2}`)

// OddsRawKey is where a day's raw historical odds are archived.
func OddsRawKey(league string, day time.Time) string {
	return fmt.Sprintf("odds/raw/%s/%s_%s.json", league, league, timeutil.FormatDate(day))
}

// OddsRawPrefix holds every raw odds file for a league.
func OddsRawPrefix(league string) string {
	return "odds/raw/" + league
}

// OddsTransformedKey is the CSV written for a raw odds key.
func OddsTransformedKey(league, rawKey string) string {
	name := strings.TrimSuffix(path.Base(rawKey), path.Ext(rawKey))
	return fmt.Sprintf("odds/transformed/%s/%s.csv", league, name)
}

// NBASeasonKey is where one season's games are archived.
func NBASeasonKey(label string) string {
	return fmt.Sprintf("nba/raw/%s.json", label)
}

// cleanKey validates key and returns it in slash form.
func cleanKey(key string) (string, error) {
	k := strings.TrimSpace(key)
	if k == "" {
		return "", fmt.Errorf("%w: empty", ErrInvalidKey)
	}
	if strings.Contains(k, `\`) || path.IsAbs(k) || filepath.IsAbs(k) {
		return "", fmt.Errorf("%w: %q must be relative", ErrInvalidKey, key)
	}
	for _, seg := range strings.Split(k, "/") {
		if seg == ".." {
			return "", fmt.Errorf("%w: %q escapes the archive", ErrInvalidKey, key)
		}
	}
	k = path.Clean(k)
	if k == "." {
		return "", fmt.Errorf("%w: empty", ErrInvalidKey)
	}
	return k, nil
}

// topPrefix returns the first path segment of key.
func topPrefix(key string) string {
	if i := strings.Index(key, "/"); i >= 0 {
		return key[:i]
	}
	return key
}

// keyDate extracts the last YYYY-MM-DD in key's file name.
func keyDate(key string) (time.Time, bool) {
	matches := datePattern.FindAllString(path.Base(key), -1)
	if len(matches) == 0 {
		return time.Time{}, false
	}
	d, err := timeutil.ParseDate(matches[len(matches)-1])
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}
