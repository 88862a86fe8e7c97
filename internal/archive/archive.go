// Package archive stores JSON and CSV objects under a root directory using slash-separated keys.
package archive

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/preston-bernstein/better-bets-service/internal/logging"
	"github.com/preston-bernstein/better-bets-service/internal/timeutil"
)

// Archive is a filesystem object store with a manifest.
type Archive struct {
	root   string
	logger *slog.Logger
	now    func() time.Time

	mu sync.Mutex
}

// New returns an Archive rooted at root.
func New(root string, logger *slog.Logger) *Archive {
	return &Archive{root: root, logger: logger, now: time.Now}
}

// WriteJSON stores v as indented JSON at key. Identical content is not rewritten.
func (a *Archive) WriteJSON(key string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return a.write(key, append(data, '\n'))
}

// ReadJSON decodes the object at key into v.
func (a *Archive) ReadJSON(key string, v any) error {
	data, err := a.read(key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode %s: %w", key, err)
	}
	return nil
}

// WriteCSV stores header and rows at key, which must end in .csv.
func (a *Archive) WriteCSV(key string, header []string, rows [][]string) error {
	if !strings.HasSuffix(key, ".csv") {
		return fmt.Errorf("%w: %q must end in .csv", ErrInvalidKey, key)
	}
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(header); err != nil {
		return err
	}
	if err := w.WriteAll(rows); err != nil {
		return err
	}
	return a.write(key, buf.Bytes())
}

// ReadCSV returns every record at key, header first.
func (a *Archive) ReadCSV(key string) ([][]string, error) {
	data, err := a.read(key)
	if err != nil {
		return nil, err
	}
	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", key, err)
	}
	return records, nil
}

// List returns sorted keys under prefix. A missing prefix logs a warning and yields no keys.
func (a *Archive) List(prefix string) ([]string, error) {
	p, err := cleanKey(prefix)
	if err != nil {
		return nil, err
	}
	dir := a.path(p)
	if _, err := os.Stat(dir); errors.Is(err, fs.ErrNotExist) {
		logging.Warn(a.logger, "archive prefix does not exist", slog.String(logging.FieldKey, p))
		return []string{}, nil
	}

	var keys []string
	err = filepath.WalkDir(dir, func(full string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() || strings.HasSuffix(d.Name(), ".tmp") || d.Name() == manifestName {
			return nil
		}
		rel, err := filepath.Rel(a.root, full)
		if err != nil {
			return err
		}
		keys = append(keys, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", p, err)
	}
	sort.Strings(keys)
	return keys, nil
}

// IsDir reports whether prefix is an existing directory.
func (a *Archive) IsDir(prefix string) bool {
	p, err := cleanKey(prefix)
	if err != nil {
		return false
	}
	info, err := os.Stat(a.path(p))
	return err == nil && info.IsDir()
}

// Exists reports whether an object is stored at key.
func (a *Archive) Exists(key string) bool {
	k, err := cleanKey(key)
	if err != nil {
		return false
	}
	info, err := os.Stat(a.path(k))
	return err == nil && !info.IsDir()
}

// Prune removes dated keys under prefix older than retentionDays and returns the removed keys.
// Keys without a YYYY-MM-DD in their name are kept.
func (a *Archive) Prune(prefix string, retentionDays int) ([]string, error) {
	if retentionDays <= 0 {
		return nil, nil
	}
	keys, err := a.List(prefix)
	if err != nil {
		return nil, err
	}
	cutoff := timeutil.TruncateDay(a.now()).AddDate(0, 0, -retentionDays)

	var removed []string
	for _, k := range keys {
		d, ok := keyDate(k)
		if !ok || !d.Before(cutoff) {
			continue
		}
		if err := os.Remove(a.path(k)); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return removed, fmt.Errorf("prune %s: %w", k, err)
		}
		removed = append(removed, k)
	}
	if len(removed) > 0 {
		p, _ := cleanKey(prefix)
		if err := a.updateManifest(topPrefix(p)); err != nil {
			return removed, err
		}
	}
	return removed, nil
}

// Manifest returns the current manifest, or an empty one when none has been written.
func (a *Archive) Manifest() (Manifest, error) {
	m, err := readManifest(filepath.Join(a.root, manifestName))
	if errors.Is(err, fs.ErrNotExist) {
		return m, nil
	}
	return m, err
}

func (a *Archive) write(key string, data []byte) error {
	if a == nil {
		return errors.New("archive not configured")
	}
	k, err := cleanKey(key)
	if err != nil {
		return err
	}
	if k == manifestName {
		return fmt.Errorf("%w: %q is reserved", ErrInvalidKey, key)
	}
	target := a.path(k)

	if existing, err := os.ReadFile(target); err == nil && bytes.Equal(existing, data) {
		return nil
	}
	if err := writeAtomic(target, data); err != nil {
		return fmt.Errorf("write %s: %w", k, err)
	}
	return a.updateManifest(topPrefix(k))
}

func (a *Archive) read(key string) ([]byte, error) {
	if a == nil {
		return nil, errors.New("archive not configured")
	}
	k, err := cleanKey(key)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(a.path(k))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", k, err)
	}
	return data, nil
}

func (a *Archive) updateManifest(prefix string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	m, _ := readManifest(filepath.Join(a.root, manifestName))
	keys, err := a.countKeys(prefix)
	if err != nil {
		return err
	}
	now := a.now().UTC()
	m.Prefixes[prefix] = PrefixMeta{Keys: keys, LastWrite: now}
	return writeManifest(a.root, m, now)
}

func (a *Archive) countKeys(prefix string) (int, error) {
	n := 0
	err := filepath.WalkDir(a.path(prefix), func(_ string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		if !d.IsDir() && !strings.HasSuffix(d.Name(), ".tmp") && d.Name() != manifestName {
			n++
		}
		return nil
	})
	return n, err
}

func (a *Archive) path(key string) string {
	return filepath.Join(a.root, filepath.FromSlash(path.Clean(key)))
}
