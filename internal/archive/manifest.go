package archive

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"
)

const manifestName = "manifest.json"

// Manifest tracks per-prefix key counts and write times.
type Manifest struct {
	Version     int                   `json:"version"`
	GeneratedAt time.Time             `json:"generatedAt"`
	Prefixes    map[string]PrefixMeta `json:"prefixes"`
}

// PrefixMeta describes one top-level prefix.
type PrefixMeta struct {
	Keys      int       `json:"keys"`
	LastWrite time.Time `json:"lastWrite"`
}

func defaultManifest() Manifest {
	return Manifest{Version: 1, Prefixes: map[string]PrefixMeta{}}
}

func readManifest(path string) (Manifest, error) {
	f, err := os.Open(path)
	if err != nil {
		return defaultManifest(), err
	}
	defer f.Close()
	var m Manifest
	if err := json.NewDecoder(f).Decode(&m); err != nil {
		return defaultManifest(), err
	}
	if m.Prefixes == nil {
		m.Prefixes = map[string]PrefixMeta{}
	}
	return m, nil
}

func writeManifest(root string, m Manifest, now time.Time) error {
	m.GeneratedAt = now
	path := filepath.Join(root, manifestName)
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	return writeAtomic(path, data)
}

func writeAtomic(target string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(target), filepath.Base(target)+".*.tmp")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	if err := os.Rename(tmp.Name(), target); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return nil
}
