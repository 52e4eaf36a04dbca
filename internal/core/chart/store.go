package chart

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// Store persists assembled chart payloads as dated JSON artifacts so the
// transport layer can serve them statically.
type Store struct {
	root string
}

func NewStore(root string) *Store {
	return &Store{root: root}
}

// Save writes the chart payload under <root>/YYYY-MM-DD/<uuid>.json and
// returns the path relative to the artifact root (usable as a static URL
// suffix).
func (s *Store) Save(data ChartData) (string, error) {
	day := time.Now().Format("2006-01-02")
	dir := filepath.Join(s.root, day)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create chart dir: %w", err)
	}

	name := uuid.NewString() + ".json"
	payload, err := json.Marshal(data)
	if err != nil {
		return "", fmt.Errorf("encode chart payload: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, name), payload, 0o644); err != nil {
		return "", fmt.Errorf("write chart payload: %w", err)
	}

	return filepath.ToSlash(filepath.Join(day, name)), nil
}
