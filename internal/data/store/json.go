package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/bytedance/sonic"

	"github.com/penwyp/go-day-planner/internal/util"
)

// JSONRepository keeps one JSON file per day.
type JSONRepository struct {
	dir string
	mu  sync.Mutex
}

// NewJSONRepository creates the directory if needed.
func NewJSONRepository(dir string) (*JSONRepository, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	return &JSONRepository{dir: dir}, nil
}

func (r *JSONRepository) path(day string) string {
	return filepath.Join(r.dir, day+".json")
}

// Load reads the record of day.
func (r *JSONRepository) Load(ctx context.Context, day string) (*DayRecord, error) {
	if err := validateDay(day); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	data, err := os.ReadFile(r.path(day))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to read day record: %w", err)
	}

	var rec DayRecord
	if err := sonic.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("failed to unmarshal day record %s: %w", day, err)
	}
	return &rec, nil
}

// Save writes the record atomically: temp file first, then rename.
func (r *JSONRepository) Save(ctx context.Context, rec *DayRecord) error {
	if err := validateDay(rec.Day); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := sonic.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal day record: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	target := r.path(rec.Day)
	tempPath := target + ".tmp"
	if err := os.WriteFile(tempPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write day record: %w", err)
	}
	if err := os.Rename(tempPath, target); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to save day record: %w", err)
	}

	util.LogDebugf("store: saved %s with %d tasks", rec.Day, len(rec.Tasks))
	return nil
}

func (r *JSONRepository) Close() error { return nil }
