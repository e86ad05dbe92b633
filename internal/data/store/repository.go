// Package store persists day records: the timeline, the drafts that produced
// it and the latest review.
package store

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/penwyp/go-day-planner/internal/core/model"
)

// ErrNotFound is returned by Load when no record exists for the day.
var ErrNotFound = errors.New("day record not found")

// DayLayout is the day key format.
const DayLayout = "2006-01-02"

// DayRecord is everything kept for one day.
type DayRecord struct {
	Day       string              `json:"day"`
	PlanText  string              `json:"planText"`
	Narrative string              `json:"narrative"`
	Tasks     []model.Task        `json:"tasks"`
	Report    *model.ReviewReport `json:"report,omitempty"`
	UpdatedAt time.Time           `json:"updatedAt"`
}

// Repository loads and saves day records.
type Repository interface {
	Load(ctx context.Context, day string) (*DayRecord, error)
	Save(ctx context.Context, rec *DayRecord) error
	Close() error
}

// Driver names accepted by Open.
const (
	DriverJSON   = "json"
	DriverSQLite = "sqlite"
)

// Open creates the repository for driver rooted at dataDir.
func Open(driver, dataDir string) (Repository, error) {
	switch strings.ToLower(driver) {
	case "", DriverJSON:
		return NewJSONRepository(filepath.Join(dataDir, "days"))
	case DriverSQLite:
		return OpenSQLite(filepath.Join(dataDir, "planner.db"))
	default:
		return nil, fmt.Errorf("unknown storage driver %q", driver)
	}
}

func validateDay(day string) error {
	if _, err := time.Parse(DayLayout, day); err != nil {
		return fmt.Errorf("invalid day %q: %w", day, err)
	}
	return nil
}
