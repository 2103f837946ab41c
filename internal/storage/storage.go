// Package storage persists portfolios and scenarios between runs.
package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/portsim/portfolio-simulator/internal/domain"
)

// ErrNotConfigured is returned by a nil or closed store.
var ErrNotConfigured = errors.New("storage is not configured")

// Snapshot is everything a Store holds.
type Snapshot struct {
	Portfolios      []domain.Portfolio `json:"portfolios"`
	Scenarios       []domain.Scenario  `json:"scenarios"`
	DefaultScenario string             `json:"default_scenario_id,omitempty"`
}

// Store saves and restores snapshots. Save upserts portfolios by ID and scenarios by name and
// leaves exactly the scenario named by DefaultScenario flagged as default.
type Store interface {
	Save(ctx context.Context, snap *Snapshot) error
	Load(ctx context.Context) (*Snapshot, error)
	Clear(ctx context.Context) error
	Close() error
}

func validateSnapshot(snap *Snapshot) error {
	if snap == nil {
		return fmt.Errorf("snapshot is required")
	}
	for i, p := range snap.Portfolios {
		if p.ID == "" {
			return fmt.Errorf("portfolio %d: id is required", i)
		}
	}
	for i, s := range snap.Scenarios {
		if s.Name == "" {
			return fmt.Errorf("scenario %d: name is required", i)
		}
	}
	return nil
}

// ImportJSON decodes an export document and saves it into store.
func ImportJSON(ctx context.Context, store Store, raw []byte) (*Snapshot, error) {
	snap, err := DecodeSnapshot(raw)
	if err != nil {
		return nil, err
	}
	if err := store.Save(ctx, snap); err != nil {
		return nil, fmt.Errorf("import: %w", err)
	}
	return snap, nil
}
