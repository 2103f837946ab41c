package storage

import (
	"context"
	"maps"
	"sync"

	"github.com/portsim/portfolio-simulator/internal/domain"
)

// MemoryStore keeps snapshots in process memory.
type MemoryStore struct {
	mu         sync.Mutex
	portfolios []domain.Portfolio
	scenarios  []domain.Scenario
	closed     bool
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) Save(ctx context.Context, snap *Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := validateSnapshot(snap); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrNotConfigured
	}

	for _, p := range snap.Portfolios {
		p = clonePortfolio(p)
		replaced := false
		for i := range m.portfolios {
			if m.portfolios[i].ID == p.ID {
				m.portfolios[i] = p
				replaced = true
				break
			}
		}
		if !replaced {
			m.portfolios = append(m.portfolios, p)
		}
	}

	for i := range m.scenarios {
		m.scenarios[i].IsDefault = false
	}
	for _, s := range snap.Scenarios {
		s = cloneScenario(s)
		s.IsDefault = s.Name == snap.DefaultScenario
		replaced := false
		for i := range m.scenarios {
			if m.scenarios[i].Name == s.Name {
				m.scenarios[i] = s
				replaced = true
				break
			}
		}
		if !replaced {
			m.scenarios = append(m.scenarios, s)
		}
	}
	return nil
}

func (m *MemoryStore) Load(ctx context.Context) (*Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return nil, ErrNotConfigured
	}

	snap := &Snapshot{}
	for _, p := range m.portfolios {
		snap.Portfolios = append(snap.Portfolios, clonePortfolio(p))
	}
	for _, s := range m.scenarios {
		snap.Scenarios = append(snap.Scenarios, cloneScenario(s))
		if s.IsDefault && snap.DefaultScenario == "" {
			snap.DefaultScenario = s.Name
		}
	}
	return snap, nil
}

// clonePortfolio copies the allocation map so stored and caller values never alias.
func clonePortfolio(p domain.Portfolio) domain.Portfolio {
	if p.Allocation != nil {
		p.Allocation = maps.Clone(p.Allocation)
	}
	return p
}

func cloneScenario(s domain.Scenario) domain.Scenario {
	if s.TrimRules != nil {
		s.TrimRules = maps.Clone(s.TrimRules)
	}
	return s
}

func (m *MemoryStore) Clear(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.portfolios = nil
	m.scenarios = nil
	return nil
}

func (m *MemoryStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}
