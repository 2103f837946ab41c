package calculation

import (
	"context"
	"fmt"
	"sync"

	"github.com/portsim/portfolio-simulator/internal/domain"
)

// DefaultHorizonYears is the projection length used by Simulate.
const DefaultHorizonYears = 35

// maxParallelSimulations bounds SimulateAll.
const maxParallelSimulations = 8

// Engine runs portfolio projections. It holds no per-run state, so one Engine may be shared
// across goroutines once configured.
type Engine struct {
	StartYear int  // calendar year of the first projected year
	Debug     bool // emit per-year trace lines through Logger
	Logger    Logger
}

// NewEngine creates an engine labelling projections from the current calendar year.
func NewEngine() *Engine {
	return NewEngineWithStartYear(CurrentYear())
}

// NewEngineWithStartYear creates an engine with an explicit first projected year.
func NewEngineWithStartYear(startYear int) *Engine {
	return &Engine{StartYear: startYear, Logger: NopLogger{}}
}

// SetLogger sets the logger for the engine. If nil is provided, a no-op logger is used.
func (e *Engine) SetLogger(l Logger) {
	if l == nil {
		e.Logger = NopLogger{}
		return
	}
	e.Logger = l
}

// Simulate projects a portfolio over DefaultHorizonYears.
func (e *Engine) Simulate(p *domain.Portfolio, s *domain.Scenario) (*domain.SimulationResult, error) {
	return e.SimulateYears(p, s, DefaultHorizonYears)
}

// SimulateYears projects a portfolio year by year under a scenario. All inputs are validated
// before any year is computed; no partial result is returned on error.
func (e *Engine) SimulateYears(p *domain.Portfolio, s *domain.Scenario, years int) (*domain.SimulationResult, error) {
	if err := ValidateHorizon(years); err != nil {
		return nil, err
	}
	if err := ValidatePortfolio(p); err != nil {
		return nil, fmt.Errorf("portfolio %q: %w", portfolioName(p), err)
	}
	if err := ValidateScenario(s); err != nil {
		return nil, fmt.Errorf("scenario %q: %w", scenarioName(s), err)
	}

	return &domain.SimulationResult{
		PortfolioID:    p.ID,
		PortfolioName:  p.Name,
		Color:          p.Color,
		Currency:       p.Currency,
		Scenario:       s.Name,
		StartYear:      e.StartYear,
		InitialCapital: p.Capital,
		Years:          e.GenerateProjection(p, s, years),
	}, nil
}

// SimulateAll projects several portfolios in parallel under the same scenario. Results keep the
// input order; the first failing portfolio (in input order) determines the returned error.
func (e *Engine) SimulateAll(ctx context.Context, portfolios []domain.Portfolio, s *domain.Scenario, years int) ([]domain.SimulationResult, error) {
	results := make([]domain.SimulationResult, len(portfolios))
	errs := make([]error, len(portfolios))
	var wg sync.WaitGroup
	semaphore := make(chan struct{}, maxParallelSimulations)

	for i := range portfolios {
		if err := ctx.Err(); err != nil {
			errs[i] = err
			break
		}
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			res, err := e.SimulateYears(&portfolios[idx], s, years)
			if err != nil {
				errs[idx] = err
				return
			}
			results[idx] = *res
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, fmt.Errorf("SimulateAll failed: %w", err)
		}
	}
	return results, nil
}

// Compare runs every portfolio under a scenario and attaches the scenario's withdrawal rate
// for each portfolio.
func (e *Engine) Compare(ctx context.Context, portfolios []domain.Portfolio, s *domain.Scenario, years int) (*domain.Comparison, error) {
	results, err := e.SimulateAll(ctx, portfolios, s, years)
	if err != nil {
		return nil, err
	}
	withdrawals := make([]domain.WithdrawalCalculation, 0, len(portfolios))
	for i := range portfolios {
		wc, err := WithdrawalRate(s, &portfolios[i], nil)
		if err != nil {
			return nil, fmt.Errorf("withdrawal rate for %q: %w", portfolios[i].Name, err)
		}
		withdrawals = append(withdrawals, *wc)
	}
	return &domain.Comparison{
		Scenario:    *s,
		Results:     results,
		Withdrawals: withdrawals,
		Assumptions: s.Assumptions(),
	}, nil
}

func portfolioName(p *domain.Portfolio) string {
	if p == nil {
		return ""
	}
	if p.Name != "" {
		return p.Name
	}
	return p.ID
}

func scenarioName(s *domain.Scenario) string {
	if s == nil {
		return ""
	}
	return s.Name
}
