package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/portsim/portfolio-simulator/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/tidwall/gjson"
	_ "modernc.org/sqlite"
)

// SQLiteStore persists snapshots in a SQLite database. Decimals are stored as TEXT so values
// round-trip exactly; maps and nested records are stored as JSON documents.
type SQLiteStore struct {
	db *sql.DB
	mu sync.Mutex
}

// OpenSQLite opens (or creates) the database at path and runs migrations.
func OpenSQLite(path string) (*SQLiteStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := filepath.Clean(path) + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS portfolios (
			id          TEXT PRIMARY KEY,
			name        TEXT NOT NULL,
			color       TEXT NOT NULL DEFAULT '',
			currency    TEXT,
			capital     TEXT NOT NULL,
			goal        TEXT,
			risk_label  TEXT,
			horizon     TEXT,
			allocation  TEXT NOT NULL,
			rules       TEXT NOT NULL,
			strategy    TEXT,
			created_at  INTEGER NOT NULL,
			updated_at  INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS scenarios (
			id                   TEXT PRIMARY KEY,
			name                 TEXT NOT NULL UNIQUE,
			inflation            TEXT NOT NULL,
			regional_inflation   TEXT,
			growth_cushion       TEXT,
			tax_on_sale_proceeds TEXT,
			tax_on_dividends     TEXT,
			asset_returns        TEXT NOT NULL,
			trim_rules           TEXT NOT NULL,
			fidelis_cap          TEXT NOT NULL,
			is_default           INTEGER NOT NULL DEFAULT 0,
			created_at           INTEGER NOT NULL,
			updated_at           INTEGER NOT NULL
		)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("exec %q: %w", stmt[:40], err)
		}
	}
	return nil
}

func (s *SQLiteStore) ready() error {
	if s == nil || s.db == nil {
		return ErrNotConfigured
	}
	return nil
}

// Save upserts every portfolio and scenario in one transaction.
func (s *SQLiteStore) Save(ctx context.Context, snap *Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.ready(); err != nil {
		return err
	}
	if err := validateSnapshot(snap); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now().UTC().UnixMilli()
	for i := range snap.Portfolios {
		if err := upsertPortfolio(ctx, tx, &snap.Portfolios[i], now); err != nil {
			return fmt.Errorf("save portfolio %q: %w", snap.Portfolios[i].ID, err)
		}
	}
	if _, err := tx.ExecContext(ctx, `UPDATE scenarios SET is_default = 0`); err != nil {
		return fmt.Errorf("reset default scenario: %w", err)
	}
	for i := range snap.Scenarios {
		sc := &snap.Scenarios[i]
		if err := upsertScenario(ctx, tx, sc, sc.Name == snap.DefaultScenario, now); err != nil {
			return fmt.Errorf("save scenario %q: %w", sc.Name, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func upsertPortfolio(ctx context.Context, tx *sql.Tx, p *domain.Portfolio, now int64) error {
	allocation, err := json.Marshal(p.Allocation)
	if err != nil {
		return err
	}
	rules, err := json.Marshal(p.Rules)
	if err != nil {
		return err
	}
	strategy, err := json.Marshal(p.Strategy)
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO portfolios (id, name, color, currency, capital, goal, risk_label, horizon,
		   allocation, rules, strategy, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   name = excluded.name, color = excluded.color, currency = excluded.currency,
		   capital = excluded.capital, goal = excluded.goal, risk_label = excluded.risk_label,
		   horizon = excluded.horizon, allocation = excluded.allocation, rules = excluded.rules,
		   strategy = excluded.strategy, updated_at = excluded.updated_at`,
		p.ID, p.Name, p.Color, p.Currency, p.Capital.String(), p.Goal, p.RiskLabel, p.Horizon,
		string(allocation), string(rules), string(strategy), now, now,
	)
	return err
}

func upsertScenario(ctx context.Context, tx *sql.Tx, sc *domain.Scenario, isDefault bool, now int64) error {
	returns, err := json.Marshal(sc.AssetReturns)
	if err != nil {
		return err
	}
	rules := sc.TrimRules
	if rules == nil {
		rules = map[domain.Asset]domain.TrimRule{}
	}
	trimRules, err := json.Marshal(rules)
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO scenarios (id, name, inflation, regional_inflation, growth_cushion,
		   tax_on_sale_proceeds, tax_on_dividends, asset_returns, trim_rules, fidelis_cap,
		   is_default, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   name = excluded.name, inflation = excluded.inflation,
		   regional_inflation = excluded.regional_inflation, growth_cushion = excluded.growth_cushion,
		   tax_on_sale_proceeds = excluded.tax_on_sale_proceeds, tax_on_dividends = excluded.tax_on_dividends,
		   asset_returns = excluded.asset_returns, trim_rules = excluded.trim_rules,
		   fidelis_cap = excluded.fidelis_cap, is_default = excluded.is_default,
		   updated_at = excluded.updated_at`,
		sc.Name, sc.Name, sc.Inflation.String(), sc.RegionalInflation.String(), sc.GrowthCushion.String(),
		sc.TaxOnSaleProceeds.String(), sc.TaxOnDividends.String(), string(returns), string(trimRules),
		sc.FidelisCap.String(), isDefault, now, now,
	)
	return err
}

// Load returns every stored portfolio and scenario in insertion order.
func (s *SQLiteStore) Load(ctx context.Context) (*Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := s.ready(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := &Snapshot{}
	var err error
	if snap.Portfolios, err = s.loadPortfolios(ctx); err != nil {
		return nil, err
	}
	if snap.Scenarios, err = s.loadScenarios(ctx); err != nil {
		return nil, err
	}
	for _, sc := range snap.Scenarios {
		if sc.IsDefault {
			snap.DefaultScenario = sc.Name
			break
		}
	}
	return snap, nil
}

func (s *SQLiteStore) loadPortfolios(ctx context.Context) ([]domain.Portfolio, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, color, currency, capital, goal, risk_label, horizon, allocation, rules, strategy
		 FROM portfolios ORDER BY created_at, rowid`)
	if err != nil {
		return nil, fmt.Errorf("query portfolios: %w", err)
	}
	defer rows.Close()

	var out []domain.Portfolio
	for rows.Next() {
		var p domain.Portfolio
		var currency, goal, risk, horizon, strategy sql.NullString
		var capital, allocation, rules string
		if err := rows.Scan(&p.ID, &p.Name, &p.Color, &currency, &capital, &goal, &risk, &horizon,
			&allocation, &rules, &strategy); err != nil {
			return nil, fmt.Errorf("scan portfolio: %w", err)
		}
		p.Currency, p.Goal, p.RiskLabel, p.Horizon = currency.String, goal.String, risk.String, horizon.String
		if p.Currency == "" {
			p.Currency = domain.DefaultCurrency
		}
		if p.Capital, err = decimal.NewFromString(capital); err != nil {
			return nil, fmt.Errorf("portfolio %q capital: %w", p.ID, err)
		}
		if p.Allocation, err = decodeAllocation(gjson.Parse(allocation)); err != nil {
			return nil, fmt.Errorf("portfolio %q: %w", p.ID, err)
		}
		p.Rules.TVBETETFConditional = first(gjson.Parse(rules), "tvbetetfConditional", "tvbetetf_conditional").Bool()

		strat := gjson.Parse(strategy.String)
		p.Strategy.Overperformance = domain.OverperformanceStrategy(
			first(strat, "overperformanceStrategy", "overperformance_strategy").String())
		if p.Strategy.OverperformanceThreshold, _, err = optionalDecimal(strat,
			"strategy.overperformance_threshold", "overperformanceThreshold", "overperformance_threshold"); err != nil {
			return nil, fmt.Errorf("portfolio %q: %w", p.ID, err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate portfolios: %w", err)
	}
	return out, nil
}

func (s *SQLiteStore) loadScenarios(ctx context.Context) ([]domain.Scenario, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT name, inflation, regional_inflation, growth_cushion, tax_on_sale_proceeds, tax_on_dividends,
		   asset_returns, trim_rules, fidelis_cap, is_default
		 FROM scenarios ORDER BY created_at, rowid`)
	if err != nil {
		return nil, fmt.Errorf("query scenarios: %w", err)
	}
	defer rows.Close()

	var out []domain.Scenario
	for rows.Next() {
		var sc domain.Scenario
		var inflation, returns, rules, capStr string
		var regional, cushion, taxSale, taxDiv sql.NullString
		if err := rows.Scan(&sc.Name, &inflation, &regional, &cushion, &taxSale, &taxDiv,
			&returns, &rules, &capStr, &sc.IsDefault); err != nil {
			return nil, fmt.Errorf("scan scenario: %w", err)
		}
		if sc.Inflation, err = decimal.NewFromString(inflation); err != nil {
			return nil, fmt.Errorf("scenario %q inflation: %w", sc.Name, err)
		}
		if sc.FidelisCap, err = decimal.NewFromString(capStr); err != nil {
			return nil, fmt.Errorf("scenario %q fidelis cap: %w", sc.Name, err)
		}
		if sc.RegionalInflation, err = nullDecimal(regional, decimal.Zero); err != nil {
			return nil, fmt.Errorf("scenario %q regional_inflation: %w", sc.Name, err)
		}
		if sc.GrowthCushion, err = nullDecimal(cushion, domain.DefaultGrowthCushion()); err != nil {
			return nil, fmt.Errorf("scenario %q growth_cushion: %w", sc.Name, err)
		}
		if sc.TaxOnSaleProceeds, err = nullDecimal(taxSale, decimal.Zero); err != nil {
			return nil, fmt.Errorf("scenario %q tax_on_sale_proceeds: %w", sc.Name, err)
		}
		if sc.TaxOnDividends, err = nullDecimal(taxDiv, decimal.Zero); err != nil {
			return nil, fmt.Errorf("scenario %q tax_on_dividends: %w", sc.Name, err)
		}
		if sc.AssetReturns, err = decodeAssetReturns(gjson.Parse(returns)); err != nil {
			return nil, fmt.Errorf("scenario %q: %w", sc.Name, err)
		}
		if sc.TrimRules, err = decodeTrimRules(gjson.Parse(rules)); err != nil {
			return nil, fmt.Errorf("scenario %q: %w", sc.Name, err)
		}
		out = append(out, sc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate scenarios: %w", err)
	}
	return out, nil
}

// nullDecimal parses an optional column. Only NULL or empty values take the fallback.
func nullDecimal(v sql.NullString, fallback decimal.Decimal) (decimal.Decimal, error) {
	if !v.Valid || v.String == "" {
		return fallback, nil
	}
	return decimal.NewFromString(v.String)
}

// Clear deletes all portfolios and scenarios.
func (s *SQLiteStore) Clear(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.ready(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()
	for _, table := range []string{"portfolios", "scenarios"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}
	return tx.Commit()
}

// Close closes the SQLite handle.
func (s *SQLiteStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}
