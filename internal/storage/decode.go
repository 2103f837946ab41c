package storage

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/portsim/portfolio-simulator/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/tidwall/gjson"
)

// legacyAssetIDs maps identifiers written by older versions to the current bucket.
var legacyAssetIDs = map[string]domain.Asset{
	"vhyl": domain.WQDV,
}

// first returns the first of the given keys present on obj. Documents arrive in camelCase
// from the web client and in snake_case from the database layer.
func first(obj gjson.Result, keys ...string) gjson.Result {
	for _, k := range keys {
		if r := obj.Get(k); r.Exists() {
			return r
		}
	}
	return gjson.Result{}
}

func decodeDecimal(field string, r gjson.Result) (decimal.Decimal, error) {
	switch r.Type {
	case gjson.Null:
		return decimal.Zero, nil
	case gjson.Number:
		if v, err := decimal.NewFromString(r.Raw); err == nil {
			return v, nil
		}
		return domain.RateFromFloat(field, r.Num)
	case gjson.String:
		s := strings.TrimSpace(r.Str)
		if v, err := decimal.NewFromString(s); err == nil {
			return v, nil
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return domain.RateFromFloat(field, f)
		}
	}
	return decimal.Zero, &domain.ParameterError{Field: field, Value: r.Raw, Reason: "not a number"}
}

// optionalDecimal decodes the first present key, reporting whether any was found.
func optionalDecimal(obj gjson.Result, field string, keys ...string) (decimal.Decimal, bool, error) {
	r := first(obj, keys...)
	if !r.Exists() || r.Type == gjson.Null {
		return decimal.Zero, false, nil
	}
	v, err := decodeDecimal(field, r)
	return v, true, err
}

func requiredDecimal(obj gjson.Result, field string, keys ...string) (decimal.Decimal, error) {
	v, ok, err := optionalDecimal(obj, field, keys...)
	if err != nil {
		return decimal.Zero, err
	}
	if !ok {
		return decimal.Zero, &domain.ParameterError{Field: field, Value: "", Reason: "is required"}
	}
	return v, nil
}

func canonicalAsset(key string) (domain.Asset, error) {
	if a, ok := legacyAssetIDs[key]; ok {
		return a, nil
	}
	return domain.ParseAsset(key)
}

// DecodePortfolio reads a portfolio document in either naming convention.
func DecodePortfolio(raw []byte) (domain.Portfolio, error) {
	if !gjson.ValidBytes(raw) {
		return domain.Portfolio{}, fmt.Errorf("decode portfolio: invalid JSON")
	}
	return decodePortfolio(gjson.ParseBytes(raw))
}

func decodePortfolio(doc gjson.Result) (domain.Portfolio, error) {
	p := domain.Portfolio{
		ID:        first(doc, "id").String(),
		Name:      first(doc, "name").String(),
		Color:     first(doc, "color").String(),
		Currency:  first(doc, "currency").String(),
		Goal:      first(doc, "goal").String(),
		RiskLabel: first(doc, "riskLabel", "risk_label").String(),
		Horizon:   first(doc, "horizon").String(),
	}
	if p.ID == "" {
		return domain.Portfolio{}, fmt.Errorf("decode portfolio: id is required")
	}
	if p.Currency == "" {
		p.Currency = domain.DefaultCurrency
	}

	var err error
	if p.Capital, err = requiredDecimal(doc, "capital", "capital"); err != nil {
		return domain.Portfolio{}, fmt.Errorf("decode portfolio %q: %w", p.ID, err)
	}
	if p.Allocation, err = decodeAllocation(first(doc, "allocation")); err != nil {
		return domain.Portfolio{}, fmt.Errorf("decode portfolio %q: %w", p.ID, err)
	}

	rules := first(doc, "rules")
	p.Rules.TVBETETFConditional = first(rules, "tvbetetfConditional", "tvbetetf_conditional").Bool()

	strategy := first(doc, "strategy")
	p.Strategy.Overperformance = domain.OverperformanceStrategy(
		first(strategy, "overperformanceStrategy", "overperformance_strategy").String())
	if p.Strategy.Overperformance == "" {
		p.Strategy.Overperformance = domain.OverperformanceWithdraw
	}
	if p.Strategy.OverperformanceThreshold, _, err = optionalDecimal(strategy,
		"strategy.overperformance_threshold", "overperformanceThreshold", "overperformance_threshold"); err != nil {
		return domain.Portfolio{}, fmt.Errorf("decode portfolio %q: %w", p.ID, err)
	}
	return p, nil
}

func decodeAllocation(obj gjson.Result) (domain.Allocation, error) {
	alloc := domain.Allocation{}
	var err error
	obj.ForEach(func(key, value gjson.Result) bool {
		var asset domain.Asset
		asset, err = canonicalAsset(key.String())
		if err != nil {
			err = &domain.ParameterError{Field: "allocation", Value: key.String(), Reason: "unknown bucket"}
			return false
		}
		var w decimal.Decimal
		if w, err = decodeDecimal("allocation."+string(asset), value); err != nil {
			return false
		}
		alloc[asset] = alloc.Weight(asset).Add(w)
		return true
	})
	if err != nil {
		return nil, err
	}
	return alloc, nil
}

// DecodeScenario reads a scenario document in either naming convention, mapping legacy bucket
// identifiers and applying the adapter defaults.
func DecodeScenario(raw []byte) (domain.Scenario, error) {
	if !gjson.ValidBytes(raw) {
		return domain.Scenario{}, fmt.Errorf("decode scenario: invalid JSON")
	}
	return decodeScenario(gjson.ParseBytes(raw))
}

func decodeScenario(doc gjson.Result) (domain.Scenario, error) {
	s := domain.Scenario{
		Name:      first(doc, "name", "id").String(),
		IsDefault: first(doc, "isDefault", "is_default").Bool(),
	}
	if s.Name == "" {
		return domain.Scenario{}, fmt.Errorf("decode scenario: name is required")
	}
	wrap := func(err error) (domain.Scenario, error) {
		return domain.Scenario{}, fmt.Errorf("decode scenario %q: %w", s.Name, err)
	}

	var err error
	var ok bool
	if s.Inflation, err = requiredDecimal(doc, "inflation", "inflation"); err != nil {
		return wrap(err)
	}
	if s.RegionalInflation, _, err = optionalDecimal(doc, "regional_inflation", "regionalInflation", "regional_inflation"); err != nil {
		return wrap(err)
	}
	if s.GrowthCushion, ok, err = optionalDecimal(doc, "growth_cushion", "growthCushion", "growth_cushion"); err != nil {
		return wrap(err)
	} else if !ok {
		s.GrowthCushion = domain.DefaultGrowthCushion()
	}
	if s.TaxOnSaleProceeds, _, err = optionalDecimal(doc, "tax_on_sale_proceeds", "taxOnSaleProceeds", "tax_on_sale_proceeds"); err != nil {
		return wrap(err)
	}
	if s.TaxOnDividends, _, err = optionalDecimal(doc, "tax_on_dividends", "taxOnDividends", "tax_on_dividends"); err != nil {
		return wrap(err)
	}
	if s.FidelisCap, err = requiredDecimal(doc, "fidelis_cap", "fidelisCap", "fidelis_cap"); err != nil {
		return wrap(err)
	}
	if s.AssetReturns, err = decodeAssetReturns(first(doc, "assetReturns", "asset_returns")); err != nil {
		return wrap(err)
	}
	if s.TrimRules, err = decodeTrimRules(first(doc, "trimRules", "trim_rules")); err != nil {
		return wrap(err)
	}
	return s, nil
}

func decodeAssetReturns(obj gjson.Result) (domain.AssetReturns, error) {
	var r domain.AssetReturns
	targets := []struct {
		field string
		dst   *decimal.Decimal
		keys  []string
	}{
		{"asset_returns.vwce", &r.VWCE, []string{"vwce"}},
		{"asset_returns.tvbetetf", &r.TVBETETF, []string{"tvbetetf"}},
		{"asset_returns.ernx", &r.ERNX, []string{"ernx"}},
		{"asset_returns.ernx_yield", &r.ERNXYield, []string{"ernxYield", "ernx_yield"}},
		{"asset_returns.wqdv", &r.WQDV, []string{"wqdv", "vhyl"}},
		{"asset_returns.wqdv_yield", &r.WQDVYield, []string{"wqdvYield", "wqdv_yield", "vhylYield", "vhyl_yield"}},
		{"asset_returns.fidelis", &r.Fidelis, []string{"fidelis"}},
	}
	for _, t := range targets {
		v, _, err := optionalDecimal(obj, t.field, t.keys...)
		if err != nil {
			return domain.AssetReturns{}, err
		}
		*t.dst = v
	}
	return r, nil
}

func decodeTrimRules(obj gjson.Result) (map[domain.Asset]domain.TrimRule, error) {
	rules := map[domain.Asset]domain.TrimRule{}
	var err error
	obj.ForEach(func(key, value gjson.Result) bool {
		var asset domain.Asset
		if asset, err = canonicalAsset(key.String()); err != nil {
			err = &domain.ParameterError{Field: "trim_rules", Value: key.String(), Reason: "unknown bucket"}
			return false
		}
		rule := domain.TrimRule{Enabled: first(value, "enabled").Bool()}
		if rule.Threshold, _, err = optionalDecimal(value, "trim_rules."+string(asset)+".threshold", "threshold"); err != nil {
			return false
		}
		rules[asset] = rule
		return true
	})
	if err != nil {
		return nil, err
	}
	return rules, nil
}

// DecodeSnapshot reads an export document {portfolios, scenarios, default_scenario_id}.
func DecodeSnapshot(raw []byte) (*Snapshot, error) {
	if !gjson.ValidBytes(raw) {
		return nil, fmt.Errorf("decode snapshot: invalid JSON")
	}
	doc := gjson.ParseBytes(raw)
	snap := &Snapshot{
		DefaultScenario: first(doc, "default_scenario_id", "defaultScenarioId", "default_scenario").String(),
	}
	for _, item := range first(doc, "portfolios").Array() {
		p, err := decodePortfolio(item)
		if err != nil {
			return nil, err
		}
		snap.Portfolios = append(snap.Portfolios, p)
	}
	for _, item := range first(doc, "scenarios").Array() {
		s, err := decodeScenario(item)
		if err != nil {
			return nil, err
		}
		snap.Scenarios = append(snap.Scenarios, s)
	}
	if snap.DefaultScenario == "" {
		for _, s := range snap.Scenarios {
			if s.IsDefault {
				snap.DefaultScenario = s.Name
				break
			}
		}
	}
	return snap, nil
}
