package storage

import (
	"testing"

	"github.com/portsim/portfolio-simulator/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeScenario_NamingConventions(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{
			name: "camelCase",
			doc: `{"name":"Average","inflation":0.03,"growthCushion":0.015,"taxOnDividends":0.05,
				"assetReturns":{"vwce":0.07,"ernx":0.04,"ernxYield":0.03,"wqdv":0.06,"wqdvYield":0.035,"fidelis":0.06},
				"trimRules":{"vwce":{"enabled":true,"threshold":0.01}},"fidelisCap":30000,"isDefault":true}`,
		},
		{
			name: "snake_case",
			doc: `{"name":"Average","inflation":"0.03","growth_cushion":"0.015","tax_on_dividends":0.05,
				"asset_returns":{"vwce":"0.07","ernx":0.04,"ernx_yield":0.03,"wqdv":0.06,"wqdv_yield":0.035,"fidelis":0.06},
				"trim_rules":{"vwce":{"enabled":true,"threshold":"0.01"}},"fidelis_cap":"30000","is_default":true}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := DecodeScenario([]byte(tt.doc))
			require.NoError(t, err)
			assert.Equal(t, "Average", s.Name)
			assert.True(t, s.IsDefault)
			assert.True(t, s.Inflation.Equal(decimal.NewFromFloat(0.03)))
			assert.True(t, s.GrowthCushion.Equal(decimal.NewFromFloat(0.015)))
			assert.True(t, s.TaxOnDividends.Equal(decimal.NewFromFloat(0.05)))
			assert.True(t, s.AssetReturns.ERNXYield.Equal(decimal.NewFromFloat(0.03)))
			assert.True(t, s.AssetReturns.WQDVYield.Equal(decimal.NewFromFloat(0.035)))
			assert.True(t, s.FidelisCap.Equal(decimal.NewFromInt(30000)))
			rule := s.TrimRuleFor(domain.VWCE)
			assert.True(t, rule.Enabled)
			assert.True(t, rule.Threshold.Equal(decimal.NewFromFloat(0.01)))
		})
	}
}

func TestDecodeScenario_LegacyCashflowIdentifier(t *testing.T) {
	doc := `{"name":"Old","inflation":0.03,"fidelisCap":0,
		"assetReturns":{"vwce":0.07,"vhyl":0.055,"vhylYield":0.03},
		"trimRules":{"vhyl":{"enabled":true,"threshold":0}}}`

	s, err := DecodeScenario([]byte(doc))
	require.NoError(t, err)
	assert.True(t, s.AssetReturns.WQDV.Equal(decimal.NewFromFloat(0.055)))
	assert.True(t, s.AssetReturns.WQDVYield.Equal(decimal.NewFromFloat(0.03)))
	assert.True(t, s.TrimRuleFor(domain.WQDV).Enabled)
	_, legacy := s.TrimRules["vhyl"]
	assert.False(t, legacy)
}

func TestDecodeScenario_DefaultsGrowthCushion(t *testing.T) {
	s, err := DecodeScenario([]byte(`{"name":"Bare","inflation":0.02,"fidelisCap":1000}`))
	require.NoError(t, err)
	assert.True(t, s.GrowthCushion.Equal(domain.DefaultGrowthCushion()))
	assert.Empty(t, s.TrimRules)
}

func TestDecodeScenario_Errors(t *testing.T) {
	tests := []struct {
		name  string
		doc   string
		errIs error
	}{
		{name: "invalid json", doc: `{"name":`},
		{name: "missing name", doc: `{"inflation":0.03,"fidelisCap":0}`},
		{name: "missing inflation", doc: `{"name":"x","fidelisCap":0}`, errIs: domain.ErrInvalidScenarioParameter},
		{name: "nan string", doc: `{"name":"x","inflation":"NaN","fidelisCap":0}`, errIs: domain.ErrInvalidScenarioParameter},
		{name: "infinite return", doc: `{"name":"x","inflation":0.03,"fidelisCap":0,"assetReturns":{"vwce":"+Inf"}}`, errIs: domain.ErrInvalidScenarioParameter},
		{name: "not a number", doc: `{"name":"x","inflation":true,"fidelisCap":0}`, errIs: domain.ErrInvalidScenarioParameter},
		{name: "unknown trim bucket", doc: `{"name":"x","inflation":0.03,"fidelisCap":0,"trimRules":{"gold":{"enabled":true}}}`, errIs: domain.ErrInvalidScenarioParameter},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeScenario([]byte(tt.doc))
			require.Error(t, err)
			if tt.errIs != nil {
				assert.ErrorIs(t, err, tt.errIs)
			}
		})
	}
}

func TestDecodePortfolio(t *testing.T) {
	doc := `{"id":"p1","name":"Income","color":"#fff","capital":150000,"riskLabel":"Risk: Medium",
		"allocation":{"vwce":50,"vhyl":30,"fidelis":20},
		"rules":{"tvbetetfConditional":true},
		"strategy":{"overperformanceStrategy":"reinvest","overperformanceThreshold":0.02}}`

	p, err := DecodePortfolio([]byte(doc))
	require.NoError(t, err)
	assert.Equal(t, "p1", p.ID)
	assert.Equal(t, "Risk: Medium", p.RiskLabel)
	assert.Equal(t, domain.DefaultCurrency, p.Currency)
	assert.True(t, p.Capital.Equal(decimal.NewFromInt(150000)))
	assert.True(t, p.Allocation.Weight(domain.WQDV).Equal(decimal.NewFromInt(30)))
	assert.True(t, p.Rules.TVBETETFConditional)
	assert.True(t, p.Strategy.Reinvests())
	assert.True(t, p.Strategy.OverperformanceThreshold.Equal(decimal.NewFromFloat(0.02)))

	snake, err := DecodePortfolio([]byte(`{"id":"p2","capital":"10","risk_label":"low","allocation":{"ernx":100},
		"rules":{"tvbetetf_conditional":false},"strategy":{"overperformance_strategy":"withdraw"}}`))
	require.NoError(t, err)
	assert.Equal(t, "low", snake.RiskLabel)
	assert.False(t, snake.Strategy.Reinvests())

	_, err = DecodePortfolio([]byte(`{"id":"p3","capital":10,"allocation":{"gold":100}}`))
	assert.ErrorIs(t, err, domain.ErrInvalidScenarioParameter)

	_, err = DecodePortfolio([]byte(`{"name":"no id","capital":10}`))
	assert.Error(t, err)
}

func TestDecodeSnapshot(t *testing.T) {
	doc := `{
		"portfolios":[{"id":"a","name":"A","capital":1000,"allocation":{"vwce":100}}],
		"scenarios":[
			{"name":"Pessimistic","inflation":0.05,"fidelisCap":30000},
			{"name":"Average","inflation":0.03,"fidelisCap":30000}
		],
		"default_scenario_id":"Average"
	}`

	snap, err := DecodeSnapshot([]byte(doc))
	require.NoError(t, err)
	require.Len(t, snap.Portfolios, 1)
	require.Len(t, snap.Scenarios, 2)
	assert.Equal(t, "Average", snap.DefaultScenario)

	flagged, err := DecodeSnapshot([]byte(`{"portfolios":[],"scenarios":[{"name":"Only","inflation":0.03,"fidelis_cap":0,"is_default":true}]}`))
	require.NoError(t, err)
	assert.Equal(t, "Only", flagged.DefaultScenario)
}
