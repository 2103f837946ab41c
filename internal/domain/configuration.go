package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// SimulationSettings holds run-wide options read from a configuration file.
type SimulationSettings struct {
	HorizonYears int              `yaml:"horizon_years" json:"horizon_years"`
	StartYear    int              `yaml:"start_year,omitempty" json:"start_year,omitempty"`
	SoftCap      *decimal.Decimal `yaml:"soft_cap,omitempty" json:"soft_cap,omitempty"`
}

// Configuration represents the complete input configuration
type Configuration struct {
	Portfolios      []Portfolio        `yaml:"portfolios" json:"portfolios"`
	Scenarios       []Scenario         `yaml:"scenarios" json:"scenarios"`
	DefaultScenario string             `yaml:"default_scenario,omitempty" json:"default_scenario,omitempty"`
	Simulation      SimulationSettings `yaml:"simulation" json:"simulation"`
}

// FindScenario looks a scenario up by name. An empty name selects the default scenario: the
// one named by DefaultScenario, then the first flagged IsDefault, then the first in the list.
func (c *Configuration) FindScenario(name string) (*Scenario, error) {
	if name == "" {
		name = c.DefaultScenario
	}
	if name == "" {
		for i := range c.Scenarios {
			if c.Scenarios[i].IsDefault {
				return &c.Scenarios[i], nil
			}
		}
		if len(c.Scenarios) > 0 {
			return &c.Scenarios[0], nil
		}
		return nil, fmt.Errorf("no scenarios configured")
	}
	for i := range c.Scenarios {
		if c.Scenarios[i].Name == name {
			return &c.Scenarios[i], nil
		}
	}
	return nil, fmt.Errorf("scenario %q not found", name)
}

// FindPortfolio looks a portfolio up by ID, falling back to a name match.
func (c *Configuration) FindPortfolio(key string) (*Portfolio, error) {
	for i := range c.Portfolios {
		if c.Portfolios[i].ID == key {
			return &c.Portfolios[i], nil
		}
	}
	for i := range c.Portfolios {
		if c.Portfolios[i].Name == key {
			return &c.Portfolios[i], nil
		}
	}
	return nil, fmt.Errorf("portfolio %q not found", key)
}
