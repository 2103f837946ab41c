package config

import (
	"fmt"
	"os"

	"github.com/portsim/portfolio-simulator/internal/calculation"
	"github.com/portsim/portfolio-simulator/internal/domain"
	"gopkg.in/yaml.v3"
)

// InputParser handles parsing of input configuration files
type InputParser struct{}

// NewInputParser creates a new input parser
func NewInputParser() *InputParser {
	return &InputParser{}
}

// LoadFromFile loads configuration from a YAML or JSON file
func (ip *InputParser) LoadFromFile(filename string) (*domain.Configuration, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	return ip.Parse(data)
}

// Parse decodes, defaults and validates a configuration document.
func (ip *InputParser) Parse(data []byte) (*domain.Configuration, error) {
	var config domain.Configuration
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	// Presence of growth_cushion cannot be read back from a zero decimal.
	var presence struct {
		Scenarios []map[string]any `yaml:"scenarios"`
	}
	if err := yaml.Unmarshal(data, &presence); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	ip.applyDefaults(&config, presence.Scenarios)

	if err := ip.ValidateConfiguration(&config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &config, nil
}

func (ip *InputParser) applyDefaults(config *domain.Configuration, rawScenarios []map[string]any) {
	for i := range config.Scenarios {
		if i < len(rawScenarios) {
			if _, ok := rawScenarios[i]["growth_cushion"]; ok {
				continue
			}
		}
		config.Scenarios[i].GrowthCushion = domain.DefaultGrowthCushion()
	}
	for i := range config.Portfolios {
		if config.Portfolios[i].Currency == "" {
			config.Portfolios[i].Currency = domain.DefaultCurrency
		}
		if config.Portfolios[i].Strategy.Overperformance == "" {
			config.Portfolios[i].Strategy.Overperformance = domain.OverperformanceWithdraw
		}
	}
	if config.Simulation.HorizonYears == 0 {
		config.Simulation.HorizonYears = calculation.DefaultHorizonYears
	}
}

// ValidateConfiguration validates the loaded configuration
func (ip *InputParser) ValidateConfiguration(config *domain.Configuration) error {
	if len(config.Portfolios) == 0 {
		return fmt.Errorf("no portfolios provided")
	}
	if len(config.Scenarios) == 0 {
		return fmt.Errorf("no scenarios provided")
	}

	seenPortfolios := make(map[string]bool, len(config.Portfolios))
	for i := range config.Portfolios {
		p := &config.Portfolios[i]
		if p.ID == "" {
			return fmt.Errorf("portfolio %d: id is required", i)
		}
		if seenPortfolios[p.ID] {
			return fmt.Errorf("portfolio %q: duplicate id", p.ID)
		}
		seenPortfolios[p.ID] = true
		if err := ip.validatePortfolio(p); err != nil {
			return fmt.Errorf("portfolio %q validation failed: %w", p.ID, err)
		}
	}

	seenScenarios := make(map[string]bool, len(config.Scenarios))
	for i := range config.Scenarios {
		s := &config.Scenarios[i]
		if s.Name == "" {
			return fmt.Errorf("scenario %d: name is required", i)
		}
		if seenScenarios[s.Name] {
			return fmt.Errorf("scenario %q: duplicate name", s.Name)
		}
		seenScenarios[s.Name] = true
		if err := calculation.ValidateScenario(s); err != nil {
			return fmt.Errorf("scenario %q validation failed: %w", s.Name, err)
		}
	}
	if config.DefaultScenario != "" && !seenScenarios[config.DefaultScenario] {
		return fmt.Errorf("default scenario %q is not defined", config.DefaultScenario)
	}

	return ip.validateSimulation(&config.Simulation)
}

func (ip *InputParser) validatePortfolio(p *domain.Portfolio) error {
	if err := calculation.ValidatePortfolio(p); err != nil {
		return err
	}
	switch p.Strategy.Overperformance {
	case "", domain.OverperformanceWithdraw, domain.OverperformanceReinvest:
	default:
		return fmt.Errorf("overperformance strategy must be 'withdraw' or 'reinvest', got %q", p.Strategy.Overperformance)
	}
	if p.Strategy.OverperformanceThreshold.IsNegative() {
		return domain.NewParameterError("strategy.overperformance_threshold", p.Strategy.OverperformanceThreshold, "cannot be negative")
	}
	return nil
}

func (ip *InputParser) validateSimulation(settings *domain.SimulationSettings) error {
	if err := calculation.ValidateHorizon(settings.HorizonYears); err != nil {
		return fmt.Errorf("simulation: %w", err)
	}
	if settings.StartYear < 0 {
		return fmt.Errorf("simulation: start year cannot be negative")
	}
	if settings.SoftCap != nil && settings.SoftCap.IsNegative() {
		return fmt.Errorf("simulation: %w", domain.NewParameterError("soft_cap", *settings.SoftCap, "cannot be negative"))
	}
	return nil
}

// CreateExampleConfiguration creates an example configuration with the preset scenarios
func (ip *InputParser) CreateExampleConfiguration() *domain.Configuration {
	return &domain.Configuration{
		Portfolios:      ExamplePortfolios(),
		Scenarios:       Presets(),
		DefaultScenario: PresetAverage,
		Simulation: domain.SimulationSettings{
			HorizonYears: calculation.DefaultHorizonYears,
		},
	}
}
