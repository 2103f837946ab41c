package output

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/portsim/portfolio-simulator/internal/calculation"
	"github.com/portsim/portfolio-simulator/internal/config"
	"github.com/portsim/portfolio-simulator/internal/domain"
)

// TestEngineSnapshot pins ten nominal years of the balanced example portfolio.
func TestEngineSnapshot(t *testing.T) {
	scenario, ok := config.Preset(config.PresetAverage)
	if !ok {
		t.Fatalf("average preset missing")
	}
	var portfolio domain.Portfolio
	for _, p := range config.ExamplePortfolios() {
		if p.ID == "balanced" {
			portfolio = p
		}
	}

	eng := calculation.NewEngineWithStartYear(2025)
	res, err := eng.Compare(context.Background(), []domain.Portfolio{portfolio}, &scenario, 10)
	if err != nil {
		t.Fatalf("compare: %v", err)
	}

	type year struct {
		Year    int    `json:"year"`
		Capital string `json:"capital"`
		Income  string `json:"income"`
	}
	var out struct {
		Scenario  string `json:"scenario"`
		Portfolio string `json:"portfolio"`
		Years     []year `json:"years"`
	}
	out.Scenario = res.Scenario.Name
	out.Portfolio = res.Results[0].PortfolioName
	for _, y := range res.Results[0].Years {
		out.Years = append(out.Years, year{Year: y.Year, Capital: y.Capital.StringFixed(2), Income: y.Income.Total.StringFixed(2)})
	}
	data, _ := json.MarshalIndent(out, "", "  ")

	goldenPath := filepath.Join("testdata", "engine_snapshot.golden.json")
	if os.Getenv("UPDATE_GOLDEN") == "1" {
		if err := os.WriteFile(goldenPath, append(data, '\n'), 0644); err != nil {
			t.Fatalf("write golden: %v", err)
		}
	}
	golden, err := os.ReadFile(goldenPath)
	if err != nil {
		t.Fatalf("read golden: %v", err)
	}
	if strings.TrimSpace(string(golden)) != strings.TrimSpace(string(data)) {
		t.Fatalf("engine snapshot drift; run UPDATE_GOLDEN=1 to accept\n--- have ---\n%s\n--- want ---\n%s", string(data), string(golden))
	}
}
