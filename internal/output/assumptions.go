package output

import (
	"github.com/portsim/portfolio-simulator/internal/domain"
)

// DefaultAssumptions lists modeling rules that hold for every scenario.
var DefaultAssumptions = []string{
	"Yields are paid from the balance at the start of each year",
	"Trimmed excess returns are paid out unless the portfolio reinvests overperformance",
	"Real values divide nominal values by cumulative inflation",
}

// GenerateAssumptions returns the assumption lines rendered for a comparison. Explicit
// assumptions on the comparison win; otherwise they are derived from its scenario.
func GenerateAssumptions(results *domain.Comparison) []string {
	if results == nil {
		return DefaultAssumptions
	}
	if len(results.Assumptions) > 0 {
		return results.Assumptions
	}
	lines := results.Scenario.Assumptions()
	return append(lines, DefaultAssumptions...)
}
