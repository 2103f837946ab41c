package output

import (
	"encoding/json"

	"github.com/portsim/portfolio-simulator/internal/domain"
)

// JSONFormatter serializes the portfolio comparison as pretty-printed JSON.
type JSONFormatter struct{}

func (j JSONFormatter) Name() string { return "json" }

func (j JSONFormatter) Format(results *domain.Comparison) ([]byte, error) {
	return json.MarshalIndent(results, "", "  ")
}
