package output

import (
	"fmt"
	"os"
	"strings"

	"github.com/portsim/portfolio-simulator/internal/domain"
	"gopkg.in/yaml.v3"
)

// GenerateReport writes the comparison in the named format to a timestamped file in dir and
// returns the paths written. "all" writes the verbose console report and the detailed CSV.
func GenerateReport(results *domain.Comparison, format, dir string) ([]string, error) {
	if strings.EqualFold(strings.TrimSpace(format), "all") {
		var written []string
		for _, f := range []Formatter{ConsoleVerboseFormatter{}, CSVDetailedExporter{}} {
			path, err := WriteFormatted(f, results, dir)
			if err != nil {
				return written, err
			}
			written = append(written, path)
		}
		return written, nil
	}

	f := GetFormatterByName(format)
	if f == nil {
		return nil, fmt.Errorf("%w: %q. Try one of: %s (aliases: %s)", ErrUnsupportedFormat, format,
			strings.Join(AvailableFormatterNames(), ", "), strings.Join(AvailableFormatAliases(), ", "))
	}
	path, err := WriteFormatted(f, results, dir)
	if err != nil {
		return nil, err
	}
	return []string{path}, nil
}

// SaveConfiguration writes a configuration as YAML.
func SaveConfiguration(config *domain.Configuration, filename string) error {
	b, err := yaml.Marshal(config)
	if err != nil {
		return err
	}
	return os.WriteFile(filename, b, 0o644)
}
