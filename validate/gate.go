package validate

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
)

// GatePattern matches the documents subject to validation.
const GatePattern = "**/*.ttl"

// Gate walks a corpus and checks every document, collecting findings
// instead of stopping at the first failure.
type Gate struct {
	checker Checker
	logger  *slog.Logger
}

// NewGate creates a gate running the given checker.
func NewGate(checker Checker, logger *slog.Logger) *Gate {
	if logger == nil {
		logger = slog.Default()
	}
	return &Gate{checker: checker, logger: logger}
}

// Run validates every document under root and returns the aggregated
// report. Only unreadable trees produce an error; findings never do.
func (g *Gate) Run(root string) (*Report, error) {
	matches, err := doublestar.Glob(os.DirFS(root), GatePattern)
	if err != nil {
		return nil, fmt.Errorf("scan corpus %s: %w", root, err)
	}
	sort.Strings(matches)

	report := &Report{}
	for _, match := range matches {
		path := filepath.Join(root, filepath.FromSlash(match))
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		result := g.checker.Check(path, data)
		if !result.Conforms {
			g.logger.Debug("document has findings",
				slog.String("path", path),
				slog.Int("messages", len(result.Messages)))
		}
		report.Results = append(report.Results, FileResult{Path: path, Result: result})
	}
	return report, nil
}
