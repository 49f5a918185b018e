// File: internal/reporting/reporter.go

// Package reporting persists per-page crawl artifacts: a JSON report of the
// discovered interaction elements and, when capture succeeded, a sibling
// screenshot sharing the same filename stem.
package reporting

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"

	"github.com/votelens/votelens/api/schemas"
)

// Element text and HTML excerpts must land in the report verbatim; HTML
// escaping would mangle the multilingual keyword matches.
var reportJSON = jsoniter.Config{
	EscapeHTML:    false,
	IndentionStep: 2,
	SortMapKeys:   true,
}.Froze()

const timestampLayout = "20060102_150405"

// Writer writes page reports into a single output directory.
type Writer struct {
	dir    string
	logger *zap.Logger
}

// NewWriter creates the output directory if needed.
func NewWriter(dir string, logger *zap.Logger) (*Writer, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory %s: %w", dir, err)
	}
	return &Writer{dir: dir, logger: logger}, nil
}

// WritePage persists one page's report, and its screenshot when non-empty,
// under a shared stem of the form <index>_<domain>_<timestamp>. The JSON
// report is the primary artifact; a screenshot write failure is logged but
// does not fail the call.
func (w *Writer) WritePage(report *schemas.PageReport, index int, screenshot []byte) (string, error) {
	stem := Stem(index, report.URL, report.Timestamp)

	data, err := reportJSON.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode page report: %w", err)
	}
	jsonPath := filepath.Join(w.dir, stem+".json")
	if err := os.WriteFile(jsonPath, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write page report %s: %w", jsonPath, err)
	}

	if len(screenshot) > 0 {
		pngPath := filepath.Join(w.dir, stem+".png")
		if err := os.WriteFile(pngPath, screenshot, 0o644); err != nil {
			w.logger.Warn("Screenshot write failed; report kept.",
				zap.String("path", pngPath), zap.Error(err))
		}
	}

	w.logger.Info("Page report written.",
		zap.String("path", jsonPath),
		zap.Int("elements", report.ElementCount),
	)
	return jsonPath, nil
}

// Stem builds the shared filename stem for a page's artifacts.
func Stem(index int, pageURL string, ts time.Time) string {
	return fmt.Sprintf("%d_%s_%s", index, ExtractDomain(pageURL), ts.Format(timestampLayout))
}

// ExtractDomain reduces a URL to a filesystem-safe domain token, with dots
// flattened to underscores. A URL that does not parse degrades to a crude
// scheme-strip rather than failing, since the token is cosmetic.
func ExtractDomain(pageURL string) string {
	if u, err := url.Parse(pageURL); err == nil && u.Host != "" {
		return strings.ReplaceAll(u.Host, ".", "_")
	}
	trimmed := pageURL
	if _, rest, ok := strings.Cut(trimmed, "//"); ok {
		trimmed = rest
	}
	trimmed, _, _ = strings.Cut(trimmed, "/")
	return strings.ReplaceAll(trimmed, ".", "_")
}
