// File: internal/ingest/csv.go

// Package ingest reads crawl targets out of operator-supplied CSV files.
// Real-world input sheets rarely agree on a column name, so the loader
// detects URL columns instead of demanding a schema.
package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
)

// urlHeaderKeywords mark a column as URL-bearing by name alone.
var urlHeaderKeywords = []string{"url", "link", "website", "site", "web"}

// sniffRows is how many leading rows the content sniff inspects per column.
const sniffRows = 10

// LoadURLs extracts every valid URL from the CSV at path. Column detection
// runs in three tiers: columns whose header contains a URL keyword, then
// columns whose leading rows contain "http", then the first column as a last
// resort. All columns matched by the winning tier contribute, column by
// column in sheet order. Rows that are not valid URLs are skipped, not
// errors.
func LoadURLs(path string, logger *zap.Logger) ([]string, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file %s: %w", path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	// Operator sheets are often ragged; take rows as they come.
	reader.FieldsPerRecord = -1

	rows, err := readAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to parse CSV file %s: %w", path, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("CSV file %s is empty", path)
	}

	header, body := rows[0], rows[1:]
	cols := detectURLColumns(header, body)
	logger.Debug("URL columns detected.", zap.Ints("columns", cols), zap.String("file", path))

	var urls []string
	for _, col := range cols {
		// The header row itself can be data when the sheet has no header;
		// a valid URL there is kept.
		if col < len(header) && IsValidURL(header[col]) {
			urls = append(urls, strings.TrimSpace(header[col]))
		}
		for _, row := range body {
			if col >= len(row) {
				continue
			}
			if v := strings.TrimSpace(row[col]); IsValidURL(v) {
				urls = append(urls, v)
			}
		}
	}

	logger.Info("URLs loaded from CSV.", zap.Int("count", len(urls)), zap.String("file", path))
	return urls, nil
}

func readAll(reader *csv.Reader) ([][]string, error) {
	var rows [][]string
	for {
		row, err := reader.Read()
		if err == io.EOF {
			return rows, nil
		}
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
}

// detectURLColumns applies the three detection tiers and returns the column
// indexes of the first tier that matched anything.
func detectURLColumns(header []string, body [][]string) []int {
	var byHeader []int
	for i, name := range header {
		lower := strings.ToLower(name)
		for _, kw := range urlHeaderKeywords {
			if strings.Contains(lower, kw) {
				byHeader = append(byHeader, i)
				break
			}
		}
	}
	if len(byHeader) > 0 {
		return byHeader
	}

	width := len(header)
	for _, row := range body {
		if len(row) > width {
			width = len(row)
		}
	}

	var byContent []int
	for col := 0; col < width; col++ {
		for r := 0; r < len(body) && r < sniffRows; r++ {
			if col < len(body[r]) && strings.Contains(strings.ToLower(body[r][col]), "http") {
				byContent = append(byContent, col)
				break
			}
		}
	}
	if len(byContent) > 0 {
		return byContent
	}

	if width > 0 {
		return []int{0}
	}
	return nil
}

// IsValidURL accepts only absolute http/https URLs.
func IsValidURL(url string) bool {
	url = strings.TrimSpace(url)
	return strings.HasPrefix(url, "http://") || strings.HasPrefix(url, "https://")
}
