// Package export renders tabular datasets as downloadable documents.
package export

import (
	"fmt"
	"strings"
)

// Supported formats.
const (
	FormatCSV = "csv"
	FormatPDF = "pdf"
)

// Dataset defines tabular export content. Rows are keyed by header.
type Dataset struct {
	Title   string
	Headers []string
	Rows    []map[string]string
}

// Renderer turns a dataset into a document body.
type Renderer interface {
	Render(data Dataset) ([]byte, error)
	ContentType() string
	Extension() string
}

// ForFormat resolves a renderer by its (case-insensitive) format name.
func ForFormat(format string) (Renderer, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", FormatCSV:
		return NewCSVExporter(), nil
	case FormatPDF:
		return NewPDFExporter(), nil
	default:
		return nil, fmt.Errorf("unsupported export format %q", format)
	}
}

func record(data Dataset, row map[string]string) []string {
	out := make([]string, len(data.Headers))
	for i, header := range data.Headers {
		out[i] = row[header]
	}
	return out
}
