package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
)

// CSVExporter renders Dataset records into CSV bytes.
type CSVExporter struct{}

// NewCSVExporter builds a CSV exporter.
func NewCSVExporter() *CSVExporter {
	return &CSVExporter{}
}

// Render produces CSV encoded bytes for the dataset. The summary section, when
// present, is appended after one blank row.
func (e *CSVExporter) Render(data Dataset) ([]byte, error) {
	if len(data.Headers) == 0 {
		return nil, fmt.Errorf("csv requires at least one header")
	}
	buf := &bytes.Buffer{}
	writer := csv.NewWriter(buf)
	if err := writer.Write(data.Headers); err != nil {
		return nil, fmt.Errorf("write csv headers: %w", err)
	}
	for _, row := range data.Rows {
		if err := writer.Write(Record(data.Headers, row)); err != nil {
			return nil, fmt.Errorf("write csv row: %w", err)
		}
	}
	if data.Summary != nil {
		if err := writer.Write([]string{}); err != nil {
			return nil, fmt.Errorf("write csv separator: %w", err)
		}
		if data.Summary.Title != "" {
			if err := writer.Write([]string{data.Summary.Title}); err != nil {
				return nil, fmt.Errorf("write csv summary title: %w", err)
			}
		}
		if err := writer.Write(data.Summary.Headers); err != nil {
			return nil, fmt.Errorf("write csv summary headers: %w", err)
		}
		for _, row := range data.Summary.Rows {
			if err := writer.Write(Record(data.Summary.Headers, row)); err != nil {
				return nil, fmt.Errorf("write csv summary row: %w", err)
			}
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}
