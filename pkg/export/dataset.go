package export

// Dataset defines tabular export content. Rows are keyed by header name so
// renderers stay order-stable regardless of map iteration.
type Dataset struct {
	Headers []string
	Rows    []map[string]string

	// Summary is an optional block rendered apart from the data rows: a
	// second sheet for XLSX, a trailing section for CSV/PDF.
	Summary *Section
}

// Section is a titled sub-table appended to a dataset.
type Section struct {
	Title   string
	Headers []string
	Rows    []map[string]string
}

// Record flattens a row into header order.
func Record(headers []string, row map[string]string) []string {
	record := make([]string, len(headers))
	for i, header := range headers {
		record[i] = row[header]
	}
	return record
}
