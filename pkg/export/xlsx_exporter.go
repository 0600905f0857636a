package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// XLSXExporter renders datasets into an Excel workbook with the data on the
// primary sheet and the summary section on its own sheet.
type XLSXExporter struct {
	SheetName   string
	SummaryName string
}

// NewXLSXExporter constructs an XLSX exporter with default sheet names.
func NewXLSXExporter() *XLSXExporter {
	return &XLSXExporter{SheetName: "Data", SummaryName: "Ringkasan"}
}

// Render produces the workbook bytes.
func (e *XLSXExporter) Render(data Dataset) ([]byte, error) {
	if len(data.Headers) == 0 {
		return nil, fmt.Errorf("xlsx requires at least one header")
	}

	sheet := e.SheetName
	if sheet == "" {
		sheet = "Data"
	}

	f := excelize.NewFile()
	defer f.Close() //nolint:errcheck

	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}
	if err := writeSheet(f, sheet, data.Headers, data.Rows); err != nil {
		return nil, err
	}

	if data.Summary != nil {
		summarySheet := e.SummaryName
		if summarySheet == "" {
			summarySheet = "Ringkasan"
		}
		if _, err := f.NewSheet(summarySheet); err != nil {
			return nil, fmt.Errorf("create summary sheet: %w", err)
		}
		if err := writeSheet(f, summarySheet, data.Summary.Headers, data.Summary.Rows); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("render xlsx: %w", err)
	}
	return buf.Bytes(), nil
}

func writeSheet(f *excelize.File, sheet string, headers []string, rows []map[string]string) error {
	if err := f.SetSheetRow(sheet, "A1", &headers); err != nil {
		return fmt.Errorf("write xlsx headers: %w", err)
	}
	for i, row := range rows {
		record := Record(headers, row)
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("cell name: %w", err)
		}
		if err := f.SetSheetRow(sheet, cell, &record); err != nil {
			return fmt.Errorf("write xlsx row %d: %w", i+2, err)
		}
	}
	return nil
}
