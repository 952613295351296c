package report

import (
	"fmt"
	"io"
	"math"

	"github.com/nao1215/regionreport/internal/model"
	"github.com/xuri/excelize/v2"
)

const (
	// XLSXSheetName is the name of the only sheet in the workbook.
	XLSXSheetName = "Report"

	// xlsxFixedTwoDecimals is the built-in number format "0.00".
	xlsxFixedTwoDecimals = 2
)

// XLSXWriter outputs the region report as an Excel workbook.
// The layout matches the CSV report, but numbers are stored as numeric
// cells with a two decimal display format instead of comma strings.
type XLSXWriter struct {
	baseWriter
}

// NewXLSXWriter creates an XLSXWriter that outputs to the given writer.
func NewXLSXWriter(output io.Writer) *XLSXWriter {
	return &XLSXWriter{
		baseWriter: newBaseWriter(output),
	}
}

// NewXLSXWriterFactory adapts NewXLSXWriter to WriterFactory.
func NewXLSXWriterFactory(output io.Writer) Writer {
	return NewXLSXWriter(output)
}

// Write builds the workbook for run.Reports and writes it to the output.
func (w *XLSXWriter) Write(run *model.Run) (int, error) {
	f := excelize.NewFile()
	defer f.Close() //nolint:errcheck // in-memory workbook

	if err := f.SetSheetName(f.GetSheetName(0), XLSXSheetName); err != nil {
		return 0, fmt.Errorf("failed to name sheet: %w", err)
	}

	header := make([]any, 0, len(ReportYears)+3)
	header = append(header, regionColumn, totalColumn)
	for _, year := range ReportYears {
		header = append(header, year)
	}
	header = append(header, averageColumn)
	if err := f.SetSheetRow(XLSXSheetName, "A1", &header); err != nil {
		return 0, fmt.Errorf("failed to write header: %w", err)
	}

	for i, r := range run.Reports {
		row := make([]any, 0, len(header))
		row = append(row, r.Region, cellNumber(r.Total))
		for _, year := range ReportYears {
			row = append(row, cellNumber(r.Value(year)))
		}
		row = append(row, cellNumber(r.Average()))

		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return 0, err
		}
		if err := f.SetSheetRow(XLSXSheetName, cell, &row); err != nil {
			return 0, fmt.Errorf("failed to write row for %q: %w", r.Region, err)
		}
	}

	if len(run.Reports) > 0 {
		if err := w.applyNumberFormat(f, len(header), len(run.Reports)+1); err != nil {
			return 0, err
		}
	}

	n, err := f.WriteTo(w.output)
	if err != nil {
		return int(n), fmt.Errorf("failed to write workbook: %w", err)
	}
	return int(n), nil
}

// applyNumberFormat sets the two decimal format on every numeric cell.
func (w *XLSXWriter) applyNumberFormat(f *excelize.File, columns, lastRow int) error {
	style, err := f.NewStyle(&excelize.Style{NumFmt: xlsxFixedTwoDecimals})
	if err != nil {
		return fmt.Errorf("failed to create number style: %w", err)
	}

	topLeft, err := excelize.CoordinatesToCellName(2, 2)
	if err != nil {
		return err
	}
	bottomRight, err := excelize.CoordinatesToCellName(columns, lastRow)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(XLSXSheetName, topLeft, bottomRight, style); err != nil {
		return fmt.Errorf("failed to apply number style: %w", err)
	}
	return nil
}

// cellNumber returns v for finite values and its text form otherwise,
// since workbooks cannot store non-finite numbers.
func cellNumber(v float64) any {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return FormatNumber(v)
	}
	return v
}
