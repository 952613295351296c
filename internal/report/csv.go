package report

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/nao1215/regionreport/internal/model"
)

// ReportYears are the years that get a column in the CSV report, in order.
// Records for other years still count toward totals and averages.
var ReportYears = []int{2003, 2004, 2005, 2006, 2007} //nolint:gochecknoglobals // fixed report layout

const (
	// csvSeparator separates fields in the CSV report.
	csvSeparator = ";"

	// regionColumn and the columns around the years make up the header.
	regionColumn  = "Regione"
	totalColumn   = "Totale"
	averageColumn = "Media"
)

// CSVHeader returns the header line of the CSV report without terminator.
func CSVHeader() string {
	columns := make([]string, 0, len(ReportYears)+3)
	columns = append(columns, regionColumn, totalColumn)
	for _, year := range ReportYears {
		columns = append(columns, strconv.Itoa(year))
	}
	columns = append(columns, averageColumn)
	return strings.Join(columns, csvSeparator)
}

// CSVRow returns the CSV line for one region report without terminator.
// The region name is written verbatim; it is never quoted or escaped.
func CSVRow(r *model.RegionReport) string {
	fields := make([]string, 0, len(ReportYears)+3)
	fields = append(fields, r.Region, FormatNumber(r.Total))
	for _, year := range ReportYears {
		fields = append(fields, FormatNumber(r.Value(year)))
	}
	fields = append(fields, FormatNumber(r.Average()))
	return strings.Join(fields, csvSeparator)
}

// CSVWriter outputs the semicolon separated region report.
//
// Design decision: encoding/csv is not used because it quotes fields that
// contain quotes or leading spaces. Region names must come out exactly as
// they were read.
type CSVWriter struct {
	baseWriter
}

// NewCSVWriter creates a CSVWriter that outputs to the given writer.
func NewCSVWriter(output io.Writer) *CSVWriter {
	return &CSVWriter{
		baseWriter: newBaseWriter(output),
	}
}

// NewCSVWriterFactory adapts NewCSVWriter to WriterFactory.
func NewCSVWriterFactory(output io.Writer) Writer {
	return NewCSVWriter(output)
}

// Write outputs the header followed by one line per report in run.Reports.
func (w *CSVWriter) Write(run *model.Run) (int, error) {
	return w.WriteReports(run.Reports)
}

// WriteReports outputs the header followed by one line per report, in the
// order given. Every line ends with "\n".
func (w *CSVWriter) WriteReports(reports []*model.RegionReport) (int, error) {
	bw := bufio.NewWriter(w.output)

	total := 0
	n, err := bw.WriteString(CSVHeader() + "\n")
	total += n
	if err != nil {
		return total, err
	}

	for _, r := range reports {
		n, err := bw.WriteString(CSVRow(r) + "\n")
		total += n
		if err != nil {
			return total, err
		}
	}

	return total, bw.Flush()
}
