package report

import (
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"
	"github.com/nao1215/regionreport/internal/model"
)

// MarkdownWriter outputs a run summary in Markdown format.
// This format is designed for documentation and sharing.
//
// Design decision: We use the nao1215/markdown library for fluent markdown
// generation which provides:
// 1. Type-safe markdown generation
// 2. Support for tables and code blocks
// 3. GitHub-flavored markdown alerts
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// NewMarkdownWriterFactory adapts NewMarkdownWriter to WriterFactory.
func NewMarkdownWriterFactory(output io.Writer) Writer {
	return NewMarkdownWriter(output)
}

// Write outputs the run summary in Markdown format.
func (w *MarkdownWriter) Write(run *model.Run) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, run)
	w.writeRegions(md, run)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// writeHeader writes the run information table.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, run *model.Run) {
	md.H1("Regional Report")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Run ID", "`" + run.ID + "`"},
			{"Input", "`" + run.InputPath + "`"},
			{"Output", "`" + run.OutputPath + "`"},
			{"Started", run.StartedAt.Format("2006-01-02 15:04:05 MST")},
			{"Records", strconv.Itoa(run.RecordCount())},
			{"Skipped Lines", strconv.Itoa(run.SkippedLines)},
			{"Regions", strconv.Itoa(run.RegionCount())},
		},
	})
	md.PlainText("")

	if run.SkippedLines > 0 {
		md.Warningf("%d line(s) with fewer than 3 fields were skipped.", run.SkippedLines)
		md.PlainText("")
	}
}

// writeRegions writes the per-region table and the distribution chart.
func (w *MarkdownWriter) writeRegions(md *markdown.Markdown, run *model.Run) {
	md.H2("Regions")
	md.PlainText("")

	if len(run.Reports) == 0 {
		md.Note("No records were loaded, the report is empty.")
		md.PlainText("")
		return
	}

	rows := make([][]string, 0, len(run.Reports))
	for _, r := range run.Reports {
		rows = append(rows, strings.Split(CSVRow(r), csvSeparator))
	}
	md.Table(markdown.TableSet{
		Header: strings.Split(CSVHeader(), csvSeparator),
		Rows:   rows,
	})
	md.PlainText("")

	w.writePieChart(md, run.Reports)
}

// writePieChart writes a mermaid pie chart of region totals.
// Only regions whose total rounds to a positive integer are drawn.
func (w *MarkdownWriter) writePieChart(md *markdown.Markdown, reports []*model.RegionReport) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Total by Region"),
		piechart.WithShowData(true),
	)

	drawn := 0
	for _, r := range reports {
		total := math.Round(r.Total)
		if math.IsNaN(total) || total < 1 || total > math.MaxInt64 {
			continue
		}
		chart.LabelAndIntValue(r.Region, uint64(total))
		drawn++
	}
	if drawn == 0 {
		return
	}

	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// writeFooter writes the report footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Report generated by regionreport*")
}
