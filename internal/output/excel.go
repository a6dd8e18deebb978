// internal/output/excel.go
package output

import (
	"context"
	"fmt"
	"strconv"

	"github.com/xuri/excelize/v2"
)

// DefaultExcelMaxCellLength is the most characters a single Excel cell holds
const DefaultExcelMaxCellLength = 32767

const (
	summarySheet = "Summary"
	resultsSheet = "Results"
)

var statusFills = map[string]string{
	"passed":  "#DAFBE1",
	"failed":  "#FFEBE9",
	"errored": "#FFF8C5",
	"skipped": "#EAEEF2",
}

// ExcelWriter writes a workbook with a Summary and a Results sheet
type ExcelWriter struct {
	filename string
	file     *excelize.File
	styles   map[string]int
	header   int
}

// NewExcelWriter prepares an empty workbook saved to filename on Write.
func NewExcelWriter(filename string) (*ExcelWriter, error) {
	if filename == "" {
		return nil, fmt.Errorf("Excel file path is required")
	}
	file := excelize.NewFile()
	if err := file.SetSheetName(file.GetSheetName(0), summarySheet); err != nil {
		file.Close()
		return nil, err
	}
	if _, err := file.NewSheet(resultsSheet); err != nil {
		file.Close()
		return nil, err
	}

	w := &ExcelWriter{filename: filename, file: file, styles: map[string]int{}}
	if err := w.createStyles(); err != nil {
		file.Close()
		return nil, err
	}
	return w, nil
}

func (w *ExcelWriter) createStyles() error {
	border := []excelize.Border{
		{Type: "left", Color: "000000", Style: 1},
		{Type: "top", Color: "000000", Style: 1},
		{Type: "bottom", Color: "000000", Style: 1},
		{Type: "right", Color: "000000", Style: 1},
	}
	header, err := w.file.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true, Size: 12},
		Fill:   excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
		Border: border,
	})
	if err != nil {
		return err
	}
	w.header = header
	for status, color := range statusFills {
		id, err := w.file.NewStyle(&excelize.Style{
			Fill:      excelize.Fill{Type: "pattern", Color: []string{color}, Pattern: 1},
			Alignment: &excelize.Alignment{Vertical: "top", WrapText: true},
		})
		if err != nil {
			return err
		}
		w.styles[status] = id
	}
	return nil
}

func (w *ExcelWriter) Name() string { return string(FormatXLSX) }

func truncateCell(s string) string {
	if len(s) <= DefaultExcelMaxCellLength {
		return s
	}
	return s[:DefaultExcelMaxCellLength-3] + "..."
}

func (w *ExcelWriter) setRow(sheet string, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return w.file.SetSheetRow(sheet, cell, &values)
}

func (w *ExcelWriter) writeSummary(r *Report) error {
	row := 1
	put := func(key string, value interface{}) error {
		if err := w.setRow(summarySheet, row, []interface{}{key, value}); err != nil {
			return err
		}
		cell, _ := excelize.CoordinatesToCellName(1, row)
		row++
		return w.file.SetCellStyle(summarySheet, cell, cell, w.header)
	}

	if err := put("Title", r.Title); err != nil {
		return err
	}
	if err := put("Run ID", r.RunID); err != nil {
		return err
	}
	if err := put("Start", r.Start.UTC().Format("2006-01-02 15:04:05")); err != nil {
		return err
	}
	if err := put("Duration (s)", r.Duration().Seconds()); err != nil {
		return err
	}
	for _, f := range r.Metadata {
		if err := put(f.Key, truncateCell(f.Value)); err != nil {
			return err
		}
	}
	if err := put("Browser", r.Environment.Browser); err != nil {
		return err
	}
	if err := put("Base URL", r.Environment.BaseURL); err != nil {
		return err
	}
	for _, st := range []string{"passed", "failed", "errored", "skipped"} {
		if err := put(titleCaser.String(st), r.Counts[st]); err != nil {
			return err
		}
	}
	return w.file.SetColWidth(summarySheet, "A", "B", 28)
}

func (w *ExcelWriter) writeResults(r *Report) error {
	header := make([]interface{}, len(RowHeader))
	for i, h := range RowHeader {
		header[i] = h
	}
	if err := w.setRow(resultsSheet, 1, header); err != nil {
		return err
	}
	last, err := excelize.ColumnNumberToName(len(RowHeader))
	if err != nil {
		return err
	}
	if err := w.file.SetCellStyle(resultsSheet, "A1", last+"1", w.header); err != nil {
		return err
	}

	rows := r.Rows()
	for i, row := range rows {
		n := i + 2
		values := []interface{}{
			row.RunID, row.Module, row.Name, row.Status, row.Strings()[4],
			row.DurationMS, row.Tags, truncateCell(row.Failures), truncateCell(row.Error), row.Screenshot,
			row.ClickAttempts, row.ForcedClicks,
		}
		if err := w.setRow(resultsSheet, n, values); err != nil {
			return err
		}
		if style, ok := w.styles[row.Status]; ok {
			if err := w.file.SetCellStyle(resultsSheet, "A"+strconv.Itoa(n), last+strconv.Itoa(n), style); err != nil {
				return err
			}
		}
	}

	if err := w.file.SetColWidth(resultsSheet, "A", last, 18); err != nil {
		return err
	}
	if err := w.file.AutoFilter(resultsSheet, "A1:"+last+strconv.Itoa(len(rows)+1), nil); err != nil {
		return err
	}
	return w.file.SetPanes(resultsSheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}

// Write fills both sheets and saves the workbook.
func (w *ExcelWriter) Write(_ context.Context, r *Report) error {
	if err := w.writeSummary(r); err != nil {
		return fmt.Errorf("failed to write summary sheet: %w", err)
	}
	if err := w.writeResults(r); err != nil {
		return fmt.Errorf("failed to write results sheet: %w", err)
	}
	return w.file.SaveAs(w.filename)
}

func (w *ExcelWriter) Close() error {
	if w.file == nil {
		return nil
	}
	err := w.file.Close()
	w.file = nil
	return err
}
