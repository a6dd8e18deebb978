// internal/output/csv.go
package output

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
)

// CSVWriter writes one row per case
type CSVWriter struct {
	filename string
	file     *os.File
	writer   *csv.Writer
}

// NewCSVWriter creates a new CSV writer
func NewCSVWriter(filename string) (*CSVWriter, error) {
	file, err := os.Create(filename)
	if err != nil {
		return nil, err
	}

	return &CSVWriter{
		filename: filename,
		file:     file,
		writer:   csv.NewWriter(file),
	}, nil
}

func (w *CSVWriter) Name() string { return string(FormatCSV) }

// Write writes the header and the case rows
func (w *CSVWriter) Write(_ context.Context, r *Report) error {
	if err := w.writer.Write(RowHeader); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, row := range r.Rows() {
		if err := w.writer.Write(row.Strings()); err != nil {
			return fmt.Errorf("failed to write record: %w", err)
		}
	}

	w.writer.Flush()
	return w.writer.Error()
}

// Close flushes and closes the CSV writer
func (w *CSVWriter) Close() error {
	if w.writer != nil {
		w.writer.Flush()
	}
	if w.file != nil {
		err := w.file.Close()
		w.file = nil
		return err
	}
	return nil
}
