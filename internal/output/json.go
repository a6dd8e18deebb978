// internal/output/json.go
package output

import (
	"context"
	"encoding/json"
	"os"
)

// JSONWriter writes the report as one indented JSON document
type JSONWriter struct {
	filename string
	file     *os.File
}

// NewJSONWriter creates a new JSON writer
func NewJSONWriter(filename string) (*JSONWriter, error) {
	file, err := os.Create(filename)
	if err != nil {
		return nil, err
	}

	return &JSONWriter{
		filename: filename,
		file:     file,
	}, nil
}

func (w *JSONWriter) Name() string { return string(FormatJSON) }

// Write writes the report to the JSON file
func (w *JSONWriter) Write(_ context.Context, r *Report) error {
	encoder := json.NewEncoder(w.file)
	encoder.SetIndent("", "  ")
	return encoder.Encode(r)
}

// Close closes the JSON writer
func (w *JSONWriter) Close() error {
	if w.file != nil {
		err := w.file.Close()
		w.file = nil
		return err
	}
	return nil
}
