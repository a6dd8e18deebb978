// internal/output/manager.go
package output

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/valpere/UIProbe/internal/config"
)

// Manager writes a report in every configured format and sink
type Manager struct {
	cfg    config.ReportConfig
	dir    string
	logger *zap.Logger

	// openSink is replaced in tests.
	openSink func(ctx context.Context, s config.SinkConfig) (Writer, error)
}

// NewManager creates a new output manager writing files under dir
func NewManager(cfg config.ReportConfig, dir string, logger *zap.Logger) (*Manager, error) {
	if dir == "" {
		return nil, fmt.Errorf("report directory is required")
	}
	if cfg.Name == "" {
		cfg.Name = "report"
	}
	for _, f := range cfg.Formats {
		if !Format(strings.ToLower(f)).IsValid() {
			return nil, fmt.Errorf("unsupported output format: %s", f)
		}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{cfg: cfg, dir: dir, logger: logger, openSink: OpenSink}, nil
}

// Path returns where format is written.
func (m *Manager) Path(f Format) string {
	return filepath.Join(m.dir, m.cfg.Name+f.Extension())
}

// GetWriter returns the file writer for format
func (m *Manager) GetWriter(f Format) (Writer, error) {
	path := m.Path(f)
	switch f {
	case FormatHTML:
		return NewHTMLWriter(path)
	case FormatJSON:
		return NewJSONWriter(path)
	case FormatCSV:
		return NewCSVWriter(path)
	case FormatJUnit:
		return NewJUnitWriter(path)
	case FormatXLSX:
		return NewExcelWriter(path)
	default:
		return nil, fmt.Errorf("unsupported output format: %s", f)
	}
}

// OpenSink connects to a history database.
func OpenSink(ctx context.Context, s config.SinkConfig) (Writer, error) {
	switch s.Type {
	case SinkSQLite, SinkPostgreSQL, SinkMySQL:
		return NewSQLWriter(ctx, s.Type, s.DSN, s.Table)
	case SinkMongoDB:
		return NewMongoDBWriter(ctx, MongoDBOptions{
			ConnectionString: s.DSN,
			Database:         s.Database,
			Collection:       s.Collection,
		})
	default:
		return nil, fmt.Errorf("unsupported sink: %s", s.Type)
	}
}

func writeAndClose(ctx context.Context, w Writer, r *Report) error {
	err := w.Write(ctx, r)
	if cerr := w.Close(); err == nil {
		err = cerr
	}
	return err
}

// Write renders every format and stores the run in every sink. A failing
// writer does not stop the others; the paths written so far are returned
// with the joined errors.
func (m *Manager) Write(ctx context.Context, r *Report) ([]string, error) {
	if err := os.MkdirAll(m.dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create report directory: %w", err)
	}

	var (
		paths []string
		errs  []error
	)
	for _, name := range m.cfg.Formats {
		f := Format(strings.ToLower(name))
		w, err := m.GetWriter(f)
		if err == nil {
			err = writeAndClose(ctx, w, r)
		}
		if err != nil {
			m.logger.Error("Failed to write report", zap.String("format", string(f)), zap.Error(err))
			errs = append(errs, fmt.Errorf("%s: %w", f, err))
			continue
		}
		path := m.Path(f)
		m.logger.Info("Report written", zap.String("format", string(f)), zap.String("path", path))
		paths = append(paths, path)
	}

	for _, s := range m.cfg.Sinks {
		w, err := m.openSink(ctx, s)
		if err == nil {
			err = writeAndClose(ctx, w, r)
		}
		if err != nil {
			m.logger.Error("Failed to store results", zap.String("sink", s.Type), zap.Error(err))
			errs = append(errs, fmt.Errorf("%s sink: %w", s.Type, err))
			continue
		}
		m.logger.Info("Results stored", zap.String("sink", s.Type), zap.Int("cases", len(r.Cases)))
	}
	return paths, errors.Join(errs...)
}
