package extract

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/courierops/parceltrack/internal/core"
	"github.com/courierops/parceltrack/internal/domain/model"
)

// processedSubdir is where consumed extract files are moved after a
// successful sweep tick.
const processedSubdir = "processed"

// MultiSource combines several extract sources into one run-scoped lookup.
type MultiSource struct {
	sources []core.ExtractSource
}

// NewMultiSource combines the given sources.
func NewMultiSource(sources ...core.ExtractSource) *MultiSource {
	return &MultiSource{sources: sources}
}

var _ core.ExtractSource = (*MultiSource)(nil)

// Lookup returns records from every underlying source.
func (m *MultiSource) Lookup(reference string) []model.DeliveryRecord {
	var out []model.DeliveryRecord
	for _, src := range m.sources {
		out = append(out, src.Lookup(reference)...)
	}
	return out
}

// Delivered reports whether any underlying source shows a delivery.
func (m *MultiSource) Delivered(reference, itemNbr string) bool {
	for _, src := range m.sources {
		if src.Delivered(reference, itemNbr) {
			return true
		}
	}
	return false
}

// Loader scans a directory for extract files at the start of each sweep tick
// and archives consumed files once the tick commits.
type Loader struct {
	dir          string
	tpCodeHeader string
	logger       *slog.Logger
}

// LoaderConfig holds configuration for a Loader.
type LoaderConfig struct {
	Dir          string
	TPCodeHeader string
	Logger       *slog.Logger
}

// NewLoader creates a Loader over the configured extract directory.
func NewLoader(cfg LoaderConfig) *Loader {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{
		dir:          cfg.Dir,
		tpCodeHeader: cfg.TPCodeHeader,
		logger:       logger,
	}
}

// Load parses every extract file in the directory into one combined source
// and returns the consumed file paths for later archiving. Files ending in
// .csv parse as alternate-point reports; everything else as stop reports.
// A directory that does not exist yields an empty source: extracts are an
// optional input, not a precondition.
func (l *Loader) Load() (core.ExtractSource, []string, error) {
	if l.dir == "" {
		return NewMultiSource(), nil, nil
	}

	entries, err := os.ReadDir(l.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return NewMultiSource(), nil, nil
		}
		return nil, nil, fmt.Errorf("read extract directory: %w", err)
	}

	var (
		sources  []core.ExtractSource
		consumed []string
	)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		path := filepath.Join(l.dir, entry.Name())
		src, err := l.parseFile(path)
		if err != nil {
			// A bad file must not block the rest of the batch.
			l.logger.Warn("skipping unparseable extract file",
				"file", path,
				"error", err)
			continue
		}
		sources = append(sources, src)
		consumed = append(consumed, path)
	}
	return NewMultiSource(sources...), consumed, nil
}

func (l *Loader) parseFile(path string) (core.ExtractSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open extract file: %w", err)
	}
	defer f.Close()

	if strings.EqualFold(filepath.Ext(path), ".csv") {
		report := NewAltPointReport(l.tpCodeHeader, l.logger)
		if err := report.Parse(f); err != nil {
			return nil, err
		}
		return report, nil
	}

	report := NewStopReport(l.logger)
	if err := report.Parse(f); err != nil {
		return nil, err
	}
	return report, nil
}

// Archive moves consumed files into the processed subdirectory. Called only
// after a tick completes; a failed move is logged and the file re-ingested on
// the next tick, which the gate absorbs.
func (l *Loader) Archive(paths []string) error {
	if len(paths) == 0 {
		return nil
	}
	dest := filepath.Join(l.dir, processedSubdir)
	if err := os.MkdirAll(dest, 0o755); err != nil {
		return fmt.Errorf("create processed directory: %w", err)
	}

	for _, path := range paths {
		target := filepath.Join(dest, filepath.Base(path))
		if err := os.Rename(path, target); err != nil {
			l.logger.Warn("archive extract file failed",
				"file", path,
				"error", err)
		}
	}
	return nil
}
