package extract

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/courierops/parceltrack/internal/core"
	"github.com/courierops/parceltrack/internal/domain/model"
)

// DefaultTPCodeHeader is the key column name used when none is configured.
const DefaultTPCodeHeader = "TP Code"

// Optional columns enriching the parsed record when present.
const (
	altPointItemHeader     = "Item"
	altPointLocationHeader = "Location"
	altPointDateHeader     = "Date"
)

// AltPointReport is the parsed CSV alternate-point report: parcels handed
// over to an alternate pickup point, keyed by a configurable code column.
// A row's presence is the delivery evidence; the first occurrence per code
// wins and duplicates are logged and dropped.
type AltPointReport struct {
	keyHeader string
	records   map[string]model.DeliveryRecord
	logger    *slog.Logger
}

// NewAltPointReport returns an empty report keyed by the given header column.
func NewAltPointReport(keyHeader string, logger *slog.Logger) *AltPointReport {
	keyHeader = strings.TrimSpace(keyHeader)
	if keyHeader == "" {
		keyHeader = DefaultTPCodeHeader
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &AltPointReport{
		keyHeader: keyHeader,
		records:   make(map[string]model.DeliveryRecord),
		logger:    logger,
	}
}

var _ core.ExtractSource = (*AltPointReport)(nil)

// Parse ingests the CSV from r. The header row is required; a file without
// the configured key column is rejected outright.
func (a *AltPointReport) Parse(r io.Reader) error {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // ragged rows show up in the wild
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("alternate-point report is empty")
		}
		return fmt.Errorf("read alternate-point header: %w", err)
	}

	cols := indexHeader(header)
	keyCol, ok := cols[strings.ToLower(a.keyHeader)]
	if !ok {
		return fmt.Errorf("alternate-point report missing %q column", a.keyHeader)
	}

	lineNbr := 1
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}
		lineNbr++
		if err != nil {
			a.logger.Warn("skipping malformed alternate-point row",
				"line", lineNbr,
				"error", err)
			continue
		}
		a.ingestRow(row, cols, keyCol, lineNbr)
	}
}

func (a *AltPointReport) ingestRow(row []string, cols map[string]int, keyCol, lineNbr int) {
	if keyCol >= len(row) {
		a.logger.Warn("skipping short alternate-point row", "line", lineNbr)
		return
	}
	code := strings.TrimSpace(row[keyCol])
	if code == "" {
		a.logger.Warn("skipping alternate-point row with empty code", "line", lineNbr)
		return
	}
	if _, seen := a.records[code]; seen {
		a.logger.Warn("dropping duplicate alternate-point code",
			"code", code,
			"line", lineNbr)
		return
	}

	rec := model.DeliveryRecord{
		Reference:  code,
		ScanAction: "TRANSFERRED",
	}
	if i, ok := cols[strings.ToLower(altPointItemHeader)]; ok && i < len(row) {
		rec.ItemNbr = strings.TrimSpace(row[i])
	}
	if i, ok := cols[strings.ToLower(altPointLocationHeader)]; ok && i < len(row) {
		rec.ScanDescription = strings.TrimSpace(row[i])
	}
	if i, ok := cols[strings.ToLower(altPointDateHeader)]; ok && i < len(row) {
		rec.ScanTS = parseReportDate(strings.TrimSpace(row[i]))
	}
	a.records[code] = rec
}

// Lookup returns the record for the reference, if any.
func (a *AltPointReport) Lookup(reference string) []model.DeliveryRecord {
	rec, ok := a.records[strings.TrimSpace(reference)]
	if !ok {
		return nil
	}
	return []model.DeliveryRecord{rec}
}

// Delivered reports whether the report lists the reference. A row covering
// the whole consignment matches any requested item.
func (a *AltPointReport) Delivered(reference, itemNbr string) bool {
	for _, rec := range a.Lookup(reference) {
		if rec.MatchesItem(itemNbr) {
			return true
		}
	}
	return false
}

// Len returns the number of codes in the report.
func (a *AltPointReport) Len() int {
	return len(a.records)
}

func indexHeader(header []string) map[string]int {
	cols := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.ToLower(strings.TrimSpace(name))
		if _, exists := cols[name]; !exists {
			cols[name] = i
		}
	}
	return cols
}
