// Package extract parses carrier delivery-event files into run-scoped,
// in-memory lookups keyed by shipment reference. Two independent formats
// exist: the space-delimited stop report and the CSV alternate-point report.
// Both expose the same capability pair, Lookup(reference) and
// Delivered(reference, item), so the reconciliation engine can treat a
// freshly ingested file exactly like any other delivery-status source.
package extract

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/courierops/parceltrack/internal/core"
	"github.com/courierops/parceltrack/internal/domain/model"
)

// stop report rows are positional:
//
//	<connote> <despatch date> <item nbr> [<delivery date>]
//
// A missing delivery date means the item is despatched but not delivered.
const (
	stopFieldsDespatched = 3
	stopFieldsDelivered  = 4
)

var stopReportDateLayouts = []string{"2006-01-02", "02/01/2006", "20060102"}

type recordKey struct {
	reference string
	itemNbr   string
}

// StopReport is the parsed space-delimited stop report. Re-parsing the same
// file never duplicates records per (reference, item) pair: the latest row
// for a key wins, with delivered rows never demoted by a later despatch row.
type StopReport struct {
	records map[string][]model.DeliveryRecord
	index   map[recordKey]int
	logger  *slog.Logger
}

// NewStopReport returns an empty stop report ready to ingest rows.
func NewStopReport(logger *slog.Logger) *StopReport {
	if logger == nil {
		logger = slog.Default()
	}
	return &StopReport{
		records: make(map[string][]model.DeliveryRecord),
		index:   make(map[recordKey]int),
		logger:  logger,
	}
}

var _ core.ExtractSource = (*StopReport)(nil)

// Parse ingests the report from r. Rows that do not match the positional
// layout are logged and skipped; a malformed row never fails the file.
func (s *StopReport) Parse(r io.Reader) error {
	scanner := bufio.NewScanner(r)
	lineNbr := 0
	for scanner.Scan() {
		lineNbr++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if err := s.parseLine(line); err != nil {
			s.logger.Warn("skipping malformed stop report row",
				"line", lineNbr,
				"error", err)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read stop report: %w", err)
	}
	return nil
}

func (s *StopReport) parseLine(line string) error {
	fields := strings.Fields(line)
	if len(fields) != stopFieldsDespatched && len(fields) != stopFieldsDelivered {
		return fmt.Errorf("expected %d or %d fields, got %d",
			stopFieldsDespatched, stopFieldsDelivered, len(fields))
	}

	rec := model.DeliveryRecord{
		Reference: fields[0],
		ItemNbr:   fields[2],
	}
	if len(fields) == stopFieldsDelivered {
		rec.ScanAction = "DELIVERED"
		rec.ScanTS = parseReportDate(fields[3])
	} else {
		rec.ScanAction = "DESPATCHED"
		rec.ScanTS = parseReportDate(fields[1])
	}

	s.upsert(rec)
	return nil
}

// upsert replaces the existing record for (reference, item) instead of
// appending, so feeding the same file twice is a no-op. A delivered record
// is never overwritten by a despatch-only row.
func (s *StopReport) upsert(rec model.DeliveryRecord) {
	key := recordKey{reference: rec.Reference, itemNbr: rec.ItemNbr}
	if i, ok := s.index[key]; ok {
		existing := &s.records[rec.Reference][i]
		if existing.ScanAction == "DELIVERED" && rec.ScanAction != "DELIVERED" {
			return
		}
		*existing = rec
		return
	}
	s.records[rec.Reference] = append(s.records[rec.Reference], rec)
	s.index[key] = len(s.records[rec.Reference]) - 1
}

// Lookup returns every parsed record for the reference.
func (s *StopReport) Lookup(reference string) []model.DeliveryRecord {
	return s.records[strings.TrimSpace(reference)]
}

// Delivered reports whether the file shows a delivery for the reference and,
// when supplied, the specific item.
func (s *StopReport) Delivered(reference, itemNbr string) bool {
	for _, rec := range s.Lookup(reference) {
		if rec.ScanAction == "DELIVERED" && rec.MatchesItem(itemNbr) {
			return true
		}
	}
	return false
}

// Len returns the number of references in the report.
func (s *StopReport) Len() int {
	return len(s.records)
}

func parseReportDate(raw string) time.Time {
	for _, layout := range stopReportDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t
		}
	}
	return time.Time{}
}
