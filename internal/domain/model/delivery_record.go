package model

import (
	"strings"
	"time"
)

// DeliveryRecord is one scan event for a shipment reference, sourced from
// either the external delivery-status store or a parsed extract file.
// Records are read-only; we never write into a system of record.
type DeliveryRecord struct {
	Reference       string    `json:"reference"        db:"reference"`
	ItemNbr         string    `json:"item_nbr"         db:"item_nbr"`
	ScanAction      string    `json:"scan_action"      db:"scan_action"`
	ScanDescription string    `json:"scan_description" db:"scan_description"`
	ScanTS          time.Time `json:"scan_ts"          db:"scan_ts"`
}

// ConnoteLevel reports whether the record applies to the whole consignment
// rather than one piece. A terminal connote-level record marks every item of
// the consignment delivered.
func (r *DeliveryRecord) ConnoteLevel() bool {
	return strings.TrimSpace(r.ItemNbr) == ""
}

// MatchesItem reports whether the record covers the given item number.
// An empty requested item matches any record; a connote-level record matches
// any requested item.
func (r *DeliveryRecord) MatchesItem(itemNbr string) bool {
	itemNbr = strings.TrimSpace(itemNbr)
	if itemNbr == "" || r.ConnoteLevel() {
		return true
	}
	return strings.EqualFold(strings.TrimSpace(r.ItemNbr), itemNbr)
}

// TerminalMatch decides whether a scan event indicates a terminal
// delivered/collected state. Both sets are configuration, not hard-coded:
// a record qualifies when its action is in Actions OR its description
// contains any of the Descriptions keys. Matching is case-insensitive.
type TerminalMatch struct {
	actions      map[string]struct{}
	descriptions []string
}

// NewTerminalMatch builds a TerminalMatch from configured action codes and
// description keys. Blank entries are dropped.
func NewTerminalMatch(actions, descriptions []string) *TerminalMatch {
	tm := &TerminalMatch{actions: make(map[string]struct{}, len(actions))}
	for _, a := range actions {
		a = strings.ToUpper(strings.TrimSpace(a))
		if a != "" {
			tm.actions[a] = struct{}{}
		}
	}
	for _, d := range descriptions {
		d = strings.ToLower(strings.TrimSpace(d))
		if d != "" {
			tm.descriptions = append(tm.descriptions, d)
		}
	}
	return tm
}

// IsTerminal reports whether the record indicates delivered/collected state.
func (tm *TerminalMatch) IsTerminal(rec *DeliveryRecord) bool {
	if rec == nil {
		return false
	}
	action := strings.ToUpper(strings.TrimSpace(rec.ScanAction))
	if _, ok := tm.actions[action]; ok {
		return true
	}
	desc := strings.ToLower(rec.ScanDescription)
	for _, key := range tm.descriptions {
		if strings.Contains(desc, key) {
			return true
		}
	}
	return false
}

// AnyTerminal reports whether any record for the given item is terminal.
func (tm *TerminalMatch) AnyTerminal(recs []DeliveryRecord, itemNbr string) bool {
	for i := range recs {
		if recs[i].MatchesItem(itemNbr) && tm.IsTerminal(&recs[i]) {
			return true
		}
	}
	return false
}
