// Package model holds the typed domain records shared across the
// reconciliation and dispatch services.
package model

import (
	"errors"
	"strings"
	"time"
)

// JobItem is one consignment item pending pickup or delivery.
//
// A JobItem is "collected" iff PickupTS is set and "notified" iff NotifyTS is
// set. Both fields are written exactly once by the sweep flow; re-processing
// must never regress or duplicate them.
type JobItem struct {
	ID           int64      `json:"id"             db:"id"`
	ConnoteNbr   string     `json:"connote_nbr"    db:"connote_nbr"`
	ItemNbr      string     `json:"item_nbr"       db:"item_nbr"`
	JobID        int64      `json:"job_id"         db:"job_id"`
	CreatedTS    time.Time  `json:"created_ts"     db:"created_ts"`
	PickupTS     *time.Time `json:"pickup_ts"      db:"pickup_ts"`
	NotifyTS     *time.Time `json:"notify_ts"      db:"notify_ts"`
	EmailAddr    string     `json:"email_addr"     db:"email_addr"`
	PhoneNbr     string     `json:"phone_nbr"      db:"phone_nbr"`
	Pieces       int        `json:"pieces"         db:"pieces"`
	ConsumerName string     `json:"consumer_name"  db:"consumer_name"`
}

// Collected reports whether the item has been picked up through the normal flow.
func (i *JobItem) Collected() bool {
	return i.PickupTS != nil
}

// Notified reports whether a notification has been recorded for the item.
func (i *JobItem) Notified() bool {
	return i.NotifyTS != nil
}

// HasReference reports whether the item carries at least one real-world
// shipment reference to reconcile against.
func (i *JobItem) HasReference() bool {
	return strings.TrimSpace(i.ConnoteNbr) != "" || strings.TrimSpace(i.ItemNbr) != ""
}

// HasUsableContact reports whether at least one contact channel would pass
// validation. Items without a usable channel are quietly ineligible for
// notification; this is expected data, not an error.
func (i *JobItem) HasUsableContact() bool {
	return ValidEmail(i.EmailAddr) || ValidMobile(i.PhoneNbr)
}

// Job groups JobItems under one business unit and (optionally) one agent.
type Job struct {
	ID         int64     `json:"id"           db:"id"`
	BUID       int64     `json:"bu_id"        db:"bu_id"`
	AgentID    *int64    `json:"agent_id"     db:"agent_id"`
	CardRefNbr string    `json:"card_ref_nbr" db:"card_ref_nbr"`
	JobTS      time.Time `json:"job_ts"       db:"job_ts"`
}

// JobItemWithService pairs a JobItem with owning-job fields needed by the
// primary-elect matcher.
type JobItemWithService struct {
	JobItem
	BUID        int64  `json:"bu_id"        db:"bu_id"`
	ServiceCode string `json:"service_code" db:"service_code"`
}

// Candidate identifies one job item put forward for reconciliation.
type Candidate struct {
	JobItemID  int64  `json:"job_item_id"`
	ConnoteNbr string `json:"connote_nbr"`
	ItemNbr    string `json:"item_nbr"`
}

// Normalize trims reference fields in place.
func (c *Candidate) Normalize() {
	c.ConnoteNbr = strings.TrimSpace(c.ConnoteNbr)
	c.ItemNbr = strings.TrimSpace(c.ItemNbr)
}

// Validate checks that the candidate can be reconciled at all.
func (c *Candidate) Validate() error {
	if c.JobItemID <= 0 {
		return errors.New("job_item_id is required")
	}
	if c.ConnoteNbr == "" && c.ItemNbr == "" {
		return errors.New("at least one of connote_nbr or item_nbr is required")
	}
	return nil
}
