package model

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// CommsAction is the notification channel a flag covers.
type CommsAction string

const (
	// ActionEmail is the email notification channel.
	ActionEmail CommsAction = "email"
	// ActionSMS is the SMS notification channel.
	ActionSMS CommsAction = "sms"
)

// Valid reports whether the action is a known channel.
func (a CommsAction) Valid() bool {
	return a == ActionEmail || a == ActionSMS
}

// CommsOutcome distinguishes proof-of-send from a recorded transport failure.
type CommsOutcome string

const (
	// OutcomePending is the permanent proof-of-send marker. It is never
	// cleared automatically.
	OutcomePending CommsOutcome = "pending"
	// OutcomeError marks a failed transport attempt. It persists until an
	// operator clears it, so retries stay under human control.
	OutcomeError CommsOutcome = "error"
)

// ErrMalformedFlagName is returned by ParseFlagName for names that do not
// follow the marker layout.
var ErrMalformedFlagName = errors.New("malformed comms flag name")

// CommsFlag is the idempotency token for one (action, job item, service)
// notification attempt. Presence is the whole API: no marker content is ever
// read, only existence.
type CommsFlag struct {
	Action    CommsAction
	JobItemID int64
	Service   string
	Outcome   CommsOutcome
}

// Validate checks the flag identity fields.
func (f CommsFlag) Validate() error {
	if !f.Action.Valid() {
		return fmt.Errorf("invalid comms action %q", f.Action)
	}
	if f.JobItemID <= 0 {
		return errors.New("job_item_id is required")
	}
	if strings.TrimSpace(f.Service) == "" {
		return errors.New("service code is required")
	}
	switch f.Outcome {
	case OutcomePending, OutcomeError:
		return nil
	default:
		return fmt.Errorf("invalid comms outcome %q", f.Outcome)
	}
}

// Name renders the globbable marker name. Success markers read
// "email.3.pe"; error markers carry a trailing ".err" so operators can
// enumerate and selectively clear only the failed ones.
func (f CommsFlag) Name() string {
	name := fmt.Sprintf("%s.%d.%s", f.Action, f.JobItemID, f.Service)
	if f.Outcome == OutcomeError {
		name += ".err"
	}
	return name
}

// String implements fmt.Stringer.
func (f CommsFlag) String() string { return f.Name() }

// WithOutcome returns a copy of the flag with the given outcome.
func (f CommsFlag) WithOutcome(outcome CommsOutcome) CommsFlag {
	f.Outcome = outcome
	return f
}

// ParseFlagName parses a marker name back into a CommsFlag. Used by operator
// reporting/cleanup tooling over the ledger.
func ParseFlagName(name string) (CommsFlag, error) {
	parts := strings.Split(strings.TrimSpace(name), ".")
	outcome := OutcomePending
	if len(parts) == 4 {
		if parts[3] != "err" {
			return CommsFlag{}, fmt.Errorf("%w: %q", ErrMalformedFlagName, name)
		}
		outcome = OutcomeError
		parts = parts[:3]
	}
	if len(parts) != 3 {
		return CommsFlag{}, fmt.Errorf("%w: %q", ErrMalformedFlagName, name)
	}

	id, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return CommsFlag{}, fmt.Errorf("%w: %q", ErrMalformedFlagName, name)
	}

	flag := CommsFlag{
		Action:    CommsAction(parts[0]),
		JobItemID: id,
		Service:   parts[2],
		Outcome:   outcome,
	}
	if err := flag.Validate(); err != nil {
		return CommsFlag{}, fmt.Errorf("%w: %q: %v", ErrMalformedFlagName, name, err)
	}
	return flag, nil
}
