// Package core defines the ports between the sweep services and their
// collaborators (stores, ledger, transports), plus the tri-state resolution
// type shared by every delivery-status source.
package core

// Resolution is the outcome of asking one source whether a shipment has
// reached a terminal delivered/collected state. Unknown is a first-class
// outcome: it means the source could not answer (unreachable, no data for
// this run), never that the shipment is undelivered.
type Resolution int

const (
	// ResolutionUnknown means the source could not answer. The candidate
	// silently carries over to the next run.
	ResolutionUnknown Resolution = iota
	// ResolutionNotDelivered means the source answered and found no
	// terminal scan.
	ResolutionNotDelivered
	// ResolutionDelivered means the source found a terminal scan.
	ResolutionDelivered
)

// String implements fmt.Stringer.
func (r Resolution) String() string {
	switch r {
	case ResolutionNotDelivered:
		return "not_delivered"
	case ResolutionDelivered:
		return "delivered"
	default:
		return "unknown"
	}
}

// Definitive reports whether the source actually answered.
func (r Resolution) Definitive() bool {
	return r == ResolutionDelivered || r == ResolutionNotDelivered
}
