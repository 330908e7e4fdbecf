// Package pricing implements the four calculation engines behind the NAT
// filter-cut price calculator: pleats, panels/links, media pads, and
// sleeves/wire frames.
//
// Every engine is a pure function over a quote input and a set of reference
// tables. Several branches deliberately reproduce quirks of the legacy
// workbook the business still treats as the source of truth (tier-boundary
// off-by-ones, lookup-overrun clamping, asymmetric rounding). Those branches
// are isolated behind small named functions so the intent survives. Do not
// "clean them up" without a pricing sign-off; the outputs would silently
// change for edge-case dimensions.
package pricing

import "math"

// Result is the complete output of one calculation. Notices accumulates
// human-readable validation and business-exception messages; the engines
// never signal business outcomes through Go errors.
//
// Severity is positional, not flagged: hard failures short-circuit and leave
// the numeric fields at zero, soft warnings let computation continue, so a
// non-empty Notices alongside a non-zero Price is a legal state (pads
// dimension tolerance, for one).
type Result struct {
	PartNumber  string  `json:"part_number"`
	Price       float64 `json:"price"`
	CartonQty   int     `json:"carton_qty"`
	CartonPrice float64 `json:"carton_price"`

	// LinkWidthRange is only populated by the panels engine for Link cuts,
	// e.g. `68-76"`.
	LinkWidthRange string `json:"link_width_range,omitempty"`

	Notices []string `json:"notices,omitempty"`

	// Trace carries optional step-by-step diagnostics. It is advisory only
	// and carries no contract.
	Trace *Trace `json:"trace,omitempty"`
}

// notice appends a message and returns the result for chaining at call sites
// that fail and return in one statement.
func (r *Result) notice(msg string) {
	r.Notices = append(r.Notices, msg)
}

// Trace records how a calculation arrived at its output. Populated only when
// the caller asks for it; nil otherwise.
type Trace struct {
	Steps []string `json:"steps"`
}

func (t *Trace) step(msg string) {
	if t == nil {
		return
	}
	t.Steps = append(t.Steps, msg)
}

// round2 rounds to two decimal places, half away from zero, matching the
// workbook's currency rounding.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
