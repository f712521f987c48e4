// Package domain holds the opportunity pipeline's pure business rules.
package domain

// Stage is the sales-pipeline stage of an opportunity. The set is closed:
// every stage an opportunity can be in appears below.
type Stage string

const (
	StageProspecting Stage = "Prospecting"
	StageDiscovery   Stage = "Discovery"
	StageQuoteSent   Stage = "Quote Sent"
	StageNegotiation Stage = "Negotiation"
	StageClosedWon   Stage = "Closed Won"
	StageClosedLost  Stage = "Closed Lost"
	StageOnHold      Stage = "On Hold"
)

// forwardOrder is the fixed progression of working stages. A stage's
// single "forward" successor is the next entry; the last entry has none.
var forwardOrder = []Stage{
	StageProspecting,
	StageDiscovery,
	StageQuoteSent,
	StageNegotiation,
}

// AllStages lists every known stage.
var AllStages = []Stage{
	StageProspecting,
	StageDiscovery,
	StageQuoteSent,
	StageNegotiation,
	StageClosedWon,
	StageClosedLost,
	StageOnHold,
}

// IsKnown reports whether the stage is one of the closed set.
func IsKnown(s Stage) bool {
	for _, stage := range AllStages {
		if stage == s {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the stage is closed. Closed opportunities are
// immutable: no transition leaves a terminal stage.
func IsTerminal(s Stage) bool {
	return s == StageClosedWon || s == StageClosedLost
}

// NextStages returns the legal transitions out of the current stage.
//
// Terminal stages have none. On Hold may re-enter any of the six other
// stages. A working stage may advance to its single forward successor and
// may always move to Closed Won, Closed Lost, or On Hold.
func NextStages(current Stage) []Stage {
	if IsTerminal(current) {
		return nil
	}

	if current == StageOnHold {
		next := make([]Stage, 0, len(AllStages)-1)
		for _, stage := range AllStages {
			if stage != StageOnHold {
				next = append(next, stage)
			}
		}
		return next
	}

	next := make([]Stage, 0, 4)
	for i, stage := range forwardOrder {
		if stage == current && i+1 < len(forwardOrder) {
			next = append(next, forwardOrder[i+1])
			break
		}
	}
	next = append(next, StageClosedWon, StageClosedLost, StageOnHold)
	return next
}

// CanTransition reports whether moving from one stage to another is legal.
func CanTransition(from, to Stage) bool {
	for _, stage := range NextStages(from) {
		if stage == to {
			return true
		}
	}
	return false
}
