package application

import (
	"errors"
	"fmt"
)

// ErrInvalidTransition marks any attempted transition outside the table.
// The application row is left untouched; callers report the conflict
// instead of retrying.
var ErrInvalidTransition = errors.New("invalid application transition")

// transitions is the single source of truth for the lifecycle. Status is a
// tagged union driven through this table, never through scattered field
// updates. Withdrawn is reachable from every non-terminal state.
var transitions = map[Status]map[Status]struct{}{
	StatusDraft: {
		StatusSubmitted:       {},
		StatusAwaitingPartner: {},
		StatusWithdrawn:       {},
	},
	StatusAwaitingPartner: {
		StatusSubmitted: {},
		StatusWithdrawn: {},
	},
	StatusSubmitted: {
		StatusViewed:    {},
		StatusWithdrawn: {},
	},
	StatusViewed: {
		StatusInReview:  {},
		StatusWithdrawn: {},
	},
	StatusInReview: {
		StatusInterviewScheduled: {},
		StatusRejected:           {},
		StatusWithdrawn:          {},
	},
	StatusInterviewScheduled: {
		StatusOffered:   {},
		StatusRejected:  {},
		StatusWithdrawn: {},
	},
	StatusOffered: {
		StatusAccepted:  {},
		StatusRejected:  {},
		StatusWithdrawn: {},
	},
	StatusAccepted:  {},
	StatusRejected:  {},
	StatusWithdrawn: {},
}

func CanTransition(from, to Status) bool {
	next, ok := transitions[from]
	if !ok {
		return false
	}
	_, ok = next[to]
	return ok
}

// AllowedBy reports whether the actor kind may drive a transition into the
// target state. The employer owns the review pipeline; the candidate owns
// submission, acceptance and withdrawal; the system only withdraws
// (couple-confirmation timeouts).
func AllowedBy(to Status, actor Actor) bool {
	switch actor {
	case ActorCandidate:
		switch to {
		case StatusSubmitted, StatusAwaitingPartner, StatusAccepted, StatusWithdrawn:
			return true
		}
	case ActorEmployer:
		switch to {
		case StatusViewed, StatusInReview, StatusInterviewScheduled, StatusOffered, StatusRejected:
			return true
		}
	case ActorSystem:
		return to == StatusWithdrawn
	}
	return false
}

// Transition validates and applies a status change in memory. On failure the
// application is unchanged and the error carries both states.
func Transition(a *Application, to Status, actor Actor) error {
	if a == nil {
		return fmt.Errorf("%w: nil application", ErrInvalidTransition)
	}
	if !CanTransition(a.Status, to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, a.Status, to)
	}
	if !AllowedBy(to, actor) {
		return fmt.Errorf("%w: %s -> %s not allowed for %s", ErrInvalidTransition, a.Status, to, actor)
	}
	a.Status = to
	return nil
}

// ProjectCoupleOutcome folds the two child application states onto the
// couple. Returns false while either child is still in flight.
func ProjectCoupleOutcome(a, b Status) (CoupleStatus, bool) {
	if !a.Terminal() || !b.Terminal() {
		return "", false
	}

	switch {
	case a == StatusAccepted && b == StatusAccepted:
		return CoupleBothAccepted, true
	case a == StatusWithdrawn && b == StatusWithdrawn:
		return CoupleWithdrawn, true
	case a == StatusAccepted || b == StatusAccepted:
		return CoupleSplitDecision, true
	default:
		return CoupleBothRejected, true
	}
}
