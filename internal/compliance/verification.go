package compliance

import (
	"fmt"

	"compliancedocs/internal/model"
)

// Event drives the verification state machine.
type Event string

const (
	EventVerify   Event = "verify"
	EventReject   Event = "reject"
	EventReupload Event = "reupload"
)

// transitions lists, per state, where each event leads. Repeating a review decision is
// allowed so a reviewer can amend their note. A new upload always returns to pending.
var transitions = map[model.VerificationStatus]map[Event]model.VerificationStatus{
	model.VerificationPending: {
		EventVerify:   model.VerificationVerified,
		EventReject:   model.VerificationRejected,
		EventReupload: model.VerificationPending,
	},
	model.VerificationRejected: {
		EventVerify:   model.VerificationVerified,
		EventReject:   model.VerificationRejected,
		EventReupload: model.VerificationPending,
	},
	model.VerificationVerified: {
		EventVerify:   model.VerificationVerified,
		EventReject:   model.VerificationRejected,
		EventReupload: model.VerificationPending,
	},
}

// Transition returns the state reached from `from` on event e.
func Transition(from model.VerificationStatus, e Event) (model.VerificationStatus, error) {
	next, ok := transitions[from][e]
	if !ok {
		return "", fmt.Errorf("no transition from %q on %q", from, e)
	}
	return next, nil
}

// EventFor maps a requested review outcome to its event. Only verified and rejected can be
// requested; pending is reached by re-upload alone.
func EventFor(target model.VerificationStatus) (Event, bool) {
	switch target {
	case model.VerificationVerified:
		return EventVerify, true
	case model.VerificationRejected:
		return EventReject, true
	default:
		return "", false
	}
}
