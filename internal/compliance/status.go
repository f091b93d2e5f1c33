package compliance

import (
	"time"

	"compliancedocs/internal/model"
)

// DefaultWarningDays applies when a descriptor does not set its own warning window.
const DefaultWarningDays = 30

// Evaluation is the derived state of one document type for one subject at one instant.
type Evaluation struct {
	Status          model.Status
	ExpiryDate      *time.Time
	DaysUntilExpiry *int
}

// DeriveStatus computes the lifecycle status of a document type from the subject's current
// record. It must be re-evaluated whenever now changes; nothing here is cached.
func DeriveStatus(rec *model.DocumentRecord, dt model.DocumentType, now time.Time) model.Status {
	return Evaluate(rec, dt, now).Status
}

// Evaluate is DeriveStatus plus the derived expiry date and days remaining.
//
// A record without a usable issue date, or an auto-expiry type without a positive validity
// period, is reported as uploaded with no expiry tracking rather than failing.
func Evaluate(rec *model.DocumentRecord, dt model.DocumentType, now time.Time) Evaluation {
	if rec == nil {
		return Evaluation{Status: model.StatusMissing}
	}
	if !dt.AutoExpiry || dt.ValidityYears <= 0 {
		return Evaluation{Status: model.StatusUploaded}
	}
	if rec.IssueDate == nil || rec.IssueDate.IsZero() {
		return Evaluation{Status: model.StatusUploaded}
	}

	expiry := CalculateExpiry(*rec.IssueDate, dt.ValidityYears)
	days := DaysUntil(expiry, now)
	ev := Evaluation{ExpiryDate: &expiry, DaysUntilExpiry: &days}

	switch {
	case expiry.Before(now):
		ev.Status = model.StatusExpired
	case days <= warningDays(dt):
		ev.Status = model.StatusExpiring
	default:
		ev.Status = model.StatusUploaded
	}
	return ev
}

// CanReview reports whether verify/reject controls apply to a document in status s.
// Missing and expired documents have no meaningful verification state.
func CanReview(s model.Status) bool {
	return s == model.StatusUploaded || s == model.StatusExpiring
}

func warningDays(dt model.DocumentType) int {
	if dt.ExpiryWarningDays > 0 {
		return dt.ExpiryWarningDays
	}
	return DefaultWarningDays
}
