package model

import "time"

// Reference is a structured professional reference. It has no file and no expiry,
// so it does not go through the document status rules.
type Reference struct {
	ID           string    `json:"id"`
	SubjectID    string    `json:"subject_id"`
	RefereeName  string    `json:"referee_name"`
	RefereeEmail string    `json:"referee_email"`
	Relationship string    `json:"relationship"`
	Organisation string    `json:"organisation,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

type ReferenceStatus string

const (
	ReferencesMissing    ReferenceStatus = "missing"
	ReferencesHasEntries ReferenceStatus = "has-entries"
)

// ReferenceStatusOf returns the status for a subject holding n references.
func ReferenceStatusOf(n int) ReferenceStatus {
	if n > 0 {
		return ReferencesHasEntries
	}
	return ReferencesMissing
}
