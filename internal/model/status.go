package model

import "time"

// Status is the derived lifecycle status of a document type for a subject. It is computed
// from dates on every read and never stored.
type Status string

const (
	StatusMissing  Status = "missing"
	StatusUploaded Status = "uploaded"
	StatusExpiring Status = "expiring"
	StatusExpired  Status = "expired"
)

// DocumentView pairs a catalog entry with the subject's current record and derived state.
type DocumentView struct {
	Type            DocumentType    `json:"type"`
	Record          *DocumentRecord `json:"record,omitempty"`
	Status          Status          `json:"status"`
	ExpiryDate      *time.Time      `json:"expiry_date,omitempty"`
	DaysUntilExpiry *int            `json:"days_until_expiry,omitempty"`
	CanReview       bool            `json:"can_review"`
}

// ReferenceSummary is the minimal status of a subject's professional references.
type ReferenceSummary struct {
	Status ReferenceStatus `json:"status"`
	Count  int             `json:"count"`
}

// Overview is everything the engine derives for one subject at one instant.
// References is set for doctors only.
type Overview struct {
	SubjectID  string            `json:"subject_id"`
	Kind       SubjectKind       `json:"kind"`
	Documents  []DocumentView    `json:"documents"`
	References *ReferenceSummary `json:"references,omitempty"`
	Stale      bool              `json:"stale"`
	AsOf       time.Time         `json:"as_of"`
}
