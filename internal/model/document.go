package model

import "time"

// SubjectKind identifies who a document set belongs to. It only selects the catalog;
// status derivation is identical for every kind.
type SubjectKind string

const (
	SubjectDoctor   SubjectKind = "doctor"
	SubjectBusiness SubjectKind = "business"
)

// Valid reports whether k is a known subject kind.
func (k SubjectKind) Valid() bool {
	return k == SubjectDoctor || k == SubjectBusiness
}

// VerificationStatus is the admin-controlled review state of a record.
type VerificationStatus string

const (
	VerificationPending  VerificationStatus = "pending"
	VerificationVerified VerificationStatus = "verified"
	VerificationRejected VerificationStatus = "rejected"
)

// DocumentRecord is the current uploaded file satisfying one document type for one subject.
// Upload replaces the record wholesale; the previous one is kept only as superseded history.
type DocumentRecord struct {
	ID                 string             `json:"id"`
	SubjectID          string             `json:"subject_id"`
	DocumentTypeKey    string             `json:"document_type_key"`
	OriginalFileName   string             `json:"original_file_name"`
	FileSize           int64              `json:"file_size"`
	FileType           string             `json:"file_type"`
	StoragePath        string             `json:"-"`
	IssueDate          *time.Time         `json:"issue_date,omitempty"`
	ExpiryDate         *time.Time         `json:"expiry_date,omitempty"`
	UploadedAt         time.Time          `json:"uploaded_at"`
	VerificationStatus VerificationStatus `json:"verification_status"`
	VerificationNotes  string             `json:"verification_notes,omitempty"`
	ReviewedBy         string             `json:"reviewed_by,omitempty"`
	ReviewedAt         *time.Time         `json:"reviewed_at,omitempty"`
}
