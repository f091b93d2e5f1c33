package model

// Category groups document types for display; the set is closed.
type Category string

const (
	CategoryRegistration Category = "registration"
	CategoryInsurance    Category = "insurance"
	CategoryFinancial    Category = "financial"
	CategoryCompliance   Category = "compliance"
	CategoryProfessional Category = "professional"
	CategoryIdentity     Category = "identity"
)

// Categories lists every accepted category.
var Categories = []Category{
	CategoryRegistration,
	CategoryInsurance,
	CategoryFinancial,
	CategoryCompliance,
	CategoryProfessional,
	CategoryIdentity,
}

// DocumentType describes one required compliance artifact in a subject kind's catalog.
// ValidityYears is only meaningful when AutoExpiry is set.
type DocumentType struct {
	Key               string      `json:"key"`
	SubjectKind       SubjectKind `json:"subject_kind"`
	Name              string      `json:"name"`
	Description       string      `json:"description"`
	Category          Category    `json:"category"`
	Required          bool        `json:"required"`
	AutoExpiry        bool        `json:"auto_expiry"`
	ValidityYears     int         `json:"validity_years,omitempty"`
	ExpiryWarningDays int         `json:"expiry_warning_days"`
	AcceptedFormats   []string    `json:"accepted_formats"`
	SortOrder         int         `json:"sort_order"`
}
