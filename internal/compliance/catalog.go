package compliance

import (
	"fmt"
	"slices"
	"strings"

	"compliancedocs/internal/errs"
	"compliancedocs/internal/model"
)

var (
	imageAndPDF = []string{"pdf", "jpg", "jpeg", "png"}
	textFormats = []string{"pdf", "doc", "docx"}
)

var doctorCatalog = []model.DocumentType{
	{Key: "gmc-registration", Name: "GMC Registration Certificate", Description: "Current entry on the medical register", Category: model.CategoryRegistration, Required: true, AcceptedFormats: imageAndPDF},
	{Key: "medical-indemnity", Name: "Medical Indemnity Insurance", Description: "Indemnity cover for private practice", Category: model.CategoryInsurance, Required: true, AutoExpiry: true, ValidityYears: 1, AcceptedFormats: imageAndPDF},
	{Key: "dbs-check", Name: "Enhanced DBS Check", Description: "Enhanced disclosure with barred lists", Category: model.CategoryCompliance, Required: true, AutoExpiry: true, ValidityYears: 3, AcceptedFormats: imageAndPDF},
	{Key: "right-to-work", Name: "Right to Work", Description: "Proof of right to work in the UK", Category: model.CategoryIdentity, Required: true, AcceptedFormats: imageAndPDF},
	{Key: "photo-id", Name: "Photo ID", Description: "Passport or driving licence", Category: model.CategoryIdentity, Required: true, AcceptedFormats: imageAndPDF},
	{Key: "cv", Name: "Curriculum Vitae", Description: "Full employment history with gaps explained", Category: model.CategoryProfessional, Required: true, AcceptedFormats: textFormats},
	{Key: "medical-qualification", Name: "Primary Medical Qualification", Description: "Degree certificate", Category: model.CategoryProfessional, Required: true, AcceptedFormats: imageAndPDF},
	{Key: "bls-certificate", Name: "Basic Life Support Certificate", Description: "Annual BLS training", Category: model.CategoryProfessional, Required: true, AutoExpiry: true, ValidityYears: 1, AcceptedFormats: imageAndPDF},
	{Key: "safeguarding-training", Name: "Safeguarding Training", Description: "Level 3 adults and children", Category: model.CategoryCompliance, AutoExpiry: true, ValidityYears: 3, AcceptedFormats: imageAndPDF},
	{Key: "hepatitis-b", Name: "Hepatitis B Immunity", Description: "Serology report", Category: model.CategoryCompliance, AutoExpiry: true, ValidityYears: 5, AcceptedFormats: imageAndPDF},
}

var businessCatalog = []model.DocumentType{
	{Key: "business-license", Name: "Business License", Description: "Licence to operate issued by the local authority", Category: model.CategoryRegistration, Required: true, AutoExpiry: true, ValidityYears: 1, AcceptedFormats: imageAndPDF},
	{Key: "company-registration", Name: "Certificate of Incorporation", Description: "Companies House certificate", Category: model.CategoryRegistration, Required: true, AcceptedFormats: imageAndPDF},
	{Key: "cqc-registration", Name: "CQC Registration", Description: "Care Quality Commission registration", Category: model.CategoryRegistration, Required: true, AcceptedFormats: imageAndPDF},
	{Key: "public-liability-insurance", Name: "Public Liability Insurance", Category: model.CategoryInsurance, Required: true, AutoExpiry: true, ValidityYears: 1, AcceptedFormats: imageAndPDF},
	{Key: "employers-liability-insurance", Name: "Employers' Liability Insurance", Category: model.CategoryInsurance, Required: true, AutoExpiry: true, ValidityYears: 1, AcceptedFormats: imageAndPDF},
	{Key: "bank-verification", Name: "Bank Account Verification Letter", Category: model.CategoryFinancial, Required: true, AcceptedFormats: imageAndPDF},
	{Key: "vat-certificate", Name: "VAT Registration Certificate", Category: model.CategoryFinancial, AcceptedFormats: imageAndPDF},
	{Key: "ico-registration", Name: "ICO Data Protection Registration", Category: model.CategoryCompliance, Required: true, AutoExpiry: true, ValidityYears: 1, AcceptedFormats: imageAndPDF},
	{Key: "director-id", Name: "Director Photo ID", Category: model.CategoryIdentity, Required: true, AcceptedFormats: imageAndPDF},
}

// DefaultCatalog returns the built-in catalog for a subject kind, validated and normalized.
// It seeds the registry and is the fallback of last resort.
func DefaultCatalog(kind model.SubjectKind) []model.DocumentType {
	var src []model.DocumentType
	switch kind {
	case model.SubjectDoctor:
		src = doctorCatalog
	case model.SubjectBusiness:
		src = businessCatalog
	default:
		return nil
	}

	out := make([]model.DocumentType, 0, len(src))
	for i, dt := range src {
		dt.SubjectKind = kind
		dt.SortOrder = i
		dt.AcceptedFormats = slices.Clone(dt.AcceptedFormats)
		norm, err := ValidateDescriptor(dt)
		if err != nil {
			panic(fmt.Sprintf("built-in catalog entry %s: %v", dt.Key, err))
		}
		out = append(out, norm)
	}
	return out
}

// ValidateDescriptor checks the catalog invariants and returns the normalized descriptor:
// formats lower-cased without a leading dot, and a zero warning window replaced by the default.
func ValidateDescriptor(dt model.DocumentType) (model.DocumentType, error) {
	if strings.TrimSpace(dt.Key) == "" {
		return dt, errs.Invalid("key", "must not be empty")
	}
	if strings.TrimSpace(dt.Name) == "" {
		return dt, errs.Invalid("name", "must not be empty")
	}
	if !dt.SubjectKind.Valid() {
		return dt, errs.Invalid("subject_kind", "must be doctor or business")
	}
	if !slices.Contains(model.Categories, dt.Category) {
		return dt, errs.Invalid("category", fmt.Sprintf("unknown category %q", dt.Category))
	}
	if dt.AutoExpiry && dt.ValidityYears <= 0 {
		return dt, errs.Invalid("validity_years", "must be positive when auto_expiry is set")
	}
	if !dt.AutoExpiry && dt.ValidityYears != 0 {
		return dt, errs.Invalid("validity_years", "only allowed when auto_expiry is set")
	}
	if dt.ExpiryWarningDays < 0 {
		return dt, errs.Invalid("expiry_warning_days", "must not be negative")
	}
	if dt.ExpiryWarningDays == 0 {
		dt.ExpiryWarningDays = DefaultWarningDays
	}
	if len(dt.AcceptedFormats) == 0 {
		return dt, errs.Invalid("accepted_formats", "at least one format is required")
	}

	formats := make([]string, 0, len(dt.AcceptedFormats))
	for _, f := range dt.AcceptedFormats {
		f = NormalizeFormat(f)
		if f != "" && !slices.Contains(formats, f) {
			formats = append(formats, f)
		}
	}
	dt.AcceptedFormats = formats
	return dt, nil
}

// NormalizeFormat turns ".PDF", "pdf" and " Pdf " into "pdf".
func NormalizeFormat(f string) string {
	return strings.TrimPrefix(strings.ToLower(strings.TrimSpace(f)), ".")
}

// AcceptsFile reports whether fileName's extension is one of dt's accepted formats.
func AcceptsFile(dt model.DocumentType, fileName string) bool {
	i := strings.LastIndexByte(fileName, '.')
	if i < 0 {
		return false
	}
	return slices.Contains(dt.AcceptedFormats, NormalizeFormat(fileName[i+1:]))
}
