package notification

import (
	"cmp"
	"fmt"
	"slices"
	"time"

	"compliancedocs/internal/compliance"
	"compliancedocs/internal/model"
)

// UrgentExpiryDays is the threshold under which an expiring document requires action.
const UrgentExpiryDays = 7

const referencesKey = "professional-references"

// Entry is one catalog document as seen by the builder.
type Entry struct {
	Type       model.DocumentType
	Record     *model.DocumentRecord
	Evaluation compliance.Evaluation
}

// Subject carries what the builder needs to know about the feed owner.
type Subject struct {
	ID         string
	Kind       model.SubjectKind
	References model.ReferenceSummary
}

type bucket int

const (
	bucketUrgent bucket = iota
	bucketExpiring
	bucketMissing
	bucketInformational
)

type candidate struct {
	n      model.Notification
	bucket bucket
	// expiry orders the expiring bucket, soonest first.
	expiry time.Time
	// order keeps catalog order inside the missing bucket.
	order int
}

// Build produces the ranked notification feed for one subject. Read flags are all false;
// overlay them with ApplyRead.
func Build(subject Subject, entries []Entry, now time.Time) []model.Notification {
	cands := make([]candidate, 0, len(entries)+1)
	for _, e := range entries {
		if c, ok := candidateFor(subject, e, now); ok {
			cands = append(cands, c)
		}
	}
	if subject.Kind == model.SubjectDoctor && subject.References.Status == model.ReferencesMissing {
		cands = append(cands, candidate{
			bucket: bucketMissing,
			order:  len(entries),
			n: model.Notification{
				ID:              notificationID(referencesKey, model.CategoryComplianceNote, ""),
				SubjectID:       subject.ID,
				DocumentTypeKey: referencesKey,
				Type:            model.NotificationWarning,
				Category:        model.CategoryComplianceNote,
				Title:           "Professional references required",
				Message:         "Add at least one professional reference to complete your profile.",
				ActionRequired:  true,
				ActionURL:       fmt.Sprintf("/%s/references", subject.Kind),
				ActionText:      "Add reference",
				Timestamp:       now,
			},
		})
	}
	return rank(cands)
}

func candidateFor(subject Subject, e Entry, now time.Time) (candidate, bool) {
	dt, rec, ev := e.Type, e.Record, e.Evaluation
	docURL := fmt.Sprintf("/%s/documents?type=%s", subject.Kind, dt.Key)
	base := model.Notification{
		SubjectID:       subject.ID,
		DocumentTypeKey: dt.Key,
		ActionURL:       docURL,
	}

	switch ev.Status {
	case model.StatusMissing:
		if !dt.Required {
			return candidate{}, false
		}
		n := base
		n.ID = notificationID(dt.Key, model.CategoryComplianceNote, "")
		n.Type = model.NotificationWarning
		n.Category = model.CategoryComplianceNote
		n.Title = dt.Name + " required"
		n.Message = fmt.Sprintf("Upload your %s to complete your compliance profile.", dt.Name)
		n.ActionRequired = true
		n.ActionText = "Upload document"
		n.Timestamp = now
		return candidate{n: n, bucket: bucketMissing, order: dt.SortOrder}, true

	case model.StatusExpired:
		n := base
		n.ID = notificationID(dt.Key, model.CategoryExpired, rec.ID)
		n.Type = model.NotificationError
		n.Category = model.CategoryExpired
		n.Title = dt.Name + " expired"
		n.Message = fmt.Sprintf("Your %s expired on %s. Upload a renewed document.", dt.Name, formatDate(*ev.ExpiryDate))
		n.ActionRequired = true
		n.ActionText = "Upload renewal"
		n.Urgent = true
		n.Timestamp = *ev.ExpiryDate
		return candidate{n: n, bucket: bucketUrgent}, true
	}

	if ev.Status == model.StatusExpiring {
		days := *ev.DaysUntilExpiry
		n := base
		n.ID = notificationID(dt.Key, model.CategoryExpiring, rec.ID)
		n.Type = model.NotificationWarning
		n.Category = model.CategoryExpiring
		n.Title = dt.Name + " expiring soon"
		n.Message = fmt.Sprintf("Your %s expires in %s on %s.", dt.Name, pluralDays(days), formatDate(*ev.ExpiryDate))
		n.ActionRequired = days <= UrgentExpiryDays
		n.Urgent = n.ActionRequired
		n.ActionText = "Upload renewal"
		n.Timestamp = now
		return candidate{n: n, bucket: bucketExpiring, expiry: *ev.ExpiryDate}, true
	}

	// Only an in-date upload reports its review outcome; expiry warnings take precedence.
	if rec.VerificationStatus == model.VerificationRejected {
		n := base
		n.ID = notificationID(dt.Key, model.CategoryRejected, rec.ID)
		n.Type = model.NotificationError
		n.Category = model.CategoryRejected
		n.Title = dt.Name + " rejected"
		n.Message = fmt.Sprintf("Your %s was rejected. Please upload a new copy.", dt.Name)
		if rec.VerificationNotes != "" {
			n.Message = fmt.Sprintf("Your %s was rejected: %s. Please upload a new copy.", dt.Name, rec.VerificationNotes)
		}
		n.ActionRequired = true
		n.ActionText = "Upload new copy"
		n.Urgent = true
		n.Timestamp = reviewedOrUploaded(rec)
		return candidate{n: n, bucket: bucketUrgent}, true
	}

	switch rec.VerificationStatus {
	case model.VerificationVerified:
		n := base
		n.ID = notificationID(dt.Key, model.CategoryUpload, rec.ID)
		n.Type = model.NotificationSuccess
		n.Category = model.CategoryUpload
		n.Title = dt.Name + " verified"
		n.Message = fmt.Sprintf("Your %s has been verified.", dt.Name)
		n.ActionURL = ""
		n.Timestamp = reviewedOrUploaded(rec)
		return candidate{n: n, bucket: bucketInformational}, true
	default:
		n := base
		n.ID = notificationID(dt.Key, model.CategoryReview, rec.ID)
		n.Type = model.NotificationInfo
		n.Category = model.CategoryReview
		n.Title = dt.Name + " under review"
		n.Message = fmt.Sprintf("Your %s has been uploaded and is awaiting review.", dt.Name)
		n.ActionURL = ""
		n.Timestamp = rec.UploadedAt
		return candidate{n: n, bucket: bucketInformational}, true
	}
}

// PendingReview is a record awaiting an admin decision.
type PendingReview struct {
	Record model.DocumentRecord
	Type   model.DocumentType
}

// BuildReviewQueue produces the admin-side feed: one actionable review item per pending record.
func BuildReviewQueue(pending []PendingReview) []model.Notification {
	cands := make([]candidate, 0, len(pending))
	for _, p := range pending {
		cands = append(cands, candidate{
			bucket: bucketInformational,
			n: model.Notification{
				ID:              "admin:" + notificationID(p.Type.Key, model.CategoryReview, p.Record.ID),
				SubjectID:       p.Record.SubjectID,
				DocumentTypeKey: p.Type.Key,
				Type:            model.NotificationInfo,
				Category:        model.CategoryReview,
				Title:           p.Type.Name + " awaiting review",
				Message:         fmt.Sprintf("%s uploaded %s for %s.", p.Record.SubjectID, p.Record.OriginalFileName, p.Type.Name),
				ActionRequired:  true,
				ActionURL:       "/admin/documents/" + p.Record.ID,
				ActionText:      "Review document",
				Timestamp:       p.Record.UploadedAt,
			},
		})
	}
	return rank(cands)
}

func rank(cands []candidate) []model.Notification {
	slices.SortStableFunc(cands, func(a, b candidate) int {
		if c := cmp.Compare(a.bucket, b.bucket); c != 0 {
			return c
		}
		switch a.bucket {
		case bucketExpiring:
			if c := a.expiry.Compare(b.expiry); c != 0 {
				return c
			}
		case bucketMissing:
			if c := cmp.Compare(a.order, b.order); c != 0 {
				return c
			}
		default:
			if c := b.n.Timestamp.Compare(a.n.Timestamp); c != 0 {
				return c
			}
		}
		return cmp.Compare(a.n.ID, b.n.ID)
	})

	out := make([]model.Notification, len(cands))
	for i, c := range cands {
		out[i] = c.n
	}
	return out
}

func notificationID(typeKey string, cat model.NotificationCategory, recordID string) string {
	if recordID == "" {
		recordID = "none"
	}
	return fmt.Sprintf("%s:%s:%s", typeKey, cat, recordID)
}

func reviewedOrUploaded(rec *model.DocumentRecord) time.Time {
	if rec.ReviewedAt != nil {
		return *rec.ReviewedAt
	}
	return rec.UploadedAt
}

func formatDate(t time.Time) string {
	return t.Format("2 Jan 2006")
}

func pluralDays(n int) string {
	if n == 1 {
		return "1 day"
	}
	return fmt.Sprintf("%d days", n)
}
