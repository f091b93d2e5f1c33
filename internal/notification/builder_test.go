package notification

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"compliancedocs/internal/compliance"
	"compliancedocs/internal/model"
)

var now = time.Date(2025, time.January, 5, 0, 0, 0, 0, time.UTC)

func docType(key string, required, autoExpiry bool, order int) model.DocumentType {
	dt := model.DocumentType{
		Key:               key,
		SubjectKind:       model.SubjectDoctor,
		Name:              key,
		Category:          model.CategoryCompliance,
		Required:          required,
		AutoExpiry:        autoExpiry,
		ExpiryWarningDays: 30,
		SortOrder:         order,
	}
	if autoExpiry {
		dt.ValidityYears = 1
	}
	return dt
}

func entry(dt model.DocumentType, rec *model.DocumentRecord) Entry {
	return Entry{Type: dt, Record: rec, Evaluation: compliance.Evaluate(rec, dt, now)}
}

func issuedOn(id string, issue time.Time, vs model.VerificationStatus) *model.DocumentRecord {
	return &model.DocumentRecord{ID: id, IssueDate: &issue, UploadedAt: issue, VerificationStatus: vs}
}

func doctor() Subject {
	return Subject{ID: "doc-1", Kind: model.SubjectDoctor, References: model.ReferenceSummary{Status: model.ReferencesHasEntries, Count: 2}}
}

func TestBuild_GenerationRules(t *testing.T) {
	tests := []struct {
		name           string
		entry          Entry
		wantNone       bool
		wantCategory   model.NotificationCategory
		wantType       model.NotificationType
		wantAction     bool
		wantUrgent     bool
		wantIDContains string
	}{
		{
			name:         "missing required",
			entry:        entry(docType("cv", true, false, 0), nil),
			wantCategory: model.CategoryComplianceNote, wantType: model.NotificationWarning, wantAction: true,
			wantIDContains: "cv:compliance:none",
		},
		{
			name:     "missing optional is suppressed",
			entry:    entry(docType("vat", false, false, 0), nil),
			wantNone: true,
		},
		{
			name:         "expired",
			entry:        entry(docType("bls", true, true, 0), issuedOn("r1", now.AddDate(-1, 0, -3), model.VerificationVerified)),
			wantCategory: model.CategoryExpired, wantType: model.NotificationError, wantAction: true, wantUrgent: true,
		},
		{
			name:         "expiring within a week",
			entry:        entry(docType("bls", true, true, 0), issuedOn("r2", now.AddDate(-1, 0, 5), model.VerificationVerified)),
			wantCategory: model.CategoryExpiring, wantType: model.NotificationWarning, wantAction: true, wantUrgent: true,
		},
		{
			name:         "expiring later is informational",
			entry:        entry(docType("bls", true, true, 0), issuedOn("r3", now.AddDate(-1, 0, 20), model.VerificationVerified)),
			wantCategory: model.CategoryExpiring, wantType: model.NotificationWarning,
		},
		{
			name:         "pending review",
			entry:        entry(docType("cv", true, false, 0), issuedOn("r4", now.AddDate(0, -1, 0), model.VerificationPending)),
			wantCategory: model.CategoryReview, wantType: model.NotificationInfo,
		},
		{
			name:         "rejected",
			entry:        entry(docType("cv", true, false, 0), issuedOn("r5", now.AddDate(0, -1, 0), model.VerificationRejected)),
			wantCategory: model.CategoryRejected, wantType: model.NotificationError, wantAction: true, wantUrgent: true,
		},
		{
			name:         "expiring rejected record warns about expiry",
			entry:        entry(docType("bls", true, true, 0), issuedOn("r6", now.AddDate(-1, 0, 20), model.VerificationRejected)),
			wantCategory: model.CategoryExpiring, wantType: model.NotificationWarning,
		},
		{
			name:         "verified",
			entry:        entry(docType("cv", true, false, 0), issuedOn("r7", now.AddDate(0, -1, 0), model.VerificationVerified)),
			wantCategory: model.CategoryUpload, wantType: model.NotificationSuccess,
			wantIDContains: "cv:upload:r7",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			feed := Build(doctor(), []Entry{tt.entry}, now)
			if tt.wantNone {
				assert.Empty(t, feed)
				return
			}
			require.Len(t, feed, 1)
			n := feed[0]
			assert.Equal(t, tt.wantCategory, n.Category)
			assert.Equal(t, tt.wantType, n.Type)
			assert.Equal(t, tt.wantAction, n.ActionRequired)
			assert.Equal(t, tt.wantUrgent, n.Urgent)
			assert.False(t, n.Read)
			if tt.wantIDContains != "" {
				assert.Equal(t, tt.wantIDContains, n.ID)
			}
		})
	}
}

func TestBuild_RejectionNoteInMessage(t *testing.T) {
	rec := issuedOn("r1", now.AddDate(0, -1, 0), model.VerificationRejected)
	rec.VerificationNotes = "illegible scan"

	feed := Build(doctor(), []Entry{entry(docType("cv", true, false, 0), rec)}, now)

	require.Len(t, feed, 1)
	assert.Contains(t, feed[0].Message, "illegible scan")
}

func TestBuild_Ordering(t *testing.T) {
	entries := []Entry{
		entry(docType("verified-old", true, false, 0), issuedOn("v1", now.AddDate(0, -3, 0), model.VerificationVerified)),
		entry(docType("missing-b", true, false, 5), nil),
		entry(docType("expiring-late", true, true, 1), issuedOn("e2", now.AddDate(-1, 0, 25), model.VerificationVerified)),
		entry(docType("pending-new", true, false, 2), issuedOn("p1", now.AddDate(0, 0, -1), model.VerificationPending)),
		entry(docType("expired", true, true, 3), issuedOn("x1", now.AddDate(-1, 0, -10), model.VerificationVerified)),
		entry(docType("missing-a", true, false, 4), nil),
		entry(docType("expiring-soon", true, true, 6), issuedOn("e1", now.AddDate(-1, 0, 3), model.VerificationVerified)),
		entry(docType("rejected", true, false, 7), issuedOn("j1", now.AddDate(0, 0, -2), model.VerificationRejected)),
	}

	feed := Build(doctor(), entries, now)

	var keys []string
	for _, n := range feed {
		keys = append(keys, n.DocumentTypeKey)
	}
	assert.Equal(t, []string{
		"rejected",      // urgent, most recent
		"expired",       // urgent, older
		"expiring-soon", // soonest expiry first
		"expiring-late",
		"missing-a", // catalog order
		"missing-b",
		"pending-new", // informational, newest first
		"verified-old",
	}, keys)
}

func TestBuild_MissingReferencesForDoctorsOnly(t *testing.T) {
	subject := doctor()
	subject.References = model.ReferenceSummary{Status: model.ReferencesMissing}

	feed := Build(subject, nil, now)
	require.Len(t, feed, 1)
	assert.Equal(t, model.CategoryComplianceNote, feed[0].Category)
	assert.Equal(t, "professional-references", feed[0].DocumentTypeKey)

	subject.Kind = model.SubjectBusiness
	assert.Empty(t, Build(subject, nil, now))
}

func TestBuild_NewUploadYieldsNewID(t *testing.T) {
	dt := docType("cv", true, false, 0)
	first := Build(doctor(), []Entry{entry(dt, issuedOn("r1", now, model.VerificationPending))}, now)
	second := Build(doctor(), []Entry{entry(dt, issuedOn("r2", now, model.VerificationPending))}, now)

	assert.NotEqual(t, first[0].ID, second[0].ID)
}

func TestBuildReviewQueue(t *testing.T) {
	dt := docType("dbs-check", true, true, 0)
	older := model.DocumentRecord{ID: "a", SubjectID: "doc-1", OriginalFileName: "dbs.pdf", UploadedAt: now.Add(-2 * time.Hour)}
	newer := model.DocumentRecord{ID: "b", SubjectID: "doc-2", OriginalFileName: "dbs2.pdf", UploadedAt: now.Add(-time.Hour)}

	feed := BuildReviewQueue([]PendingReview{{Record: older, Type: dt}, {Record: newer, Type: dt}})

	require.Len(t, feed, 2)
	assert.Equal(t, "/admin/documents/b", feed[0].ActionURL)
	assert.Equal(t, "doc-2", feed[0].SubjectID)
	for _, n := range feed {
		assert.True(t, n.ActionRequired)
		assert.Equal(t, model.CategoryReview, n.Category)
	}
}
