package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"compliancedocs/internal/errs"
	"compliancedocs/internal/model"
	"compliancedocs/internal/repository"
)

var docCols = []string{
	"id", "subject_id", "document_type_key", "original_file_name", "file_size", "file_type", "storage_path",
	"issue_date", "expiry_date", "uploaded_at", "verification_status", "verification_notes", "reviewed_by", "reviewed_at",
}

func docRow(id, status string, issue any, uploaded time.Time) []any {
	return []any{id, "doc-1", "dbs-check", "dbs.pdf", int64(2048), "application/pdf", "documents/doc-1/dbs-check/" + id + ".pdf",
		issue, nil, uploaded, status, "", "", nil}
}

const (
	recordID  = "6f1c2a9e-3b7d-4c55-9a1e-2f4b8d0c7e11"
	unknownID = "0b5e8d42-91c3-4f7a-8e26-d3a4c9f1b570"
)

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	t.Cleanup(func() { db.Close() })
	return db, mock
}

func TestDocumentPostgres_ListCurrent(t *testing.T) {
	db, mock := newMock(t)
	repo := NewDocumentPostgres(db)
	uploaded := time.Date(2025, 1, 2, 10, 0, 0, 0, time.UTC)
	issue := time.Date(2022, 1, 10, 0, 0, 0, 0, time.UTC)

	rows := sqlmock.NewRows(docCols).
		AddRow(docRow("r1", "verified", issue, uploaded)...).
		AddRow(docRow("r2", "pending", nil, uploaded)...)
	mock.ExpectQuery("SELECT (.+) FROM documents WHERE subject_id = \\$1 AND superseded_at IS NULL").
		WithArgs("doc-1").
		WillReturnRows(rows)

	items, err := repo.ListCurrent(context.Background(), "doc-1")

	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, model.VerificationVerified, items[0].VerificationStatus)
	require.NotNil(t, items[0].IssueDate)
	assert.True(t, issue.Equal(*items[0].IssueDate))
	assert.Nil(t, items[1].IssueDate)
	assert.Nil(t, items[1].ReviewedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentPostgres_FindByID(t *testing.T) {
	db, mock := newMock(t)
	repo := NewDocumentPostgres(db)
	ctx := context.Background()

	t.Run("found superseded", func(t *testing.T) {
		rows := sqlmock.NewRows(append(docCols, "current")).
			AddRow(append(docRow(recordID, "rejected", nil, time.Now()), false)...)
		mock.ExpectQuery("SELECT (.+) FROM documents WHERE id = \\$1").
			WithArgs(recordID).
			WillReturnRows(rows)

		doc, current, err := repo.FindByID(ctx, recordID)

		assert.NoError(t, err)
		assert.False(t, current)
		assert.Equal(t, recordID, doc.ID)
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM documents WHERE id = \\$1").
			WithArgs(unknownID).
			WillReturnError(sql.ErrNoRows)

		doc, _, err := repo.FindByID(ctx, unknownID)

		assert.ErrorIs(t, err, errs.ErrNotFound)
		assert.Nil(t, doc)
	})
}

func TestDocumentPostgres_Replace(t *testing.T) {
	uploaded := time.Date(2025, 1, 5, 9, 0, 0, 0, time.UTC)
	rec := &model.DocumentRecord{
		ID:                 "r2",
		SubjectID:          "doc-1",
		DocumentTypeKey:    "dbs-check",
		OriginalFileName:   "dbs.pdf",
		FileSize:           2048,
		FileType:           "application/pdf",
		StoragePath:        "documents/doc-1/dbs-check/r2.pdf",
		UploadedAt:         uploaded,
		VerificationStatus: model.VerificationPending,
	}

	t.Run("supersedes previous", func(t *testing.T) {
		db, mock := newMock(t)
		repo := NewDocumentPostgres(db)

		mock.ExpectBegin()
		mock.ExpectExec("SELECT pg_advisory_xact_lock").
			WithArgs("doc-1/dbs-check").
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery("UPDATE documents SET superseded_at").
			WithArgs("doc-1", "dbs-check", uploaded).
			WillReturnRows(sqlmock.NewRows(docCols).AddRow(docRow("r1", "rejected", nil, uploaded.Add(-time.Hour))...))
		mock.ExpectQuery("INSERT INTO documents").
			WillReturnRows(sqlmock.NewRows(docCols).AddRow(docRow("r2", "pending", nil, uploaded)...))
		mock.ExpectCommit()

		stored, previous, err := repo.Replace(context.Background(), rec)

		require.NoError(t, err)
		assert.Equal(t, "r2", stored.ID)
		require.NotNil(t, previous)
		assert.Equal(t, "r1", previous.ID)
		assert.Equal(t, model.VerificationRejected, previous.VerificationStatus)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("first upload", func(t *testing.T) {
		db, mock := newMock(t)
		repo := NewDocumentPostgres(db)

		mock.ExpectBegin()
		mock.ExpectExec("SELECT pg_advisory_xact_lock").WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery("UPDATE documents SET superseded_at").WillReturnError(sql.ErrNoRows)
		mock.ExpectQuery("INSERT INTO documents").
			WillReturnRows(sqlmock.NewRows(docCols).AddRow(docRow("r2", "pending", nil, uploaded)...))
		mock.ExpectCommit()

		stored, previous, err := repo.Replace(context.Background(), rec)

		require.NoError(t, err)
		assert.Equal(t, "r2", stored.ID)
		assert.Nil(t, previous)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("insert fails rolls back", func(t *testing.T) {
		db, mock := newMock(t)
		repo := NewDocumentPostgres(db)

		mock.ExpectBegin()
		mock.ExpectExec("SELECT pg_advisory_xact_lock").WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery("UPDATE documents SET superseded_at").WillReturnError(sql.ErrNoRows)
		mock.ExpectQuery("INSERT INTO documents").WillReturnError(errors.New("unique violation"))
		mock.ExpectRollback()

		_, _, err := repo.Replace(context.Background(), rec)

		assert.ErrorContains(t, err, "insert record: unique violation")
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestDocumentPostgres_UpdateVerification(t *testing.T) {
	reviewedAt := time.Date(2025, 1, 6, 8, 0, 0, 0, time.UTC)
	update := repository.VerificationUpdate{
		Status:     model.VerificationRejected,
		Notes:      "illegible scan",
		ReviewedBy: "admin-1",
		ReviewedAt: reviewedAt,
	}

	t.Run("current record", func(t *testing.T) {
		db, mock := newMock(t)
		repo := NewDocumentPostgres(db)

		row := docRow(recordID, "rejected", nil, reviewedAt.Add(-time.Hour))
		row[11] = "illegible scan"
		mock.ExpectQuery("UPDATE documents SET verification_status").
			WithArgs(recordID, "rejected", "illegible scan", "admin-1", reviewedAt).
			WillReturnRows(sqlmock.NewRows(docCols).AddRow(row...))

		doc, err := repo.UpdateVerification(context.Background(), recordID, update)

		require.NoError(t, err)
		assert.Equal(t, model.VerificationRejected, doc.VerificationStatus)
		assert.Equal(t, "illegible scan", doc.VerificationNotes)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("superseded record conflicts", func(t *testing.T) {
		db, mock := newMock(t)
		repo := NewDocumentPostgres(db)

		mock.ExpectQuery("UPDATE documents SET verification_status").WillReturnError(sql.ErrNoRows)
		mock.ExpectQuery("SELECT EXISTS").
			WithArgs(recordID).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

		_, err := repo.UpdateVerification(context.Background(), recordID, update)

		assert.ErrorIs(t, err, errs.ErrConflict)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unknown record", func(t *testing.T) {
		db, mock := newMock(t)
		repo := NewDocumentPostgres(db)

		mock.ExpectQuery("UPDATE documents SET verification_status").WillReturnError(sql.ErrNoRows)
		mock.ExpectQuery("SELECT EXISTS").
			WithArgs(unknownID).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

		_, err := repo.UpdateVerification(context.Background(), unknownID, update)

		assert.ErrorIs(t, err, errs.ErrNotFound)
	})
}

func TestDocumentPostgres_Delete(t *testing.T) {
	at := time.Date(2025, 1, 6, 8, 0, 0, 0, time.UTC)

	t.Run("current", func(t *testing.T) {
		db, mock := newMock(t)
		repo := NewDocumentPostgres(db)

		mock.ExpectExec("UPDATE documents SET deleted_at").
			WithArgs(recordID, at).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.Delete(context.Background(), recordID, at))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("already gone", func(t *testing.T) {
		db, mock := newMock(t)
		repo := NewDocumentPostgres(db)

		mock.ExpectExec("UPDATE documents SET deleted_at").WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery("SELECT EXISTS").WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

		assert.ErrorIs(t, repo.Delete(context.Background(), recordID, at), errs.ErrConflict)
	})
}

func TestDocumentPostgres_MalformedIDIsNotFound(t *testing.T) {
	db, mock := newMock(t)
	repo := NewDocumentPostgres(db)
	ctx := context.Background()

	for _, id := range []string{"42", "", "not-a-uuid"} {
		t.Run("id "+id, func(t *testing.T) {
			doc, _, err := repo.FindByID(ctx, id)
			assert.ErrorIs(t, err, errs.ErrNotFound)
			assert.Nil(t, doc)

			_, err = repo.UpdateVerification(ctx, id, repository.VerificationUpdate{Status: model.VerificationVerified})
			assert.ErrorIs(t, err, errs.ErrNotFound)

			assert.ErrorIs(t, repo.Delete(ctx, id, time.Now()), errs.ErrNotFound)
		})
	}

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentPostgres_ListPending(t *testing.T) {
	db, mock := newMock(t)
	repo := NewDocumentPostgres(db)

	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM documents WHERE verification_status = 'pending'").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery("SELECT (.+) FROM documents WHERE verification_status = 'pending'(.+)ORDER BY uploaded_at").
		WithArgs(10, 0).
		WillReturnRows(sqlmock.NewRows(docCols).AddRow(docRow("r1", "pending", nil, time.Now())...))

	res, err := repo.ListPending(context.Background(), repository.PageQuery{Limit: 10, Offset: 0})

	require.NoError(t, err)
	assert.Equal(t, 1, res.Total)
	assert.Len(t, res.Items, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}
