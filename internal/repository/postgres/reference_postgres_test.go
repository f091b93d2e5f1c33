package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"compliancedocs/internal/errs"
	"compliancedocs/internal/model"
)

var refCols = []string{"id", "subject_id", "referee_name", "referee_email", "relationship", "organisation", "created_at"}

func TestReferencePostgres_ListAndCount(t *testing.T) {
	db, mock := newMock(t)
	repo := NewReferencePostgres(db)
	created := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery("SELECT (.+) FROM professional_references WHERE subject_id = \\$1").
		WithArgs("doc-1").
		WillReturnRows(sqlmock.NewRows(refCols).AddRow("ref-1", "doc-1", "Dr Jane Roe", "jane@example.com", "Supervisor", "St Mary's", created))
	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM professional_references").
		WithArgs("doc-1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	items, err := repo.List(context.Background(), "doc-1")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Dr Jane Roe", items[0].RefereeName)

	n, err := repo.Count(context.Background(), "doc-1")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReferencePostgres_Create(t *testing.T) {
	db, mock := newMock(t)
	repo := NewReferencePostgres(db)
	created := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	ref := &model.Reference{ID: "ref-1", SubjectID: "doc-1", RefereeName: "Dr Jane Roe", RefereeEmail: "jane@example.com", CreatedAt: created}

	mock.ExpectQuery("INSERT INTO professional_references").
		WithArgs("ref-1", "doc-1", "Dr Jane Roe", "jane@example.com", "", "", created).
		WillReturnRows(sqlmock.NewRows(refCols).AddRow("ref-1", "doc-1", "Dr Jane Roe", "jane@example.com", "", "", created))

	out, err := repo.Create(context.Background(), ref)

	require.NoError(t, err)
	assert.Equal(t, "ref-1", out.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReferencePostgres_Delete(t *testing.T) {
	db, mock := newMock(t)
	repo := NewReferencePostgres(db)

	mock.ExpectExec("DELETE FROM professional_references").
		WithArgs("ref-1", "doc-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM professional_references").
		WithArgs("ref-9", "doc-1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.NoError(t, repo.Delete(context.Background(), "doc-1", "ref-1"))
	assert.ErrorIs(t, repo.Delete(context.Background(), "doc-1", "ref-9"), errs.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
