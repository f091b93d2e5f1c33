package postgres

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotificationReadPostgres_ReadSet(t *testing.T) {
	db, mock := newMock(t)
	repo := NewNotificationReadPostgres(db)

	mock.ExpectQuery("SELECT notification_id FROM notification_reads WHERE viewer_id = \\$1").
		WithArgs("user-1", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"notification_id"}).AddRow("dbs-check:expiring:r1"))

	read, err := repo.ReadSet(context.Background(), "user-1", []string{"dbs-check:expiring:r1", "cv:missing:none"})

	require.NoError(t, err)
	assert.True(t, read["dbs-check:expiring:r1"])
	assert.False(t, read["cv:missing:none"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNotificationReadPostgres_ReadSet_Empty(t *testing.T) {
	db, mock := newMock(t)
	repo := NewNotificationReadPostgres(db)

	read, err := repo.ReadSet(context.Background(), "user-1", nil)

	require.NoError(t, err)
	assert.Empty(t, read)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNotificationReadPostgres_MarkRead(t *testing.T) {
	db, mock := newMock(t)
	repo := NewNotificationReadPostgres(db)

	mock.ExpectExec("INSERT INTO notification_reads").
		WithArgs("user-1", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 2))

	require.NoError(t, repo.MarkRead(context.Background(), "user-1", "a", "b"))
	require.NoError(t, repo.MarkRead(context.Background(), "user-1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
