package postgres

import (
	"context"
	"database/sql"

	"github.com/lib/pq"

	"compliancedocs/internal/repository"
)

// NotificationReadPostgres stores read flags in notification_reads.
type NotificationReadPostgres struct {
	db *sql.DB
}

// NewNotificationReadPostgres creates a new NotificationReadPostgres repository.
func NewNotificationReadPostgres(db *sql.DB) *NotificationReadPostgres {
	return &NotificationReadPostgres{db: db}
}

var _ repository.NotificationReadRepository = (*NotificationReadPostgres)(nil)

// ReadSet returns the subset of ids the viewer has read.
func (r *NotificationReadPostgres) ReadSet(ctx context.Context, viewerID string, ids []string) (map[string]bool, error) {
	read := make(map[string]bool, len(ids))
	if len(ids) == 0 {
		return read, nil
	}

	const q = `
		SELECT notification_id
		FROM notification_reads
		WHERE viewer_id = $1 AND notification_id = ANY($2::text[])
	`
	rows, err := r.db.QueryContext(ctx, q, viewerID, pq.Array(ids))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		read[id] = true
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return read, nil
}

// MarkRead inserts read flags; rows that already exist are kept as they are.
func (r *NotificationReadPostgres) MarkRead(ctx context.Context, viewerID string, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	const q = `
		INSERT INTO notification_reads (viewer_id, notification_id)
		SELECT $1, unnest($2::text[])
		ON CONFLICT (viewer_id, notification_id) DO NOTHING
	`
	_, err := r.db.ExecContext(ctx, q, viewerID, pq.Array(ids))
	return err
}
