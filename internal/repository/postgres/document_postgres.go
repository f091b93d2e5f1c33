package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"compliancedocs/internal/errs"
	"compliancedocs/internal/model"
	"compliancedocs/internal/repository"
)

const documentColumns = `id, subject_id, document_type_key, original_file_name, file_size, file_type, storage_path,
		issue_date, expiry_date, uploaded_at, verification_status, verification_notes, reviewed_by, reviewed_at`

const currentOnly = `superseded_at IS NULL AND deleted_at IS NULL`

// DocumentPostgres is a PostgreSQL implementation of repository.DocumentRepository.
// It uses database/sql with parameterized queries and contains no business logic.
type DocumentPostgres struct {
	db *sql.DB
}

// NewDocumentPostgres creates a new DocumentPostgres repository.
func NewDocumentPostgres(db *sql.DB) *DocumentPostgres {
	return &DocumentPostgres{db: db}
}

var _ repository.DocumentRepository = (*DocumentPostgres)(nil)

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner, extra ...any) (*model.DocumentRecord, error) {
	var (
		d          model.DocumentRecord
		issue      sql.NullTime
		expiry     sql.NullTime
		reviewedAt sql.NullTime
		status     string
	)
	dest := []any{
		&d.ID,
		&d.SubjectID,
		&d.DocumentTypeKey,
		&d.OriginalFileName,
		&d.FileSize,
		&d.FileType,
		&d.StoragePath,
		&issue,
		&expiry,
		&d.UploadedAt,
		&status,
		&d.VerificationNotes,
		&d.ReviewedBy,
		&reviewedAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}
	d.VerificationStatus = model.VerificationStatus(status)
	d.IssueDate = timePtr(issue)
	d.ExpiryDate = timePtr(expiry)
	d.ReviewedAt = timePtr(reviewedAt)
	return &d, nil
}

func timePtr(nt sql.NullTime) *time.Time {
	if !nt.Valid {
		return nil
	}
	t := nt.Time
	return &t
}

// ListCurrent returns the subject's current records ordered by document type key.
func (r *DocumentPostgres) ListCurrent(ctx context.Context, subjectID string) ([]model.DocumentRecord, error) {
	q := `SELECT ` + documentColumns + `
		FROM documents
		WHERE subject_id = $1 AND ` + currentOnly + `
		ORDER BY document_type_key`
	rows, err := r.db.QueryContext(ctx, q, subjectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.DocumentRecord, 0)
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// FindByID fetches a single record by id together with whether it is still current.
func (r *DocumentPostgres) FindByID(ctx context.Context, id string) (*model.DocumentRecord, bool, error) {
	if !validID(id) {
		return nil, false, errs.ErrNotFound
	}
	q := `SELECT ` + documentColumns + `, (` + currentOnly + `) AS current
		FROM documents
		WHERE id = $1`
	var current bool
	d, err := scanDocument(r.db.QueryRowContext(ctx, q, id), &current)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, errs.ErrNotFound
		}
		return nil, false, err
	}
	return d, current, nil
}

// Replace supersedes the current record for the same subject and type and inserts rec.
// A transaction-scoped advisory lock on (subject, type) serializes concurrent uploads.
func (r *DocumentPostgres) Replace(ctx context.Context, rec *model.DocumentRecord) (*model.DocumentRecord, *model.DocumentRecord, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	const qLock = `SELECT pg_advisory_xact_lock(hashtext($1))`
	if _, err := tx.ExecContext(ctx, qLock, rec.SubjectID+"/"+rec.DocumentTypeKey); err != nil {
		return nil, nil, fmt.Errorf("lock document slot: %w", err)
	}

	qSupersede := `UPDATE documents SET superseded_at = $3
		WHERE subject_id = $1 AND document_type_key = $2 AND ` + currentOnly + `
		RETURNING ` + documentColumns
	previous, err := scanDocument(tx.QueryRowContext(ctx, qSupersede, rec.SubjectID, rec.DocumentTypeKey, rec.UploadedAt))
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			return nil, nil, fmt.Errorf("supersede current: %w", err)
		}
		previous = nil
	}

	qInsert := `INSERT INTO documents (id, subject_id, document_type_key, original_file_name, file_size, file_type,
			storage_path, issue_date, expiry_date, uploaded_at, verification_status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING ` + documentColumns
	stored, err := scanDocument(tx.QueryRowContext(ctx, qInsert,
		rec.ID,
		rec.SubjectID,
		rec.DocumentTypeKey,
		rec.OriginalFileName,
		rec.FileSize,
		rec.FileType,
		rec.StoragePath,
		rec.IssueDate,
		rec.ExpiryDate,
		rec.UploadedAt,
		string(rec.VerificationStatus),
	))
	if err != nil {
		return nil, nil, fmt.Errorf("insert record: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, nil, fmt.Errorf("commit: %w", err)
	}
	return stored, previous, nil
}

// UpdateVerification applies a review decision conditioned on the record still being current.
func (r *DocumentPostgres) UpdateVerification(ctx context.Context, id string, u repository.VerificationUpdate) (*model.DocumentRecord, error) {
	if !validID(id) {
		return nil, errs.ErrNotFound
	}
	q := `UPDATE documents
		SET verification_status = $2, verification_notes = $3, reviewed_by = $4, reviewed_at = $5
		WHERE id = $1 AND ` + currentOnly + `
		RETURNING ` + documentColumns
	d, err := scanDocument(r.db.QueryRowContext(ctx, q, id, string(u.Status), u.Notes, u.ReviewedBy, u.ReviewedAt))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, r.missingReason(ctx, id)
		}
		return nil, err
	}
	return d, nil
}

// Delete tombstones a current record.
func (r *DocumentPostgres) Delete(ctx context.Context, id string, at time.Time) error {
	if !validID(id) {
		return errs.ErrNotFound
	}
	q := `UPDATE documents SET deleted_at = $2 WHERE id = $1 AND ` + currentOnly
	res, err := r.db.ExecContext(ctx, q, id, at)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return r.missingReason(ctx, id)
	}
	return nil
}

// ListPending returns current records awaiting review using LIMIT/OFFSET pagination.
func (r *DocumentPostgres) ListPending(ctx context.Context, pq repository.PageQuery) (*repository.PageResult[model.DocumentRecord], error) {
	qCount := `SELECT COUNT(*) FROM documents WHERE verification_status = 'pending' AND ` + currentOnly
	var total int
	if err := r.db.QueryRowContext(ctx, qCount).Scan(&total); err != nil {
		return nil, err
	}

	qList := `SELECT ` + documentColumns + `
		FROM documents
		WHERE verification_status = 'pending' AND ` + currentOnly + `
		ORDER BY uploaded_at ASC, id ASC
		LIMIT $1 OFFSET $2`
	rows, err := r.db.QueryContext(ctx, qList, pq.Limit, pq.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.DocumentRecord, 0)
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &repository.PageResult[model.DocumentRecord]{
		Items: items,
		Total: total,
	}, nil
}

// validID reports whether id can name a row. The id column is a UUID, so anything else
// would fail the cast in Postgres rather than match nothing.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// missingReason tells a stale id (conflict) from one that never existed (not found).
func (r *DocumentPostgres) missingReason(ctx context.Context, id string) error {
	const q = `SELECT EXISTS (SELECT 1 FROM documents WHERE id = $1)`
	var exists bool
	if err := r.db.QueryRowContext(ctx, q, id).Scan(&exists); err != nil {
		return err
	}
	if exists {
		return errs.ErrConflict
	}
	return errs.ErrNotFound
}
