package postgres

import (
	"context"
	"database/sql"

	"compliancedocs/internal/errs"
	"compliancedocs/internal/model"
	"compliancedocs/internal/repository"
)

// ReferencePostgres is a PostgreSQL implementation of repository.ReferenceRepository.
type ReferencePostgres struct {
	db *sql.DB
}

// NewReferencePostgres creates a new ReferencePostgres repository.
func NewReferencePostgres(db *sql.DB) *ReferencePostgres {
	return &ReferencePostgres{db: db}
}

var _ repository.ReferenceRepository = (*ReferencePostgres)(nil)

func (r *ReferencePostgres) List(ctx context.Context, subjectID string) ([]model.Reference, error) {
	const q = `
		SELECT id, subject_id, referee_name, referee_email, relationship, organisation, created_at
		FROM professional_references
		WHERE subject_id = $1
		ORDER BY created_at, id
	`
	rows, err := r.db.QueryContext(ctx, q, subjectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Reference, 0)
	for rows.Next() {
		var ref model.Reference
		if err := rows.Scan(
			&ref.ID,
			&ref.SubjectID,
			&ref.RefereeName,
			&ref.RefereeEmail,
			&ref.Relationship,
			&ref.Organisation,
			&ref.CreatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, ref)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *ReferencePostgres) Count(ctx context.Context, subjectID string) (int, error) {
	const q = `SELECT COUNT(*) FROM professional_references WHERE subject_id = $1`
	var n int
	if err := r.db.QueryRowContext(ctx, q, subjectID).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (r *ReferencePostgres) Create(ctx context.Context, ref *model.Reference) (*model.Reference, error) {
	const q = `
		INSERT INTO professional_references (id, subject_id, referee_name, referee_email, relationship, organisation, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, subject_id, referee_name, referee_email, relationship, organisation, created_at
	`
	var out model.Reference
	if err := r.db.QueryRowContext(ctx, q,
		ref.ID,
		ref.SubjectID,
		ref.RefereeName,
		ref.RefereeEmail,
		ref.Relationship,
		ref.Organisation,
		ref.CreatedAt,
	).Scan(
		&out.ID,
		&out.SubjectID,
		&out.RefereeName,
		&out.RefereeEmail,
		&out.Relationship,
		&out.Organisation,
		&out.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *ReferencePostgres) Delete(ctx context.Context, subjectID, id string) error {
	const q = `DELETE FROM professional_references WHERE id = $1 AND subject_id = $2`
	res, err := r.db.ExecContext(ctx, q, id, subjectID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return errs.ErrNotFound
	}
	return nil
}
