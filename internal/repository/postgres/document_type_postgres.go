package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"compliancedocs/internal/errs"
	"compliancedocs/internal/model"
	"compliancedocs/internal/repository"
)

const documentTypeColumns = `key, subject_kind, name, description, category, required, auto_expiry,
		validity_years, expiry_warning_days, accepted_formats, sort_order`

// DocumentTypePostgres is a PostgreSQL implementation of repository.DocumentTypeRepository.
type DocumentTypePostgres struct {
	db *sql.DB
}

// NewDocumentTypePostgres creates a new DocumentTypePostgres repository.
func NewDocumentTypePostgres(db *sql.DB) *DocumentTypePostgres {
	return &DocumentTypePostgres{db: db}
}

var _ repository.DocumentTypeRepository = (*DocumentTypePostgres)(nil)

func scanDocumentType(row rowScanner) (*model.DocumentType, error) {
	var (
		dt       model.DocumentType
		kind     string
		category string
		validity sql.NullInt64
		formats  pq.StringArray
	)
	if err := row.Scan(
		&dt.Key,
		&kind,
		&dt.Name,
		&dt.Description,
		&category,
		&dt.Required,
		&dt.AutoExpiry,
		&validity,
		&dt.ExpiryWarningDays,
		&formats,
		&dt.SortOrder,
	); err != nil {
		return nil, err
	}
	dt.SubjectKind = model.SubjectKind(kind)
	dt.Category = model.Category(category)
	if validity.Valid {
		dt.ValidityYears = int(validity.Int64)
	}
	dt.AcceptedFormats = []string(formats)
	return &dt, nil
}

// List returns the catalog for a subject kind.
func (r *DocumentTypePostgres) List(ctx context.Context, kind model.SubjectKind) ([]model.DocumentType, error) {
	q := `SELECT ` + documentTypeColumns + `
		FROM document_types
		WHERE subject_kind = $1
		ORDER BY sort_order, key`
	rows, err := r.db.QueryContext(ctx, q, string(kind))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.DocumentType, 0)
	for rows.Next() {
		dt, err := scanDocumentType(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *dt)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// FindByKey fetches one descriptor.
func (r *DocumentTypePostgres) FindByKey(ctx context.Context, key string) (*model.DocumentType, error) {
	q := `SELECT ` + documentTypeColumns + ` FROM document_types WHERE key = $1`
	dt, err := scanDocumentType(r.db.QueryRowContext(ctx, q, key))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errs.ErrNotFound
		}
		return nil, err
	}
	return dt, nil
}

// Seed inserts descriptors that are not stored yet; existing rows are left untouched.
func (r *DocumentTypePostgres) Seed(ctx context.Context, types []model.DocumentType) (int, error) {
	const q = `
		INSERT INTO document_types (key, subject_kind, name, description, category, required, auto_expiry,
			validity_years, expiry_warning_days, accepted_formats, sort_order)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (key) DO NOTHING
	`
	added := 0
	for _, dt := range types {
		var validity sql.NullInt64
		if dt.AutoExpiry {
			validity = sql.NullInt64{Int64: int64(dt.ValidityYears), Valid: true}
		}
		res, err := r.db.ExecContext(ctx, q,
			dt.Key,
			string(dt.SubjectKind),
			dt.Name,
			dt.Description,
			string(dt.Category),
			dt.Required,
			dt.AutoExpiry,
			validity,
			dt.ExpiryWarningDays,
			pq.Array(dt.AcceptedFormats),
			dt.SortOrder,
		)
		if err != nil {
			return added, err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return added, err
		}
		added += int(n)
	}
	return added, nil
}
