package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/bytedocker/site/internal/inquiries/domain"
)

// InquiryRepository handles PostgreSQL operations for contact inquiries
type InquiryRepository struct {
	db *sql.DB
}

func NewInquiryRepository(db *sql.DB) *InquiryRepository {
	return &InquiryRepository{db: db}
}

func (r *InquiryRepository) Create(ctx context.Context, in *domain.Inquiry) error {
	query := `
		INSERT INTO inquiries (name, email, company, message, remote_addr)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	err := r.db.QueryRowContext(ctx, query,
		in.Name,
		in.Email,
		nullString(in.Company),
		in.Message,
		nullString(in.RemoteAddr),
	).Scan(&in.ID, &in.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create inquiry: %w", err)
	}
	return nil
}

// List returns inquiries newest first. With openOnly set, handled ones are skipped.
func (r *InquiryRepository) List(ctx context.Context, limit int, openOnly bool) ([]domain.Inquiry, error) {
	query := `
		SELECT id, name, email, company, message, handled, created_at, handled_at
		FROM inquiries
		WHERE ($2 = FALSE OR handled = FALSE)
		ORDER BY created_at DESC, id DESC
		LIMIT $1
	`

	rows, err := r.db.QueryContext(ctx, query, limit, openOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to list inquiries: %w", err)
	}
	defer rows.Close()

	out := make([]domain.Inquiry, 0, limit)
	for rows.Next() {
		var (
			in        domain.Inquiry
			company   sql.NullString
			handledAt sql.NullTime
		)
		if err := rows.Scan(&in.ID, &in.Name, &in.Email, &company, &in.Message, &in.Handled, &in.CreatedAt, &handledAt); err != nil {
			return nil, fmt.Errorf("failed to scan inquiry: %w", err)
		}
		in.Company = company.String
		if handledAt.Valid {
			t := handledAt.Time
			in.HandledAt = &t
		}
		out = append(out, in)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate inquiries: %w", err)
	}
	return out, nil
}

func (r *InquiryRepository) MarkHandled(ctx context.Context, id int64, handled bool) error {
	query := `
		UPDATE inquiries
		SET handled = $2,
		    handled_at = CASE WHEN $2 THEN NOW() ELSE NULL END
		WHERE id = $1
	`

	res, err := r.db.ExecContext(ctx, query, id, handled)
	if err != nil {
		return fmt.Errorf("failed to update inquiry: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if n == 0 {
		return domain.ErrInquiryNotFound
	}
	return nil
}

func (r *InquiryRepository) CountOpen(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM inquiries WHERE handled = FALSE`).Scan(&n)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to count inquiries: %w", err)
	}
	return n, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
