package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"procurement/internal/apperr"
	"procurement/models"
)

type TenderFilter struct {
	Statuses   []models.TenderStatus
	Categories []models.Category
	MSEOnly    bool
}

func (s *Storage) CreateTender(ctx context.Context, t *models.Tender) error {
	query := `
        INSERT INTO tender
            (title, description, estimated_value, submission_deadline, status,
             category, is_reserved_for_mse, created_by)
        VALUES
            ($1, $2, $3, $4, $5, $6, $7, $8)
        RETURNING id, created_at, updated_at`
	err := s.db.QueryRowContext(ctx, query,
		t.Title, t.Description, t.EstimatedValue, t.SubmissionDeadline, t.Status,
		t.Category, t.IsReservedForMSE, t.CreatedBy).
		Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
	return translate(err, "tender")
}

func (s *Storage) GetTender(ctx context.Context, id int) (*models.Tender, error) {
	t := &models.Tender{}
	query := `SELECT * FROM tender WHERE id = $1`
	if err := s.db.GetContext(ctx, t, query, id); err != nil {
		return nil, translate(err, "tender")
	}
	return t, nil
}

func (s *Storage) ListTenders(ctx context.Context, f TenderFilter, limit, offset int) ([]models.Tender, error) {
	var (
		where []string
		args  []any
	)
	if len(f.Statuses) > 0 {
		placeholders := make([]string, len(f.Statuses))
		for i, st := range f.Statuses {
			args = append(args, st)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		where = append(where, fmt.Sprintf("status IN (%s)", strings.Join(placeholders, ", ")))
	}
	if len(f.Categories) > 0 {
		placeholders := make([]string, len(f.Categories))
		for i, c := range f.Categories {
			args = append(args, c)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		where = append(where, fmt.Sprintf("category IN (%s)", strings.Join(placeholders, ", ")))
	}
	if f.MSEOnly {
		where = append(where, "is_reserved_for_mse")
	}

	query := "SELECT * FROM tender"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	args = append(args, limit, offset)
	query += fmt.Sprintf(" ORDER BY submission_deadline ASC, id ASC LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	tenders := []models.Tender{}
	if err := s.db.SelectContext(ctx, &tenders, query, args...); err != nil {
		return nil, translate(err, "tender")
	}
	return tenders, nil
}

func (s *Storage) UpdateTender(ctx context.Context, t *models.Tender) error {
	query := `
        UPDATE tender
        SET title=$1, description=$2, estimated_value=$3, submission_deadline=$4,
            status=$5, category=$6, is_reserved_for_mse=$7, updated_at=NOW()
        WHERE id=$8
        RETURNING updated_at`
	err := s.db.QueryRowContext(ctx, query,
		t.Title, t.Description, t.EstimatedValue, t.SubmissionDeadline,
		t.Status, t.Category, t.IsReservedForMSE, t.ID).
		Scan(&t.UpdatedAt)
	return translate(err, "tender")
}

// DeleteTender отказывает, если по тендеру есть предложения, счета или платежи
func (s *Storage) DeleteTender(ctx context.Context, id int) error {
	return s.withTx(ctx, func(tx *sqlx.Tx) error {
		var locked int
		if err := tx.GetContext(ctx, &locked, `SELECT id FROM tender WHERE id = $1 FOR UPDATE`, id); err != nil {
			return translate(err, "tender")
		}

		var deps struct {
			Bids     int `db:"bids"`
			Payments int `db:"payments"`
			Invoices int `db:"invoices"`
		}
		query := `
            SELECT
                (SELECT COUNT(1) FROM bid WHERE tender_id = $1)     AS bids,
                (SELECT COUNT(1) FROM payment WHERE tender_id = $1) AS payments,
                (SELECT COUNT(1) FROM invoice WHERE tender_id = $1) AS invoices`
		if err := tx.GetContext(ctx, &deps, query, id); err != nil {
			return translate(err, "tender")
		}
		if total := deps.Bids + deps.Payments + deps.Invoices; total > 0 {
			return apperr.Conflict("tender has %d dependent records (bids: %d, payments: %d, invoices: %d)",
				total, deps.Bids, deps.Payments, deps.Invoices)
		}

		_, err := tx.ExecContext(ctx, `DELETE FROM tender WHERE id = $1`, id)
		return translate(err, "tender")
	})
}
