package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"procurement/internal/apperr"
	"procurement/models"
)

type VendorFilter struct {
	Status       models.VendorStatus
	BusinessType models.BusinessType
}

func (s *Storage) CreateVendor(ctx context.Context, v *models.Vendor) error {
	query := `
        INSERT INTO vendor
            (name, business_type, contact_person, email, phone, address,
             registration_number, status, compliance_score, user_id)
        VALUES
            ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
        RETURNING id, created_at, updated_at`
	err := s.db.QueryRowContext(ctx, query,
		v.Name, v.BusinessType, v.ContactPerson, v.Email, v.Phone, v.Address,
		v.RegistrationNumber, v.Status, v.ComplianceScore, v.UserID).
		Scan(&v.ID, &v.CreatedAt, &v.UpdatedAt)
	return translate(err, "vendor")
}

func (s *Storage) GetVendor(ctx context.Context, id int) (*models.Vendor, error) {
	v := &models.Vendor{}
	query := `SELECT * FROM vendor WHERE id = $1`
	if err := s.db.GetContext(ctx, v, query, id); err != nil {
		return nil, translate(err, "vendor")
	}
	return v, nil
}

// VendorIDForUser возвращает 0, если пользователь ещё не зарегистрировал поставщика
func (s *Storage) VendorIDForUser(ctx context.Context, userID int) (int, error) {
	var id int
	err := s.db.GetContext(ctx, &id, `SELECT id FROM vendor WHERE user_id = $1`, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	return id, translate(err, "vendor")
}

func (s *Storage) ListVendors(ctx context.Context, f VendorFilter, limit, offset int) ([]models.Vendor, error) {
	var (
		where []string
		args  []any
	)
	if f.Status != "" {
		args = append(args, f.Status)
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}
	if f.BusinessType != "" {
		args = append(args, f.BusinessType)
		where = append(where, fmt.Sprintf("business_type = $%d", len(args)))
	}

	query := "SELECT * FROM vendor"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	args = append(args, limit, offset)
	query += fmt.Sprintf(" ORDER BY name ASC LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	vendors := []models.Vendor{}
	if err := s.db.SelectContext(ctx, &vendors, query, args...); err != nil {
		return nil, translate(err, "vendor")
	}
	return vendors, nil
}

func (s *Storage) UpdateVendor(ctx context.Context, v *models.Vendor) error {
	query := `
        UPDATE vendor
        SET name=$1, business_type=$2, contact_person=$3, email=$4, phone=$5, address=$6,
            registration_number=$7, status=$8, compliance_score=$9, updated_at=NOW()
        WHERE id=$10
        RETURNING updated_at`
	err := s.db.QueryRowContext(ctx, query,
		v.Name, v.BusinessType, v.ContactPerson, v.Email, v.Phone, v.Address,
		v.RegistrationNumber, v.Status, v.ComplianceScore, v.ID).
		Scan(&v.UpdatedAt)
	return translate(err, "vendor")
}

// DeleteVendor отказывает, пока на поставщика ссылаются предложения, счета или платежи
func (s *Storage) DeleteVendor(ctx context.Context, id int) error {
	return s.withTx(ctx, func(tx *sqlx.Tx) error {
		var locked int
		if err := tx.GetContext(ctx, &locked, `SELECT id FROM vendor WHERE id = $1 FOR UPDATE`, id); err != nil {
			return translate(err, "vendor")
		}

		var deps struct {
			Bids      int `db:"bids"`
			Payments  int `db:"payments"`
			Invoices  int `db:"invoices"`
			Schedules int `db:"schedules"`
		}
		query := `
            SELECT
                (SELECT COUNT(1) FROM bid WHERE vendor_id = $1)              AS bids,
                (SELECT COUNT(1) FROM payment WHERE vendor_id = $1)          AS payments,
                (SELECT COUNT(1) FROM invoice WHERE vendor_id = $1)          AS invoices,
                (SELECT COUNT(1) FROM payment_schedule WHERE vendor_id = $1) AS schedules`
		if err := tx.GetContext(ctx, &deps, query, id); err != nil {
			return translate(err, "vendor")
		}
		if total := deps.Bids + deps.Payments + deps.Invoices + deps.Schedules; total > 0 {
			return apperr.Conflict("vendor has %d dependent records (bids: %d, payments: %d, invoices: %d, schedules: %d)",
				total, deps.Bids, deps.Payments, deps.Invoices, deps.Schedules)
		}

		_, err := tx.ExecContext(ctx, `DELETE FROM vendor WHERE id = $1`, id)
		return translate(err, "vendor")
	})
}
