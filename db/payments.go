package db

import (
	"context"
	"fmt"
	"strings"

	"procurement/models"
)

type PaymentFilter struct {
	Status   models.PaymentStatus
	VendorID int
}

const paymentViewColumns = `
        SELECT p.*, v.name AS vendor_name, u.name AS processed_by_name
        FROM payment p
        JOIN vendor v ON v.id = p.vendor_id
        JOIN app_user u ON u.id = p.processed_by`

func (s *Storage) CreatePayment(ctx context.Context, p *models.Payment) error {
	query := `
        INSERT INTO payment
            (vendor_id, tender_id, bid_id, invoice_id, amount, status, payment_method,
             processed_by, payment_date, reference_number, remarks)
        VALUES
            ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
        RETURNING id, created_at, updated_at`
	err := s.db.QueryRowContext(ctx, query,
		p.VendorID, p.TenderID, p.BidID, p.InvoiceID, p.Amount, p.Status, p.PaymentMethod,
		p.ProcessedBy, p.PaymentDate, p.ReferenceNumber, p.Remarks).
		Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	return translate(err, "payment")
}

func (s *Storage) GetPayment(ctx context.Context, id int) (*models.PaymentView, error) {
	p := &models.PaymentView{}
	if err := s.db.GetContext(ctx, p, paymentViewColumns+` WHERE p.id = $1`, id); err != nil {
		return nil, translate(err, "payment")
	}
	return p, nil
}

func (s *Storage) ListPayments(ctx context.Context, f PaymentFilter, limit, offset int) ([]models.PaymentView, error) {
	var (
		where []string
		args  []any
	)
	if f.Status != "" {
		args = append(args, f.Status)
		where = append(where, fmt.Sprintf("p.status = $%d", len(args)))
	}
	if f.VendorID != 0 {
		args = append(args, f.VendorID)
		where = append(where, fmt.Sprintf("p.vendor_id = $%d", len(args)))
	}

	query := paymentViewColumns
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	args = append(args, limit, offset)
	query += fmt.Sprintf(" ORDER BY p.created_at DESC, p.id DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	payments := []models.PaymentView{}
	if err := s.db.SelectContext(ctx, &payments, query, args...); err != nil {
		return nil, translate(err, "payment")
	}
	return payments, nil
}

func (s *Storage) UpdatePayment(ctx context.Context, p *models.Payment) error {
	query := `
        UPDATE payment
        SET tender_id=$1, bid_id=$2, invoice_id=$3, amount=$4, status=$5, payment_method=$6,
            payment_date=$7, reference_number=$8, remarks=$9, updated_at=NOW()
        WHERE id=$10
        RETURNING updated_at`
	err := s.db.QueryRowContext(ctx, query,
		p.TenderID, p.BidID, p.InvoiceID, p.Amount, p.Status, p.PaymentMethod,
		p.PaymentDate, p.ReferenceNumber, p.Remarks, p.ID).
		Scan(&p.UpdatedAt)
	return translate(err, "payment")
}
