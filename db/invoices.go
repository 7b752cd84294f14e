package db

import (
	"context"
	"fmt"
	"strings"

	"procurement/models"
)

type InvoiceFilter struct {
	Status   models.InvoiceStatus
	VendorID int
}

const invoiceViewColumns = `
        SELECT i.*, v.name AS vendor_name
        FROM invoice i
        JOIN vendor v ON v.id = i.vendor_id`

func (s *Storage) CreateInvoice(ctx context.Context, inv *models.Invoice) error {
	query := `
        INSERT INTO invoice
            (vendor_id, tender_id, invoice_number, amount, issue_date, due_date,
             status, description, created_by)
        VALUES
            ($1, $2, $3, $4, $5, $6, $7, $8, $9)
        RETURNING id, created_at, updated_at`
	err := s.db.QueryRowContext(ctx, query,
		inv.VendorID, inv.TenderID, inv.InvoiceNumber, inv.Amount, inv.IssueDate, inv.DueDate,
		inv.Status, inv.Description, inv.CreatedBy).
		Scan(&inv.ID, &inv.CreatedAt, &inv.UpdatedAt)
	return translate(err, "invoice")
}

func (s *Storage) GetInvoice(ctx context.Context, id int) (*models.InvoiceView, error) {
	inv := &models.InvoiceView{}
	if err := s.db.GetContext(ctx, inv, invoiceViewColumns+` WHERE i.id = $1`, id); err != nil {
		return nil, translate(err, "invoice")
	}
	return inv, nil
}

func (s *Storage) ListInvoices(ctx context.Context, f InvoiceFilter, limit, offset int) ([]models.InvoiceView, error) {
	var (
		where []string
		args  []any
	)
	if f.Status != "" {
		args = append(args, f.Status)
		where = append(where, fmt.Sprintf("i.status = $%d", len(args)))
	}
	if f.VendorID != 0 {
		args = append(args, f.VendorID)
		where = append(where, fmt.Sprintf("i.vendor_id = $%d", len(args)))
	}

	query := invoiceViewColumns
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	args = append(args, limit, offset)
	query += fmt.Sprintf(" ORDER BY i.due_date ASC, i.id ASC LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	invoices := []models.InvoiceView{}
	if err := s.db.SelectContext(ctx, &invoices, query, args...); err != nil {
		return nil, translate(err, "invoice")
	}
	return invoices, nil
}

func (s *Storage) UpdateInvoice(ctx context.Context, inv *models.Invoice) error {
	query := `
        UPDATE invoice
        SET amount=$1, due_date=$2, status=$3, description=$4, updated_at=NOW()
        WHERE id=$5
        RETURNING updated_at`
	err := s.db.QueryRowContext(ctx, query,
		inv.Amount, inv.DueDate, inv.Status, inv.Description, inv.ID).
		Scan(&inv.UpdatedAt)
	return translate(err, "invoice")
}
