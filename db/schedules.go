package db

import (
	"context"
	"fmt"
	"strings"

	"procurement/models"
)

type ScheduleFilter struct {
	Status   models.ScheduleStatus
	VendorID int
}

func (s *Storage) CreatePaymentSchedule(ctx context.Context, ps *models.PaymentSchedule) error {
	query := `
        INSERT INTO payment_schedule
            (vendor_id, payment_id, amount, scheduled_date, frequency, status, remarks, created_by)
        VALUES
            ($1, $2, $3, $4, $5, $6, $7, $8)
        RETURNING id, created_at, updated_at`
	err := s.db.QueryRowContext(ctx, query,
		ps.VendorID, ps.PaymentID, ps.Amount, ps.ScheduledDate, ps.Frequency, ps.Status,
		ps.Remarks, ps.CreatedBy).
		Scan(&ps.ID, &ps.CreatedAt, &ps.UpdatedAt)
	return translate(err, "payment schedule")
}

func (s *Storage) GetPaymentSchedule(ctx context.Context, id int) (*models.PaymentSchedule, error) {
	ps := &models.PaymentSchedule{}
	query := `SELECT * FROM payment_schedule WHERE id = $1`
	if err := s.db.GetContext(ctx, ps, query, id); err != nil {
		return nil, translate(err, "payment schedule")
	}
	return ps, nil
}

// ListPaymentSchedules отдаёт ближайшие даты первыми
func (s *Storage) ListPaymentSchedules(ctx context.Context, f ScheduleFilter, limit, offset int) ([]models.PaymentSchedule, error) {
	var (
		where []string
		args  []any
	)
	if f.Status != "" {
		args = append(args, f.Status)
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}
	if f.VendorID != 0 {
		args = append(args, f.VendorID)
		where = append(where, fmt.Sprintf("vendor_id = $%d", len(args)))
	}

	query := "SELECT * FROM payment_schedule"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	args = append(args, limit, offset)
	query += fmt.Sprintf(" ORDER BY scheduled_date ASC, id ASC LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	schedules := []models.PaymentSchedule{}
	if err := s.db.SelectContext(ctx, &schedules, query, args...); err != nil {
		return nil, translate(err, "payment schedule")
	}
	return schedules, nil
}

func (s *Storage) UpdatePaymentSchedule(ctx context.Context, ps *models.PaymentSchedule) error {
	query := `
        UPDATE payment_schedule
        SET payment_id=$1, amount=$2, scheduled_date=$3, frequency=$4, status=$5, remarks=$6,
            updated_at=NOW()
        WHERE id=$7
        RETURNING updated_at`
	err := s.db.QueryRowContext(ctx, query,
		ps.PaymentID, ps.Amount, ps.ScheduledDate, ps.Frequency, ps.Status, ps.Remarks, ps.ID).
		Scan(&ps.UpdatedAt)
	return translate(err, "payment schedule")
}
