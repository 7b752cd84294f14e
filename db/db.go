package db

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"

	"procurement/internal/apperr"
)

type Storage struct {
	db *sqlx.DB
}

func NewStorage(db *sqlx.DB) *Storage {
	return &Storage{db: db}
}

// Ping проверяет соединение с БД
func (s *Storage) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Коды ошибок PostgreSQL, которые превращаются в ошибки клиента
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
	codeCheckViolation      = "23514"
)

var uniqueMessages = map[string]string{
	"app_user_email_key":        "user with this email already exists",
	"vendor_email_key":          "vendor with this email already exists",
	"vendor_user_key":           "user already owns a vendor record",
	"bid_tender_vendor_key":     "vendor has already submitted a bid for this tender",
	"invoice_vendor_number_key": "invoice with this number already exists for the vendor",
}

// translate приводит ошибки драйвера к apperr, остальное оборачивает
func translate(err error, entity string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return apperr.NotFound(entity)
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case codeUniqueViolation:
			if msg, ok := uniqueMessages[pqErr.Constraint]; ok {
				return apperr.Conflict("%s", msg)
			}
			return apperr.Conflict("%s already exists", entity)
		case codeForeignKeyViolation:
			return apperr.Conflict("%s references a missing record or still has dependent records", entity)
		case codeCheckViolation:
			return apperr.BadRequest(entity + " violates constraint " + pqErr.Constraint)
		}
	}
	return errors.Wrapf(err, "%s storage", entity)
}

// withTx выполняет fn в транзакции
func (s *Storage) withTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "begin tx")
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return errors.Wrap(tx.Commit(), "commit tx")
}
