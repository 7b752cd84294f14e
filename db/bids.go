package db

import (
	"context"

	"procurement/models"
)

const bidViewColumns = `
        SELECT b.*, t.title AS tender_title, v.name AS vendor_name
        FROM bid b
        JOIN tender t ON t.id = b.tender_id
        JOIN vendor v ON v.id = b.vendor_id`

// CreateBid: повторное предложение той же пары (тендер, поставщик)
// отклоняется уникальным индексом bid_tender_vendor_key
func (s *Storage) CreateBid(ctx context.Context, b *models.Bid) error {
	query := `
        INSERT INTO bid
            (tender_id, vendor_id, amount, technical_proposal, status, technical_score)
        VALUES
            ($1, $2, $3, $4, $5, $6)
        RETURNING id, created_at, updated_at`
	err := s.db.QueryRowContext(ctx, query,
		b.TenderID, b.VendorID, b.Amount, b.TechnicalProposal, b.Status, b.TechnicalScore).
		Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt)
	return translate(err, "bid")
}

func (s *Storage) GetBid(ctx context.Context, id int) (*models.BidView, error) {
	b := &models.BidView{}
	if err := s.db.GetContext(ctx, b, bidViewColumns+` WHERE b.id = $1`, id); err != nil {
		return nil, translate(err, "bid")
	}
	return b, nil
}

func (s *Storage) ListBidsForTender(ctx context.Context, tenderID, limit, offset int) ([]models.BidView, error) {
	query := bidViewColumns + `
        WHERE b.tender_id = $1
        ORDER BY b.amount ASC, b.created_at ASC
        LIMIT $2 OFFSET $3`
	bids := []models.BidView{}
	if err := s.db.SelectContext(ctx, &bids, query, tenderID, limit, offset); err != nil {
		return nil, translate(err, "bid")
	}
	return bids, nil
}

func (s *Storage) ListBidsForVendor(ctx context.Context, vendorID, limit, offset int) ([]models.BidView, error) {
	query := bidViewColumns + `
        WHERE b.vendor_id = $1
        ORDER BY b.created_at DESC
        LIMIT $2 OFFSET $3`
	bids := []models.BidView{}
	if err := s.db.SelectContext(ctx, &bids, query, vendorID, limit, offset); err != nil {
		return nil, translate(err, "bid")
	}
	return bids, nil
}

func (s *Storage) UpdateBid(ctx context.Context, b *models.Bid) error {
	query := `
        UPDATE bid
        SET amount=$1, technical_proposal=$2, status=$3, technical_score=$4, updated_at=NOW()
        WHERE id=$5
        RETURNING updated_at`
	err := s.db.QueryRowContext(ctx, query,
		b.Amount, b.TechnicalProposal, b.Status, b.TechnicalScore, b.ID).
		Scan(&b.UpdatedAt)
	return translate(err, "bid")
}
