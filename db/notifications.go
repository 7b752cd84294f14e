package db

import (
	"context"

	"procurement/models"
)

func (s *Storage) CreateNotification(ctx context.Context, n *models.Notification) error {
	query := `
        INSERT INTO notification (user_id, title, message, kind)
        VALUES ($1, $2, $3, $4)
        RETURNING id, read, created_at`
	err := s.db.QueryRowContext(ctx, query, n.UserID, n.Title, n.Message, n.Kind).
		Scan(&n.ID, &n.Read, &n.CreatedAt)
	return translate(err, "notification")
}

func (s *Storage) GetNotification(ctx context.Context, id int) (*models.Notification, error) {
	n := &models.Notification{}
	query := `SELECT * FROM notification WHERE id = $1`
	if err := s.db.GetContext(ctx, n, query, id); err != nil {
		return nil, translate(err, "notification")
	}
	return n, nil
}

// ListNotifications возвращает уведомления пользователя, новые первыми
func (s *Storage) ListNotifications(ctx context.Context, userID int, unreadOnly bool, limit, offset int) ([]models.Notification, error) {
	query := `
        SELECT * FROM notification
        WHERE user_id = $1 AND (NOT $2 OR NOT read)
        ORDER BY created_at DESC, id DESC
        LIMIT $3 OFFSET $4`
	items := []models.Notification{}
	if err := s.db.SelectContext(ctx, &items, query, userID, unreadOnly, limit, offset); err != nil {
		return nil, translate(err, "notification")
	}
	return items, nil
}

// MarkNotificationRead идемпотентна: повторная отметка ничего не меняет
func (s *Storage) MarkNotificationRead(ctx context.Context, id int) (*models.Notification, error) {
	n := &models.Notification{}
	query := `UPDATE notification SET read = TRUE WHERE id = $1 RETURNING *`
	if err := s.db.GetContext(ctx, n, query, id); err != nil {
		return nil, translate(err, "notification")
	}
	return n, nil
}
