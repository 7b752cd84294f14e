package db

import (
	"context"

	"procurement/models"
)

func (s *Storage) CreateUser(ctx context.Context, u *models.User) error {
	query := `
        INSERT INTO app_user (email, name, role, password_hash)
        VALUES ($1, $2, $3, $4)
        RETURNING id, created_at`
	err := s.db.QueryRowContext(ctx, query, u.Email, u.Name, u.Role, u.PasswordHash).
		Scan(&u.ID, &u.CreatedAt)
	return translate(err, "user")
}

func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	u := &models.User{}
	query := `SELECT * FROM app_user WHERE lower(email) = $1`
	if err := s.db.GetContext(ctx, u, query, email); err != nil {
		return nil, translate(err, "user")
	}
	return u, nil
}

func (s *Storage) GetUser(ctx context.Context, id int) (*models.User, error) {
	u := &models.User{}
	query := `SELECT * FROM app_user WHERE id = $1`
	if err := s.db.GetContext(ctx, u, query, id); err != nil {
		return nil, translate(err, "user")
	}
	return u, nil
}
