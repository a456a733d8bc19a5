package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"clinicdesk/m/domain"
)

const userColumns = `id, username, email, password, full_name, created_at`

// CreateUser persists a user whose Password already holds a hash.
func (s *Store) CreateUser(ctx context.Context, u *domain.User) error {
	u.CreatedAt = s.utcNow()
	return s.inTx(ctx, func(tx *sqlx.Tx) error {
		var taken int
		err := tx.GetContext(ctx, &taken, s.q(`SELECT COUNT(*) FROM users WHERE username = ?`), u.Username)
		if err != nil {
			return fmt.Errorf("check username: %w", err)
		}
		if taken > 0 {
			return ErrUsernameTaken
		}
		err = tx.GetContext(ctx, &u.ID, s.q(`INSERT INTO users (username, email, password, full_name, created_at) VALUES (?, ?, ?, ?, ?) RETURNING id`),
			u.Username, u.Email, u.Password, u.FullName, u.CreatedAt)
		if isUniqueViolation(err) {
			return userConflict(err)
		}
		if err != nil {
			return fmt.Errorf("insert user: %w", err)
		}
		return nil
	})
}

// userConflict names the field behind a unique violation on users. A
// concurrent registration can pass the username pre-check and still lose here.
func userConflict(err error) error {
	if violatedColumn(err, "users", "username") {
		return ErrUsernameTaken
	}
	return ErrEmailTaken
}

func (s *Store) UserByUsername(ctx context.Context, username string) (*domain.User, error) {
	var u domain.User
	err := s.db.GetContext(ctx, &u, s.q(`SELECT `+userColumns+` FROM users WHERE username = ?`), username)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &u, nil
}
