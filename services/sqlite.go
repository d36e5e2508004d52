package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"coffeeshell/models"

	"github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
)

// SQLiteStore is a local single-file user directory and order store.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

func (s *SQLiteStore) CreateUser(ctx context.Context, u models.User) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (id, email, name, password_hash, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		u.ID, u.Email, u.Name, u.PasswordHash, u.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		var sqErr sqlite3.Error
		if errors.As(err, &sqErr) && sqErr.ExtendedCode == sqlite3.ErrConstraintUnique {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("%w: %v", ErrDirectory, errors.Wrap(err, "store: CreateUser"))
	}
	return nil
}

func (s *SQLiteStore) UserByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	var created string
	err := s.db.QueryRowContext(ctx, `
		SELECT id, email, name, password_hash, created_at FROM users WHERE email = ?`,
		email,
	).Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash, &created)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrDirectory, errors.Wrap(err, "store: UserByEmail"))
	}
	if t, perr := time.Parse(time.RFC3339Nano, created); perr == nil {
		u.CreatedAt = t
	}
	return &u, nil
}

func (s *SQLiteStore) SaveOrder(ctx context.Context, o models.PlacedOrder) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO orders (
			id, user_id, item_name, sugar_level, milk_type, whipped_cream,
			price, paid, checkout_url, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		o.ID, o.UserID, o.ItemName, o.SugarLevel, o.MilkType, o.WhippedCream,
		o.Price.StringFixed(2), o.Paid, o.CheckoutURL, o.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, errors.Wrap(err, "store: SaveOrder"))
	}
	return nil
}

// Exec runs a raw statement; used to apply migrations.
func (s *SQLiteStore) Exec(ctx context.Context, stmt string) error {
	_, err := s.db.ExecContext(ctx, stmt)
	return err
}
