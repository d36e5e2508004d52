package services

import (
	"context"
	"fmt"

	"coffeeshell/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"
)

const pgUniqueViolation = "23505"

// PostgresStore is the user directory and order store backed by Postgres (Supabase in production).
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (s *PostgresStore) CreateUser(ctx context.Context, u models.User) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO users (id, email, name, password_hash, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		u.ID, u.Email, u.Name, u.PasswordHash, u.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("%w: %v", ErrDirectory, errors.Wrap(err, "store: CreateUser"))
	}
	return nil
}

func (s *PostgresStore) UserByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	err := s.pool.QueryRow(ctx, `
		SELECT id, email, name, password_hash, created_at FROM users WHERE email = $1`,
		email,
	).Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrDirectory, errors.Wrap(err, "store: UserByEmail"))
	}
	return &u, nil
}

func (s *PostgresStore) SaveOrder(ctx context.Context, o models.PlacedOrder) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO orders (
			id, user_id, item_name, sugar_level, milk_type, whipped_cream,
			price, paid, checkout_url, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7::numeric, $8, $9, $10)`,
		o.ID, o.UserID, o.ItemName, o.SugarLevel, o.MilkType, o.WhippedCream,
		o.Price.StringFixed(2), o.Paid, o.CheckoutURL, o.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, errors.Wrap(err, "store: SaveOrder"))
	}
	return nil
}

// Exec runs a raw statement; used to apply migrations.
func (s *PostgresStore) Exec(ctx context.Context, stmt string) error {
	_, err := s.pool.Exec(ctx, stmt)
	return err
}
