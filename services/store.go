package services

import (
	"context"

	"coffeeshell/models"
)

// OrderStore persists placed orders.
type OrderStore interface {
	SaveOrder(ctx context.Context, o models.PlacedOrder) error
}

// Store is a backend serving as both user directory and order store.
type Store interface {
	UserDirectory
	OrderStore
	Exec(ctx context.Context, stmt string) error
}

var (
	_ Store = (*PostgresStore)(nil)
	_ Store = (*SQLiteStore)(nil)
)
