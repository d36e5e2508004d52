package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderDraft accumulates the customer's choices before confirmation. It is never persisted.
type OrderDraft struct {
	Item         MenuItem
	SugarLevel   string
	MilkType     string
	WhippedCream string
}

// Total is the price of the single selected item; there are no other pricing inputs.
func (d OrderDraft) Total() decimal.Decimal {
	return d.Item.UnitPrice
}

// WantsWhippedCream reports the bool-like cream choice.
func (d OrderDraft) WantsWhippedCream() bool {
	return d.WhippedCream == AddWhippedCream
}

// PlacedOrder is a row from the orders table. Paid is never set to true by this tool.
type PlacedOrder struct {
	ID           string
	UserID       string
	ItemName     string
	SugarLevel   string
	MilkType     string
	WhippedCream string
	Price        decimal.Decimal
	Paid         bool
	CheckoutURL  string
	CreatedAt    time.Time
}

// NewPlacedOrder builds the record written at confirmation time.
func NewPlacedOrder(id string, user User, d OrderDraft, checkoutURL string, now time.Time) PlacedOrder {
	return PlacedOrder{
		ID:           id,
		UserID:       user.ID,
		ItemName:     d.Item.Name,
		SugarLevel:   d.SugarLevel,
		MilkType:     d.MilkType,
		WhippedCream: d.WhippedCream,
		Price:        d.Total(),
		Paid:         false,
		CheckoutURL:  checkoutURL,
		CreatedAt:    now,
	}
}
