package services

import (
	"context"
	"fmt"
	"net/http"

	"coffeeshell/config"

	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
)

// PaymentGateway issues a one-time checkout URL for an amount.
type PaymentGateway interface {
	CheckoutURL(ctx context.Context, amount decimal.Decimal) (string, error)
}

// StripeGateway creates a product, a price and a checkout session per call.
// A single attempt is made; transient errors are not retried.
type StripeGateway struct {
	api *client.API
	cfg config.StripeConfig
}

// StripeOption customises the Stripe backend (tests point it at a local server).
type StripeOption func(*stripe.BackendConfig)

func WithStripeURL(url string) StripeOption {
	return func(bc *stripe.BackendConfig) { bc.URL = stripe.String(url) }
}

func WithStripeHTTPClient(c *http.Client) StripeOption {
	return func(bc *stripe.BackendConfig) { bc.HTTPClient = c }
}

func NewStripeGateway(cfg config.StripeConfig, opts ...StripeOption) *StripeGateway {
	// GetBackendWithConfig fills in defaults on the config it is given, so each backend gets its own.
	backendConfig := func() *stripe.BackendConfig {
		bc := &stripe.BackendConfig{
			MaxNetworkRetries: stripe.Int64(0),
			LeveledLogger:     &stripe.LeveledLogger{Level: stripe.LevelError},
		}
		for _, o := range opts {
			o(bc)
		}
		return bc
	}
	backends := &stripe.Backends{
		API:     stripe.GetBackendWithConfig(stripe.APIBackend, backendConfig()),
		Connect: stripe.GetBackendWithConfig(stripe.ConnectBackend, backendConfig()),
		Uploads: stripe.GetBackendWithConfig(stripe.UploadsBackend, backendConfig()),
	}
	return &StripeGateway{api: client.New(cfg.SecretKey, backends), cfg: cfg}
}

// AmountToCents converts a dollar amount to the smallest currency unit, rounding half away from zero.
func AmountToCents(amount decimal.Decimal) int64 {
	return amount.Shift(2).Round(0).IntPart()
}

func (g *StripeGateway) CheckoutURL(ctx context.Context, amount decimal.Decimal) (string, error) {
	if !amount.IsPositive() {
		return "", fmt.Errorf("%w: amount must be positive, got %s", ErrGateway, amount)
	}

	productParams := &stripe.ProductParams{
		Name:        stripe.String(g.cfg.ProductName),
		Description: stripe.String("Your personalized coffee order"),
	}
	productParams.Context = ctx
	product, err := g.api.Products.New(productParams)
	if err != nil {
		return "", fmt.Errorf("%w: create product: %v", ErrGateway, err)
	}

	priceParams := &stripe.PriceParams{
		Product:    stripe.String(product.ID),
		UnitAmount: stripe.Int64(AmountToCents(amount)),
		Currency:   stripe.String(g.cfg.Currency),
	}
	priceParams.Context = ctx
	price, err := g.api.Prices.New(priceParams)
	if err != nil {
		return "", fmt.Errorf("%w: create price: %v", ErrGateway, err)
	}

	sessionParams := &stripe.CheckoutSessionParams{
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{Price: stripe.String(price.ID), Quantity: stripe.Int64(1)},
		},
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL: stripe.String(g.cfg.SuccessURL),
		CancelURL:  stripe.String(g.cfg.CancelURL),
	}
	sessionParams.Context = ctx
	session, err := g.api.CheckoutSessions.New(sessionParams)
	if err != nil {
		return "", fmt.Errorf("%w: create checkout session: %v", ErrGateway, err)
	}
	if session.URL == "" {
		return "", fmt.Errorf("%w: checkout session %s has no url", ErrGateway, session.ID)
	}
	return session.URL, nil
}
