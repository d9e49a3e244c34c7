package payment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
	"github.com/stripe/stripe-go/v76/webhook"
)

const EventCheckoutCompleted = "checkout.session.completed"

var ErrMissingLineItems = errors.New("checkout needs at least one line item")

type Config struct {
	SecretKey     string
	WebhookSecret string
	Currency      string
	FrontendURL   string
}

type LineItem struct {
	ProductID string
	Name      string
	Images    []string
	UnitPrice float64
	Quantity  int64
}

type CheckoutRequest struct {
	UserID        string
	AddressID     string
	CustomerEmail string
	Items         []LineItem
}

// CompletedSession is the part of a finished checkout the order flow needs.
// Amounts are in minor units.
type CompletedSession struct {
	ID              string
	UserID          string
	AddressID       string
	PaymentIntentID string
	AmountTotal     int64
	AmountSubtotal  int64
}

// Event is a verified webhook delivery. Session is set only for
// checkout.session.completed.
type Event struct {
	ID      string
	Type    string
	Session *CompletedSession
}

type PurchasedItem struct {
	ProductID string
	Name      string
	Images    []string
	Quantity  int64
}

type StripeGateway struct {
	api           *client.API
	webhookSecret string
	currency      string
	successURL    string
	cancelURL     string
}

func NewStripeGateway(cfg Config) *StripeGateway {
	currency := cfg.Currency
	if currency == "" {
		currency = "cop"
	}
	return &StripeGateway{
		api:           client.New(cfg.SecretKey, nil),
		webhookSecret: cfg.WebhookSecret,
		currency:      currency,
		successURL:    cfg.FrontendURL + "/success",
		cancelURL:     cfg.FrontendURL + "/cancel",
	}
}

// CreateCheckoutSession opens a hosted checkout and returns its URL.
func (g *StripeGateway) CreateCheckoutSession(ctx context.Context, req CheckoutRequest) (string, error) {
	params, err := g.sessionParams(req)
	if err != nil {
		return "", err
	}
	params.Context = ctx

	session, err := g.api.CheckoutSessions.New(params)
	if err != nil {
		return "", fmt.Errorf("create checkout session: %w", err)
	}
	return session.URL, nil
}

func (g *StripeGateway) sessionParams(req CheckoutRequest) (*stripe.CheckoutSessionParams, error) {
	if len(req.Items) == 0 {
		return nil, ErrMissingLineItems
	}

	lineItems := make([]*stripe.CheckoutSessionLineItemParams, 0, len(req.Items))
	for _, item := range req.Items {
		lineItems = append(lineItems, &stripe.CheckoutSessionLineItemParams{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency: stripe.String(g.currency),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name:     stripe.String(item.Name),
					Images:   stripe.StringSlice(item.Images),
					Metadata: map[string]string{"productId": item.ProductID},
				},
				UnitAmount: stripe.Int64(ToMinorUnits(item.UnitPrice)),
			},
			AdjustableQuantity: &stripe.CheckoutSessionLineItemAdjustableQuantityParams{
				Enabled: stripe.Bool(true),
				Minimum: stripe.Int64(1),
			},
			Quantity: stripe.Int64(item.Quantity),
		})
	}

	params := &stripe.CheckoutSessionParams{
		SubmitType:         stripe.String(string(stripe.CheckoutSessionSubmitTypePay)),
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		CustomerEmail:      stripe.String(req.CustomerEmail),
		SuccessURL:         stripe.String(g.successURL),
		CancelURL:          stripe.String(g.cancelURL),
		LineItems:          lineItems,
	}
	params.AddMetadata("userId", req.UserID)
	params.AddMetadata("addressId", req.AddressID)
	return params, nil
}

// ParseWebhook verifies the Stripe-Signature header against the raw payload.
// Any verification failure is returned before the payload is trusted.
func (g *StripeGateway) ParseWebhook(payload []byte, signature string) (Event, error) {
	evt, err := webhook.ConstructEventWithOptions(payload, signature, g.webhookSecret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		return Event{}, err
	}

	out := Event{ID: evt.ID, Type: string(evt.Type)}
	if out.Type != EventCheckoutCompleted {
		return out, nil
	}
	if evt.Data == nil {
		return Event{}, errors.New("checkout event without data")
	}

	var session stripe.CheckoutSession
	if err := json.Unmarshal(evt.Data.Raw, &session); err != nil {
		return Event{}, fmt.Errorf("decode checkout session: %w", err)
	}

	completed := &CompletedSession{
		ID:             session.ID,
		UserID:         session.Metadata["userId"],
		AddressID:      session.Metadata["addressId"],
		AmountTotal:    session.AmountTotal,
		AmountSubtotal: session.AmountSubtotal,
	}
	if session.PaymentIntent != nil {
		completed.PaymentIntentID = session.PaymentIntent.ID
	}
	out.Session = completed
	return out, nil
}

// SessionItems lists what was bought in a completed session, resolving each
// Stripe product back to the catalog product id stored in its metadata.
func (g *StripeGateway) SessionItems(ctx context.Context, sessionID string) ([]PurchasedItem, error) {
	params := &stripe.CheckoutSessionListLineItemsParams{
		Session: stripe.String(sessionID),
	}
	params.Context = ctx
	params.AddExpand("data.price.product")

	items := []PurchasedItem{}
	iter := g.api.CheckoutSessions.ListLineItems(params)
	for iter.Next() {
		li := iter.LineItem()
		item := PurchasedItem{Quantity: li.Quantity, Name: li.Description}
		if li.Price != nil && li.Price.Product != nil {
			product := li.Price.Product
			if product.Name == "" {
				fetched, err := g.api.Products.Get(product.ID, &stripe.ProductParams{Params: stripe.Params{Context: ctx}})
				if err != nil {
					return nil, fmt.Errorf("get product %s: %w", product.ID, err)
				}
				product = fetched
			}
			item.ProductID = product.Metadata["productId"]
			item.Name = product.Name
			item.Images = product.Images
		}
		items = append(items, item)
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("list line items for %s: %w", sessionID, err)
	}
	return items, nil
}
