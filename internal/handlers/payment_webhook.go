package handlers

import (
	"context"
	"fmt"
	"net/http"

	"github.com/getsentry/sentry-go"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"petstore/internal/metrics"
	"petstore/internal/models"
	"petstore/internal/payment"
)

const stripeSignatureHeader = "Stripe-Signature"

// PaymentWebhook turns a completed checkout into a card order. Deliveries are
// not deduplicated; a redelivered event creates another order.
func PaymentWebhook(gateway PaymentGateway, orders OrderStore, carts CartStore, users UserStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/order/webhook"
		defer handlePanic(c, route)

		payload, err := c.GetRawData()
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "Webhook Error: "+err.Error())
			return
		}

		event, err := gateway.ParseWebhook(payload, c.GetHeader(stripeSignatureHeader))
		if err != nil {
			metrics.WebhookEvent("", "rejected")
			respondWithError(c, http.StatusBadRequest, route, "Webhook Error: "+err.Error())
			return
		}

		if event.Type != payment.EventCheckoutCompleted || event.Session == nil {
			metrics.WebhookEvent(event.Type, "ignored")
			log.Debug().Str("route", route).Str("type", event.Type).Msg("webhook event ignored")
			c.JSON(http.StatusOK, gin.H{"received": true})
			return
		}

		ctx, cancel := storeContext(c)
		defer cancel()

		order, err := completeCheckout(ctx, gateway, orders, carts, users, *event.Session)
		if err != nil {
			metrics.WebhookEvent(event.Type, "failed")
			reportError(c, err)
			respondInternal(c, route, err)
			return
		}

		metrics.WebhookEvent(event.Type, "processed")
		metrics.OrderPlaced(order.PaymentStatus)
		log.Info().Str("route", route).Str("eventId", event.ID).Str("orderId", order.OrderID).Msg("card order created")
		c.JSON(http.StatusOK, gin.H{"received": true})
	}
}

func completeCheckout(ctx context.Context, gateway PaymentGateway, orders OrderStore, carts CartStore, users UserStore, session payment.CompletedSession) (*models.Order, error) {
	userID, ok := parseObjectID(session.UserID)
	if !ok {
		return nil, fmt.Errorf("checkout session %s has no valid userId metadata", session.ID)
	}

	items, err := gateway.SessionItems(ctx, session.ID)
	if err != nil {
		return nil, err
	}

	lines := make([]models.OrderLine, 0, len(items))
	for _, item := range items {
		lines = append(lines, models.OrderLine{
			ProductID:      item.ProductID,
			Quantity:       int(item.Quantity),
			ProductDetails: models.NewProductSnapshot(item.Name, item.Images),
		})
	}

	order := &models.Order{
		UserID:          userID,
		OrderID:         models.NewOrderID(),
		Products:        lines,
		PaymentID:       session.PaymentIntentID,
		PaymentStatus:   models.PaymentStatusCard,
		DeliveryAddress: session.AddressID,
		SubTotalAmt:     payment.FromMinorUnits(session.AmountSubtotal),
		TotalAmt:        payment.FromMinorUnits(session.AmountTotal),
		Status:          models.OrderStatusPending,
	}
	if err := orders.Insert(ctx, order); err != nil {
		return nil, err
	}
	if err := clearCart(ctx, carts, users, userID); err != nil {
		return nil, err
	}
	return order, nil
}

func reportError(c *gin.Context, err error) {
	if hub := sentrygin.GetHubFromContext(c); hub != nil {
		hub.CaptureException(err)
		return
	}
	sentry.CaptureException(err)
}
