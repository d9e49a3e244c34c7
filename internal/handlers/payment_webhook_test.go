package handlers

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"petstore/internal/memstore"
	"petstore/internal/models"
	"petstore/internal/payment"
)

func postWebhook(t *testing.T, gateway PaymentGateway, db *memstore.DB, signature string) *httptest.ResponseRecorder {
	t.Helper()
	r := gin.New()
	r.POST("/api/order/webhook", PaymentWebhook(gateway, db.Orders, db.Carts, db.Users))

	req := httptest.NewRequest(http.MethodPost, "/api/order/webhook", bytes.NewBufferString(`{"id":"evt_1","object":"event","type":"checkout.session.completed","data":{"object":{}}}`))
	req.Header.Set(stripeSignatureHeader, signature)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func seedCart(t *testing.T, db *memstore.DB, user *models.User) {
	t.Helper()
	product := seedProduct(t, db, "snack", 5)
	item := &models.CartItem{UserID: user.ID, ProductID: product.ID, Quantity: 1}
	require.NoError(t, db.Carts.Insert(context.Background(), item))
	require.NoError(t, db.Users.PushCartItem(context.Background(), user.ID, item.ID))
}

func TestWebhookBadSignatureChangesNothing(t *testing.T) {
	db := memstore.New()
	user := seedUser(t, db, models.RoleUser)
	seedCart(t, db, user)

	gateway := payment.NewStripeGateway(payment.Config{
		SecretKey:     "sk_test_123",
		WebhookSecret: "whsec_test_secret",
		FrontendURL:   "http://shop.local",
	})

	w := postWebhook(t, gateway, db, "t=1,v1=deadbeef")
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decodeEnvelope(t, w).Message, "Webhook Error: ")

	orders, err := db.Orders.List(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, orders)
	assert.Equal(t, 1, db.Carts.Count(user.ID))
}

func TestWebhookCompletedSessionCreatesCardOrder(t *testing.T) {
	db := memstore.New()
	user := seedUser(t, db, models.RoleUser)
	seedCart(t, db, user)

	gateway := &fakeGateway{
		event: payment.Event{
			ID:   "evt_1",
			Type: payment.EventCheckoutCompleted,
			Session: &payment.CompletedSession{
				ID:              "cs_test_1",
				UserID:          user.ID.Hex(),
				AddressID:       "65f1c0ffee0000000000beef",
				PaymentIntentID: "pi_123",
				AmountTotal:     1250000,
				AmountSubtotal:  1200000,
			},
		},
		items: []payment.PurchasedItem{{
			ProductID: "65f1c0ffee0000000000aaaa",
			Name:      "Concentrado",
			Images:    []string{"http://cdn.local/c.png"},
			Quantity:  2,
		}},
	}

	w := postWebhook(t, gateway, db, "sig")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.JSONEq(t, `{"received":true}`, w.Body.String())

	orders, err := db.Orders.List(context.Background(), &user.ID)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	o := orders[0]
	assert.Equal(t, models.PaymentStatusCard, o.PaymentStatus)
	assert.Equal(t, "pi_123", o.PaymentID)
	assert.Equal(t, "65f1c0ffee0000000000beef", o.DeliveryAddress)
	assert.Equal(t, 12500.0, o.TotalAmt)
	assert.Equal(t, 12000.0, o.SubTotalAmt)
	require.Len(t, o.Products, 1)
	assert.Equal(t, 2, o.Products[0].Quantity)
	assert.Equal(t, "Concentrado", o.Products[0].ProductDetails.Name)

	assert.Zero(t, db.Carts.Count(user.ID))
}

func TestWebhookIgnoresOtherEvents(t *testing.T) {
	db := memstore.New()
	gateway := &fakeGateway{event: payment.Event{ID: "evt_2", Type: "payment_intent.created"}}

	w := postWebhook(t, gateway, db, "sig")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"received":true}`, w.Body.String())

	orders, err := db.Orders.List(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestWebhookLineItemFailureIs500(t *testing.T) {
	db := memstore.New()
	user := seedUser(t, db, models.RoleUser)
	seedCart(t, db, user)

	gateway := &fakeGateway{
		event: payment.Event{
			Type:    payment.EventCheckoutCompleted,
			Session: &payment.CompletedSession{ID: "cs_1", UserID: user.ID.Hex()},
		},
		itemsErr: errors.New("stripe unavailable"),
	}

	w := postWebhook(t, gateway, db, "sig")
	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, 1, db.Carts.Count(user.ID))
}
