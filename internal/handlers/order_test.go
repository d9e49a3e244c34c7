package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"petstore/internal/memstore"
	"petstore/internal/models"
)

func codBody() map[string]any {
	return map[string]any{
		"list_items": []map[string]any{{
			"_id": "c1",
			"productId": map[string]any{
				"_id":   "p1",
				"name":  "Concentrado",
				"image": []string{"http://cdn.local/concentrado.png"},
				"price": 100,
			},
			"quantity": 1,
		}},
		"addressId":   "address123",
		"subTotalAmt": 100,
		"totalAmt":    100,
	}
}

func TestCashOnDeliveryCreatesOrderAndClearsCart(t *testing.T) {
	db := memstore.New()
	user := seedUser(t, db, models.RoleUser)
	product := seedProduct(t, db, "concentrado", 10)
	ctx := context.Background()
	for i := 0; i < 2; i++ {
		item := &models.CartItem{UserID: user.ID, ProductID: product.ID, Quantity: 1}
		require.NoError(t, db.Carts.Insert(ctx, item))
		require.NoError(t, db.Users.PushCartItem(ctx, user.ID, item.ID))
	}

	r := newRouter(user.ID)
	r.POST("/api/order/cash-on-delivery", CashOnDeliveryOrder(db.Orders, db.Carts, db.Users))

	w := doJSON(t, r, http.MethodPost, "/api/order/cash-on-delivery", codBody())
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	env := decodeEnvelope(t, w)
	assert.True(t, env.Success)
	assert.Equal(t, "¡Pedido realizado con éxito!", env.Message)

	var order models.Order
	decodeData(t, env, &order)
	assert.Equal(t, models.PaymentStatusCashOnDelivery, order.PaymentStatus)
	assert.Empty(t, order.PaymentID)
	assert.Equal(t, "address123", order.DeliveryAddress)
	assert.Equal(t, 100.0, order.TotalAmt)
	assert.Equal(t, models.OrderStatusPending, order.Status)
	require.Len(t, order.Products, 1)
	assert.Equal(t, "p1", order.Products[0].ProductID)
	assert.Equal(t, "Concentrado", order.Products[0].ProductDetails.Name)
	assert.Regexp(t, `^ORD-[0-9a-f]{24}$`, order.OrderID)

	assert.Zero(t, db.Carts.Count(user.ID))
	stored, err := db.Users.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, stored.ShoppingCart)

	orders, err := db.Orders.List(ctx, &user.ID)
	require.NoError(t, err)
	assert.Len(t, orders, 1)
}

func TestCashOnDeliveryRejectsEmptyOrder(t *testing.T) {
	db := memstore.New()
	user := seedUser(t, db, models.RoleUser)

	r := newRouter(user.ID)
	r.POST("/api/order/cash-on-delivery", CashOnDeliveryOrder(db.Orders, db.Carts, db.Users))

	body := codBody()
	body["list_items"] = []map[string]any{}
	w := doJSON(t, r, http.MethodPost, "/api/order/cash-on-delivery", body)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, invalidOrderRequestMessage, decodeEnvelope(t, w).Message)

	orders, err := db.Orders.List(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestOrderSnapshotSurvivesCatalogEdits(t *testing.T) {
	db := memstore.New()
	user := seedUser(t, db, models.RoleUser)
	product := seedProduct(t, db, "cama", 2)

	r := newRouter(user.ID)
	r.POST("/api/order/cash-on-delivery", CashOnDeliveryOrder(db.Orders, db.Carts, db.Users))

	body := codBody()
	body["list_items"] = []map[string]any{{
		"productId": map[string]any{"_id": product.ID.Hex(), "name": "cama", "image": []string{"a.png"}},
		"quantity":  2,
	}}
	w := doJSON(t, r, http.MethodPost, "/api/order/cash-on-delivery", body)
	require.Equal(t, http.StatusOK, w.Code)

	renamed := "cama deluxe"
	_, err := db.Products.Update(context.Background(), product.ID, models.ProductFields{
		Name:  &renamed,
		Image: models.StringList{"b.png"},
	})
	require.NoError(t, err)

	orders, err := db.Orders.List(context.Background(), &user.ID)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, "cama", orders[0].Products[0].ProductDetails.Name)
	assert.Equal(t, []string{"a.png"}, orders[0].Products[0].ProductDetails.Image)
}

func TestCheckoutReturnsSessionURL(t *testing.T) {
	db := memstore.New()
	user := seedUser(t, db, models.RoleUser)
	gateway := &fakeGateway{checkoutURL: "https://checkout.stripe.test/c/pay/cs_1"}

	r := newRouter(user.ID)
	r.POST("/api/order/checkout", Checkout(gateway, db.Users))

	w := doJSON(t, r, http.MethodPost, "/api/order/checkout", codBody())
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"url":"https://checkout.stripe.test/c/pay/cs_1"`)

	assert.Equal(t, user.ID.Hex(), gateway.lastRequest.UserID)
	assert.Equal(t, "address123", gateway.lastRequest.AddressID)
	assert.Equal(t, user.Email, gateway.lastRequest.CustomerEmail)
	require.Len(t, gateway.lastRequest.Items, 1)
	assert.Equal(t, 100.0, gateway.lastRequest.Items[0].UnitPrice)

	orders, err := db.Orders.List(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, orders, "no order exists until the webhook confirms payment")
}

func TestGetOrdersScopesByRole(t *testing.T) {
	db := memstore.New()
	ctx := context.Background()
	admin := seedUser(t, db, models.RoleAdmin)
	alice := seedUser(t, db, models.RoleUser)
	bob := seedUser(t, db, models.RoleUser)

	address := &models.Address{City: "Cali", Status: true, UserID: alice.ID}
	require.NoError(t, db.Addresses.Insert(ctx, address))
	_, err := db.Addresses.Disable(ctx, alice.ID, address.ID)
	require.NoError(t, err)

	for _, u := range []*models.User{alice, bob} {
		require.NoError(t, db.Orders.Insert(ctx, &models.Order{
			UserID:          u.ID,
			OrderID:         models.NewOrderID(),
			PaymentStatus:   models.PaymentStatusCashOnDelivery,
			DeliveryAddress: address.ID.Hex(),
			TotalAmt:        100,
		}))
	}

	list := func(id primitive.ObjectID) []models.OrderView {
		r := newRouter(id)
		r.GET("/api/order/order-list", GetOrders(db.Orders, db.Addresses, db.Users))
		w := doJSON(t, r, http.MethodGet, "/api/order/order-list", nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		env := decodeEnvelope(t, w)
		assert.Equal(t, "Lista de pedidos", env.Message)
		var views []models.OrderView
		decodeData(t, env, &views)
		return views
	}

	own := list(alice.ID)
	require.Len(t, own, 1)
	require.NotNil(t, own[0].DeliveryAddress.Address, "disabled addresses still resolve on orders")
	assert.Equal(t, "Cali", own[0].DeliveryAddress.Address.City)
	assert.Nil(t, own[0].User.Summary)
	assert.Equal(t, alice.ID, own[0].User.ID)

	all := list(admin.ID)
	require.Len(t, all, 2)
	require.NotNil(t, all[0].User.Summary)
	assert.Equal(t, bob.Email, all[0].User.Summary.Email)
}

func TestGetOrdersKeepsRawReferencesWhenUnresolved(t *testing.T) {
	db := memstore.New()
	user := seedUser(t, db, models.RoleUser)
	require.NoError(t, db.Orders.Insert(context.Background(), &models.Order{
		UserID:          user.ID,
		OrderID:         models.NewOrderID(),
		PaymentStatus:   models.PaymentStatusCashOnDelivery,
		DeliveryAddress: "address123",
		TotalAmt:        100,
	}))

	r := newRouter(user.ID)
	r.GET("/api/order/order-list", GetOrders(db.Orders, db.Addresses, db.Users))
	w := doJSON(t, r, http.MethodGet, "/api/order/order-list", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var raw []map[string]any
	decodeData(t, decodeEnvelope(t, w), &raw)
	require.Len(t, raw, 1)
	assert.Equal(t, "address123", raw[0]["delivery_address"])
	assert.Equal(t, user.ID.Hex(), raw[0]["userId"])
}
