package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"petstore/internal/metrics"
	"petstore/internal/models"
	"petstore/internal/payment"
)

type PaymentGateway interface {
	CreateCheckoutSession(ctx context.Context, req payment.CheckoutRequest) (string, error)
	ParseWebhook(payload []byte, signature string) (payment.Event, error)
	SessionItems(ctx context.Context, sessionID string) ([]payment.PurchasedItem, error)
}

/* ===== REQUEST DTOs ===== */

type orderProductInput struct {
	ID    string            `json:"_id"`
	Name  string            `json:"name"`
	Image models.StringList `json:"image"`
	Price float64           `json:"price"`
}

// orderLineInput is a cart line as the client holds it, product expanded.
type orderLineInput struct {
	ID        string            `json:"_id"`
	ProductID orderProductInput `json:"productId"`
	Quantity  int               `json:"quantity"`
}

type placeOrderRequest struct {
	ListItems   []orderLineInput `json:"list_items"`
	AddressID   string           `json:"addressId"`
	SubTotalAmt float64          `json:"subTotalAmt"`
	TotalAmt    float64          `json:"totalAmt"`
}

const invalidOrderRequestMessage = "Provea los productos y la dirección de entrega"

func (r placeOrderRequest) validate() bool {
	if len(r.ListItems) == 0 || strings.TrimSpace(r.AddressID) == "" {
		return false
	}
	for _, item := range r.ListItems {
		if strings.TrimSpace(item.ProductID.ID) == "" || item.Quantity < 1 {
			return false
		}
	}
	return true
}

// snapshotLines freezes each cart line into an order line.
func snapshotLines(items []orderLineInput) []models.OrderLine {
	lines := make([]models.OrderLine, 0, len(items))
	for _, item := range items {
		lines = append(lines, models.OrderLine{
			ProductID:      item.ProductID.ID,
			Quantity:       item.Quantity,
			ProductDetails: models.NewProductSnapshot(item.ProductID.Name, item.ProductID.Image),
		})
	}
	return lines
}

/* ===== CASH ON DELIVERY ===== */

// CashOnDeliveryOrder trusts the client's totals. The order insert and the
// cart cleanup are separate writes; if cleanup fails the order stays.
func CashOnDeliveryOrder(orders OrderStore, carts CartStore, users UserStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/order/cash-on-delivery"
		defer handlePanic(c, route)

		userID, ok := currentUserID(c)
		if !ok {
			respondWithError(c, http.StatusUnauthorized, route, "No has iniciado sesión")
			return
		}

		var req placeOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil || !req.validate() {
			respondWithError(c, http.StatusBadRequest, route, invalidOrderRequestMessage)
			return
		}

		order := &models.Order{
			UserID:          userID,
			OrderID:         models.NewOrderID(),
			Products:        snapshotLines(req.ListItems),
			PaymentID:       "",
			PaymentStatus:   models.PaymentStatusCashOnDelivery,
			DeliveryAddress: strings.TrimSpace(req.AddressID),
			SubTotalAmt:     req.SubTotalAmt,
			TotalAmt:        req.TotalAmt,
			Status:          models.OrderStatusPending,
		}

		ctx, cancel := storeContext(c)
		defer cancel()

		if err := orders.Insert(ctx, order); err != nil {
			respondInternal(c, route, err)
			return
		}
		metrics.OrderPlaced(order.PaymentStatus)

		if err := clearCart(ctx, carts, users, userID); err != nil {
			respondInternal(c, route, err)
			return
		}

		log.Info().Str("route", route).Str("orderId", order.OrderID).Msg("order placed")
		respondOK(c, "¡Pedido realizado con éxito!", order)
	}
}

func clearCart(ctx context.Context, carts CartStore, users UserStore, userID primitive.ObjectID) error {
	if _, err := carts.DeleteByUser(ctx, userID); err != nil {
		return err
	}
	return users.ClearCart(ctx, userID)
}

/* ===== ONLINE PAYMENT ===== */

// Checkout starts a hosted payment. No order exists until the gateway
// confirms the payment through the webhook.
func Checkout(gateway PaymentGateway, users UserStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/order/checkout"
		defer handlePanic(c, route)

		userID, ok := currentUserID(c)
		if !ok {
			respondWithError(c, http.StatusUnauthorized, route, "No has iniciado sesión")
			return
		}

		var req placeOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil || !req.validate() {
			respondWithError(c, http.StatusBadRequest, route, invalidOrderRequestMessage)
			return
		}

		ctx, cancel := storeContext(c)
		defer cancel()

		user, err := users.FindByID(ctx, userID)
		if err != nil {
			respondInternal(c, route, err)
			return
		}

		items := make([]payment.LineItem, 0, len(req.ListItems))
		for _, item := range req.ListItems {
			items = append(items, payment.LineItem{
				ProductID: item.ProductID.ID,
				Name:      item.ProductID.Name,
				Images:    item.ProductID.Image,
				UnitPrice: item.ProductID.Price,
				Quantity:  int64(item.Quantity),
			})
		}

		url, err := gateway.CreateCheckoutSession(ctx, payment.CheckoutRequest{
			UserID:        userID.Hex(),
			AddressID:     strings.TrimSpace(req.AddressID),
			CustomerEmail: user.Email,
			Items:         items,
		})
		if err != nil {
			respondInternal(c, route, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"message": "Sesión de pago creada",
			"error":   false,
			"success": true,
			"url":     url,
			"data":    gin.H{"url": url},
		})
	}
}

/* ===== LISTING ===== */

// GetOrders lists every order for admins and the caller's own orders for
// everyone else, newest first, with delivery addresses resolved.
func GetOrders(orders OrderStore, addresses AddressStore, users UserStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/order/order-list"
		defer handlePanic(c, route)

		userID, ok := currentUserID(c)
		if !ok {
			respondWithError(c, http.StatusUnauthorized, route, "No has iniciado sesión")
			return
		}

		ctx, cancel := storeContext(c)
		defer cancel()

		user, err := users.FindByID(ctx, userID)
		if err != nil {
			respondInternal(c, route, err)
			return
		}

		var filter *primitive.ObjectID
		if !user.IsAdmin() {
			filter = &userID
		}

		list, err := orders.List(ctx, filter)
		if err != nil {
			respondInternal(c, route, err)
			return
		}

		views, err := buildOrderViews(ctx, list, addresses, users, user.IsAdmin())
		if err != nil {
			respondInternal(c, route, err)
			return
		}

		respondOK(c, "Lista de pedidos", views)
	}
}

func buildOrderViews(ctx context.Context, list []models.Order, addresses AddressStore, users UserStore, withCustomer bool) ([]models.OrderView, error) {
	addressIDs := make([]primitive.ObjectID, 0, len(list))
	userIDs := make([]primitive.ObjectID, 0, len(list))
	for _, o := range list {
		if id, ok := parseObjectID(o.DeliveryAddress); ok {
			addressIDs = append(addressIDs, id)
		}
		userIDs = append(userIDs, o.UserID)
	}

	found, err := addresses.FindByIDs(ctx, addressIDs)
	if err != nil {
		return nil, err
	}
	byAddress := make(map[string]models.Address, len(found))
	for _, a := range found {
		byAddress[a.ID.Hex()] = a
	}

	byUser := map[primitive.ObjectID]models.UserSummary{}
	if withCustomer {
		summaries, err := users.FindSummaries(ctx, userIDs)
		if err != nil {
			return nil, err
		}
		for _, s := range summaries {
			byUser[s.ID] = s
		}
	}

	views := make([]models.OrderView, 0, len(list))
	for _, o := range list {
		view := models.OrderView{
			Order:           o,
			DeliveryAddress: models.AddressRef{ID: o.DeliveryAddress},
			User:            models.CustomerRef{ID: o.UserID},
		}
		if a, ok := byAddress[o.DeliveryAddress]; ok {
			view.DeliveryAddress.Address = &a
		}
		if s, ok := byUser[o.UserID]; ok {
			view.User.Summary = &s
		}
		views = append(views, view)
	}
	return views, nil
}

func isNotFound(err error) bool {
	return errors.Is(err, mongo.ErrNoDocuments)
}
