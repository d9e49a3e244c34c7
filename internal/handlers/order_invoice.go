package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"petstore/internal/models"
)

type InvoiceRenderer interface {
	Render(order models.Order, address *models.Address) ([]byte, error)
}

// OrderInvoice serves the PDF receipt for an order. Orders of other users
// are reported as missing unless the caller is an admin.
func OrderInvoice(orders OrderStore, addresses AddressStore, users UserStore, renderer InvoiceRenderer) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/order/invoice/:orderId"
		defer handlePanic(c, route)

		userID, ok := currentUserID(c)
		if !ok {
			respondWithError(c, http.StatusUnauthorized, route, "No has iniciado sesión")
			return
		}

		ctx, cancel := storeContext(c)
		defer cancel()

		order, err := orders.FindByOrderID(ctx, c.Param("orderId"))
		if isNotFound(err) {
			respondWithError(c, http.StatusNotFound, route, "Pedido no encontrado")
			return
		}
		if err != nil {
			respondInternal(c, route, err)
			return
		}

		if order.UserID != userID {
			user, err := users.FindByID(ctx, userID)
			if err != nil && !isNotFound(err) {
				respondInternal(c, route, err)
				return
			}
			if user == nil || !user.IsAdmin() {
				respondWithError(c, http.StatusNotFound, route, "Pedido no encontrado")
				return
			}
		}

		var address *models.Address
		if id, ok := parseObjectID(order.DeliveryAddress); ok {
			found, err := addresses.FindByIDs(ctx, []primitive.ObjectID{id})
			if err != nil {
				respondInternal(c, route, err)
				return
			}
			if len(found) > 0 {
				address = &found[0]
			}
		}

		pdf, err := renderer.Render(*order, address)
		if err != nil {
			respondInternal(c, route, err)
			return
		}

		c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.pdf"`, order.OrderID))
		c.Data(http.StatusOK, "application/pdf", pdf)
	}
}
