package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"petstore/internal/models"
)

type updateOrderStatusRequest struct {
	OrderID string `json:"orderId"`
	Status  string `json:"status"`
}

// UpdateOrderStatus moves an order to any allowed status, backwards included.
// An unknown id is not an error; the response data is null.
func UpdateOrderStatus(orders OrderStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /api/order/status"
		defer handlePanic(c, route)

		var req updateOrderStatusRequest
		_ = c.ShouldBindJSON(&req)

		status := strings.TrimSpace(req.Status)
		if !models.IsValidOrderStatus(status) {
			respondWithError(c, http.StatusBadRequest, route, "Estado no válido")
			return
		}
		orderID, ok := parseObjectID(req.OrderID)
		if !ok {
			respondWithError(c, http.StatusBadRequest, route, "Provea el id del pedido")
			return
		}

		ctx, cancel := storeContext(c)
		defer cancel()

		updated, err := orders.UpdateStatus(ctx, orderID, status)
		if err != nil {
			respondInternal(c, route, err)
			return
		}

		log.Info().Str("route", route).Str("id", orderID.Hex()).Str("status", status).Bool("found", updated != nil).Msg("order status updated")
		respondOK(c, "Estado actualizado", updated)
	}
}
