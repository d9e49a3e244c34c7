package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"petstore/internal/models"
)

type addToCartRequest struct {
	ProductID string `json:"productId"`
}

type updateCartQtyRequest struct {
	ID  string `json:"_id"`
	Qty int    `json:"qty"`
}

type deleteCartItemRequest struct {
	ID string `json:"_id"`
}

// AddToCart always inserts a fresh row with quantity 1. Adding a product
// that is already in the cart creates a second row.
func AddToCart(carts CartStore, users UserStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/cart/create"
		defer handlePanic(c, route)

		userID, ok := currentUserID(c)
		if !ok {
			respondWithError(c, http.StatusUnauthorized, route, "No has iniciado sesión")
			return
		}

		var req addToCartRequest
		_ = c.ShouldBindJSON(&req)
		productID, ok := parseObjectID(req.ProductID)
		if !ok {
			respondWithError(c, http.StatusBadRequest, route, "Provea un id de producto")
			return
		}

		ctx, cancel := storeContext(c)
		defer cancel()

		item := &models.CartItem{
			ProductID: productID,
			UserID:    userID,
			Quantity:  1,
		}
		if err := carts.Insert(ctx, item); err != nil {
			respondInternal(c, route, err)
			return
		}
		if err := users.PushCartItem(ctx, userID, item.ID); err != nil {
			respondInternal(c, route, err)
			return
		}

		log.Debug().Str("route", route).Str("cartItemId", item.ID.Hex()).Msg("cart item added")
		respondOK(c, "Producto se añadio al carrito", item)
	}
}

func GetCart(carts CartStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/cart/get"
		defer handlePanic(c, route)

		userID, ok := currentUserID(c)
		if !ok {
			respondWithError(c, http.StatusUnauthorized, route, "No has iniciado sesión")
			return
		}

		ctx, cancel := storeContext(c)
		defer cancel()

		lines, err := carts.ListByUser(ctx, userID)
		if err != nil {
			respondInternal(c, route, err)
			return
		}

		respondOK(c, "Carrito", lines)
	}
}

// UpdateCartQty overwrites the quantity. A zero or negative qty is treated as
// missing and nothing is written.
func UpdateCartQty(carts CartStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /api/cart/update-qty"
		defer handlePanic(c, route)

		userID, ok := currentUserID(c)
		if !ok {
			respondWithError(c, http.StatusUnauthorized, route, "No has iniciado sesión")
			return
		}

		var req updateCartQtyRequest
		_ = c.ShouldBindJSON(&req)
		itemID, ok := parseObjectID(req.ID)
		if !ok || req.Qty < 1 {
			respondWithError(c, http.StatusBadRequest, route, "provide _id, qty")
			return
		}

		ctx, cancel := storeContext(c)
		defer cancel()

		res, err := carts.UpdateQuantity(ctx, userID, itemID, req.Qty)
		if err != nil {
			respondInternal(c, route, err)
			return
		}

		respondOK(c, "Carrito actualizado", res)
	}
}

func DeleteCartItem(carts CartStore, users UserStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /api/cart/delete-cart-item"
		defer handlePanic(c, route)

		userID, ok := currentUserID(c)
		if !ok {
			respondWithError(c, http.StatusUnauthorized, route, "No has iniciado sesión")
			return
		}

		var req deleteCartItemRequest
		_ = c.ShouldBindJSON(&req)
		itemID, ok := parseObjectID(req.ID)
		if !ok {
			respondWithError(c, http.StatusBadRequest, route, "Provide _id")
			return
		}

		ctx, cancel := storeContext(c)
		defer cancel()

		deleted, err := carts.Delete(ctx, userID, itemID)
		if err != nil {
			respondInternal(c, route, err)
			return
		}
		if err := users.PullCartItem(ctx, userID, itemID); err != nil {
			respondInternal(c, route, err)
			return
		}

		respondOK(c, "Producto eliminado", gin.H{"deletedCount": deleted})
	}
}
