package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"petstore/internal/models"
)

type addressRequest struct {
	ID                    string `json:"_id"`
	City                  string `json:"city"`
	Department            string `json:"department"`
	AddressDetail         string `json:"address_detail"`
	AdditionalInformation string `json:"additional_information"`
	Neighborhood          string `json:"neighborhood"`
	Mobile                *int64 `json:"mobile"`
}

func (r addressRequest) fields() models.AddressFields {
	return models.AddressFields{
		City:                  strings.TrimSpace(r.City),
		Department:            strings.TrimSpace(r.Department),
		AddressDetail:         strings.TrimSpace(r.AddressDetail),
		AdditionalInformation: strings.TrimSpace(r.AdditionalInformation),
		Neighborhood:          strings.TrimSpace(r.Neighborhood),
		Mobile:                r.Mobile,
	}
}

func CreateAddress(addresses AddressStore, users UserStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/address/create"
		defer handlePanic(c, route)

		userID, ok := currentUserID(c)
		if !ok {
			respondWithError(c, http.StatusUnauthorized, route, "No has iniciado sesión")
			return
		}

		var req addressRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, route, "Datos de dirección invalidos", err)
			return
		}

		f := req.fields()
		address := &models.Address{
			City:                  f.City,
			Department:            f.Department,
			AddressDetail:         f.AddressDetail,
			AdditionalInformation: f.AdditionalInformation,
			Neighborhood:          f.Neighborhood,
			Mobile:                f.Mobile,
			Status:                true,
			UserID:                userID,
		}

		ctx, cancel := storeContext(c)
		defer cancel()

		if err := addresses.Insert(ctx, address); err != nil {
			respondInternal(c, route, err)
			return
		}
		if err := users.PushAddress(ctx, userID, address.ID); err != nil {
			respondInternal(c, route, err)
			return
		}

		log.Info().Str("route", route).Str("addressId", address.ID.Hex()).Msg("address created")
		respondOK(c, "Dirección creada exitosamente", address)
	}
}

// GetAddresses lists only active addresses.
func GetAddresses(addresses AddressStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/address/get"
		defer handlePanic(c, route)

		userID, ok := currentUserID(c)
		if !ok {
			respondWithError(c, http.StatusUnauthorized, route, "No has iniciado sesión")
			return
		}

		ctx, cancel := storeContext(c)
		defer cancel()

		list, err := addresses.ListActive(ctx, userID)
		if err != nil {
			respondInternal(c, route, err)
			return
		}

		respondOK(c, "Lista de direcciones", list)
	}
}

// UpdateAddress changes only the fields present in the body and reports the
// store's match counts; an id that matches nothing is still a success.
func UpdateAddress(addresses AddressStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /api/address/update"
		defer handlePanic(c, route)

		userID, ok := currentUserID(c)
		if !ok {
			respondWithError(c, http.StatusUnauthorized, route, "No has iniciado sesión")
			return
		}

		var req addressRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, route, "Datos de dirección invalidos", err)
			return
		}
		addressID, ok := parseObjectID(req.ID)
		if !ok {
			respondWithError(c, http.StatusBadRequest, route, "Provide _id")
			return
		}

		ctx, cancel := storeContext(c)
		defer cancel()

		res, err := addresses.Update(ctx, userID, addressID, req.fields())
		if err != nil {
			respondInternal(c, route, err)
			return
		}

		respondOK(c, "Dirección actualizada exitosamente", res)
	}
}

// DisableAddress soft-deletes: the row stays, flagged inactive.
func DisableAddress(addresses AddressStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /api/address/disable"
		defer handlePanic(c, route)

		userID, ok := currentUserID(c)
		if !ok {
			respondWithError(c, http.StatusUnauthorized, route, "No has iniciado sesión")
			return
		}

		var req struct {
			ID string `json:"_id"`
		}
		_ = c.ShouldBindJSON(&req)
		addressID, ok := parseObjectID(req.ID)
		if !ok {
			respondWithError(c, http.StatusBadRequest, route, "Provide _id")
			return
		}

		ctx, cancel := storeContext(c)
		defer cancel()

		res, err := addresses.Disable(ctx, userID, addressID)
		if err != nil {
			respondInternal(c, route, err)
			return
		}

		respondOK(c, "Dirección eliminada exitosamente", res)
	}
}
