package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"petstore/internal/memstore"
	"petstore/internal/models"
)

func createAddress(t *testing.T, r http.Handler, city string) models.Address {
	t.Helper()
	w := doJSON(t, r, http.MethodPost, "/api/address/create", map[string]any{
		"city":           city,
		"department":     "Antioquia",
		"address_detail": "Calle 10 # 20-30",
		"neighborhood":   "Laureles",
		"mobile":         3001234567,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	env := decodeEnvelope(t, w)
	assert.Equal(t, "Dirección creada exitosamente", env.Message)

	var a models.Address
	decodeData(t, env, &a)
	return a
}

func addressRouter(db *memstore.DB, user *models.User) http.Handler {
	r := newRouter(user.ID)
	r.POST("/api/address/create", CreateAddress(db.Addresses, db.Users))
	r.GET("/api/address/get", GetAddresses(db.Addresses))
	r.PUT("/api/address/update", UpdateAddress(db.Addresses))
	r.DELETE("/api/address/disable", DisableAddress(db.Addresses))
	return r
}

func TestCreateAddressLinksToUser(t *testing.T) {
	db := memstore.New()
	user := seedUser(t, db, models.RoleUser)
	r := addressRouter(db, user)

	a := createAddress(t, r, "Medellín")
	assert.True(t, a.Status)
	assert.Equal(t, user.ID, a.UserID)

	stored, err := db.Users.FindByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Contains(t, stored.AddressDetails, a.ID)
}

func TestDisableAddressKeepsRowButHidesIt(t *testing.T) {
	db := memstore.New()
	user := seedUser(t, db, models.RoleUser)
	r := addressRouter(db, user)

	kept := createAddress(t, r, "Bogotá")
	disabled := createAddress(t, r, "Cali")

	w := doJSON(t, r, http.MethodDelete, "/api/address/disable", map[string]any{"_id": disabled.ID.Hex()})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Dirección eliminada exitosamente", decodeEnvelope(t, w).Message)

	row, ok := db.Addresses.Get(disabled.ID)
	require.True(t, ok)
	assert.False(t, row.Status)

	w = doJSON(t, r, http.MethodGet, "/api/address/get", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list []models.Address
	decodeData(t, decodeEnvelope(t, w), &list)
	require.Len(t, list, 1)
	assert.Equal(t, kept.ID, list[0].ID)
}

func TestUpdateAddressUnknownIDStillSucceeds(t *testing.T) {
	db := memstore.New()
	user := seedUser(t, db, models.RoleUser)
	r := addressRouter(db, user)

	w := doJSON(t, r, http.MethodPut, "/api/address/update", map[string]any{
		"_id":  "65f1c0ffee0000000000beef",
		"city": "Pasto",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var res models.UpdateResult
	decodeData(t, decodeEnvelope(t, w), &res)
	assert.Zero(t, res.MatchedCount)
}

func TestUpdateAddressRequiresID(t *testing.T) {
	db := memstore.New()
	user := seedUser(t, db, models.RoleUser)
	r := addressRouter(db, user)

	w := doJSON(t, r, http.MethodPut, "/api/address/update", map[string]any{"city": "Pasto"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Provide _id", decodeEnvelope(t, w).Message)
}

func TestUpdateAddressChangesOnlyGivenFields(t *testing.T) {
	db := memstore.New()
	user := seedUser(t, db, models.RoleUser)
	r := addressRouter(db, user)
	a := createAddress(t, r, "Bogotá")

	w := doJSON(t, r, http.MethodPut, "/api/address/update", map[string]any{
		"_id":            a.ID.Hex(),
		"city":           "Tunja",
		"department":     "Boyacá",
		"address_detail": "Carrera 5",
	})
	require.Equal(t, http.StatusOK, w.Code)

	row, ok := db.Addresses.Get(a.ID)
	require.True(t, ok)
	assert.Equal(t, "Tunja", row.City)
	assert.Equal(t, "Boyacá", row.Department)
	assert.Equal(t, "Carrera 5", row.AddressDetail)
	assert.Equal(t, "Laureles", row.Neighborhood)
	require.NotNil(t, row.Mobile)
	assert.EqualValues(t, 3001234567, *row.Mobile)
	assert.True(t, row.Status)

	w = doJSON(t, r, http.MethodPut, "/api/address/update", map[string]any{
		"_id":  a.ID.Hex(),
		"city": "Pasto",
	})
	require.Equal(t, http.StatusOK, w.Code)

	row, ok = db.Addresses.Get(a.ID)
	require.True(t, ok)
	assert.Equal(t, "Pasto", row.City)
	assert.Equal(t, "Boyacá", row.Department)
	assert.Equal(t, "Carrera 5", row.AddressDetail)
	assert.Equal(t, "Laureles", row.Neighborhood)
}
