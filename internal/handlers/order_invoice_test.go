package handlers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"petstore/internal/memstore"
	"petstore/internal/models"
)

type stubRenderer struct {
	rendered []models.Order
}

func (s *stubRenderer) Render(order models.Order, _ *models.Address) ([]byte, error) {
	s.rendered = append(s.rendered, order)
	return []byte("%PDF-1.3 stub"), nil
}

func TestOrderInvoiceVisibility(t *testing.T) {
	db := memstore.New()
	owner := seedUser(t, db, models.RoleUser)
	stranger := seedUser(t, db, models.RoleUser)
	admin := seedUser(t, db, models.RoleAdmin)
	order := seedOrder(t, db, *owner)
	renderer := &stubRenderer{}

	get := func(user *models.User, orderID string) int {
		r := newRouter(user.ID)
		r.GET("/api/order/invoice/:orderId", OrderInvoice(db.Orders, db.Addresses, db.Users, renderer))
		w := doJSON(t, r, http.MethodGet, "/api/order/invoice/"+orderID, nil)
		if w.Code == http.StatusOK {
			assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
			assert.Contains(t, w.Header().Get("Content-Disposition"), order.OrderID+".pdf")
		}
		return w.Code
	}

	assert.Equal(t, http.StatusOK, get(owner, order.OrderID))
	assert.Equal(t, http.StatusOK, get(admin, order.OrderID))
	assert.Equal(t, http.StatusNotFound, get(stranger, order.OrderID))
	assert.Equal(t, http.StatusNotFound, get(owner, "ORD-missing"))

	require.Len(t, renderer.rendered, 2)
}
