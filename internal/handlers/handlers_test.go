package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"petstore/internal/memstore"
	"petstore/internal/models"
	"petstore/internal/payment"
)

var (
	_ UserStore        = (*memstore.Users)(nil)
	_ CartStore        = (*memstore.Carts)(nil)
	_ AddressStore     = (*memstore.Addresses)(nil)
	_ OrderStore       = (*memstore.Orders)(nil)
	_ CategoryStore    = (*memstore.Categories)(nil)
	_ SubCategoryStore = (*memstore.SubCategories)(nil)
	_ ProductStore     = (*memstore.Products)(nil)
	_ Pinger           = (*memstore.DB)(nil)
)

func init() {
	gin.SetMode(gin.TestMode)
}

type envelope struct {
	Message string          `json:"message"`
	Error   bool            `json:"error"`
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
}

// asUser stands in for the auth middleware.
func asUser(id primitive.ObjectID) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("userId", id)
		c.Next()
	}
}

func newRouter(userID primitive.ObjectID) *gin.Engine {
	r := gin.New()
	if !userID.IsZero() {
		r.Use(asUser(userID))
	}
	return r
}

func doJSON(t *testing.T, r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return env
}

func decodeData(t *testing.T, env envelope, out any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(env.Data, out), string(env.Data))
}

func seedUser(t *testing.T, db *memstore.DB, role string) *models.User {
	t.Helper()
	u := &models.User{
		Name:   "Ana",
		Email:  primitive.NewObjectID().Hex() + "@example.com",
		Status: models.UserStatusActive,
		Role:   role,
	}
	require.NoError(t, db.Users.Create(context.Background(), u))
	return u
}

func seedProduct(t *testing.T, db *memstore.DB, name string, stock int, categories ...primitive.ObjectID) *models.Product {
	t.Helper()
	p := &models.Product{
		Name:        name,
		Image:       models.StringList{"http://cdn.local/" + name + ".png"},
		Category:    categories,
		Unit:        "kg",
		Stock:       stock,
		Price:       25000,
		Description: name + " para mascotas",
		Status:      true,
	}
	require.NoError(t, db.Products.Insert(context.Background(), p))
	return p
}

// fakeGateway records checkout calls and replays canned webhook results.
type fakeGateway struct {
	checkoutURL string
	lastRequest payment.CheckoutRequest

	event    payment.Event
	parseErr error

	items    []payment.PurchasedItem
	itemsErr error
}

func (g *fakeGateway) CreateCheckoutSession(_ context.Context, req payment.CheckoutRequest) (string, error) {
	g.lastRequest = req
	return g.checkoutURL, nil
}

func (g *fakeGateway) ParseWebhook([]byte, string) (payment.Event, error) {
	return g.event, g.parseErr
}

func (g *fakeGateway) SessionItems(context.Context, string) ([]payment.PurchasedItem, error) {
	return g.items, g.itemsErr
}
