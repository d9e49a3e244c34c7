package storefront

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"petstore/internal/models"
)

const defaultTimeout = 15 * time.Second

// APIError is a non-2xx response carrying the server's message.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("storefront: %d %s", e.Status, e.Message)
}

type Client struct {
	baseURL     string
	httpClient  *http.Client
	credentials CredentialStore
}

// New builds a client whose requests carry the session held in creds.
func New(baseURL string, creds CredentialStore) *Client {
	baseURL = strings.TrimRight(baseURL, "/")
	return &Client{
		baseURL:     baseURL,
		credentials: creds,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
			Transport: &AuthTransport{
				Credentials: creds,
				BaseURL:     baseURL,
			},
		},
	}
}

type envelope struct {
	Message string          `json:"message"`
	Error   bool            `json:"error"`
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	URL     string          `json:"url"`
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) (*envelope, error) {
	var payload []byte
	if body != nil {
		var err error
		if payload, err = json.Marshal(body); err != nil {
			return nil, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	if resp.StatusCode >= 300 || env.Error {
		return nil, &APIError{Status: resp.StatusCode, Message: env.Message}
	}
	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return nil, fmt.Errorf("decode %s %s data: %w", method, path, err)
		}
	}
	return &env, nil
}

func (c *Client) Register(ctx context.Context, name, email, password string) error {
	_, err := c.do(ctx, http.MethodPost, "/api/user/register", map[string]string{
		"name":     name,
		"email":    email,
		"password": password,
	}, nil)
	return err
}

func (c *Client) Login(ctx context.Context, email, password string) error {
	var tokens struct {
		AccessToken  string `json:"accesstoken"`
		RefreshToken string `json:"refreshToken"`
	}
	if _, err := c.do(ctx, http.MethodPost, "/api/user/login", map[string]string{
		"email":    email,
		"password": password,
	}, &tokens); err != nil {
		return err
	}
	c.credentials.Set(tokens.AccessToken, tokens.RefreshToken)
	return nil
}

// Logout clears local credentials even when the server call fails.
func (c *Client) Logout(ctx context.Context) error {
	defer c.credentials.Clear()
	_, err := c.do(ctx, http.MethodGet, "/api/user/logout", nil, nil)
	return err
}

// ForgotPassword asks the server to send a one-time code to email.
func (c *Client) ForgotPassword(ctx context.Context, email string) error {
	_, err := c.do(ctx, http.MethodPut, "/api/user/forgot-password", map[string]string{"email": email}, nil)
	return err
}

// ResetPassword sets a new password. The otp from ForgotPassword is required.
func (c *Client) ResetPassword(ctx context.Context, email, otp, password string) error {
	_, err := c.do(ctx, http.MethodPut, "/api/user/reset-password", map[string]string{
		"email":           email,
		"otp":             otp,
		"newPassword":     password,
		"confirmPassword": password,
	}, nil)
	return err
}

func (c *Client) Cart(ctx context.Context) ([]models.CartLine, error) {
	var lines []models.CartLine
	_, err := c.do(ctx, http.MethodGet, "/api/cart/get", nil, &lines)
	return lines, err
}

func (c *Client) AddToCart(ctx context.Context, productID string) (models.CartItem, error) {
	var item models.CartItem
	_, err := c.do(ctx, http.MethodPost, "/api/cart/create", map[string]string{"productId": productID}, &item)
	return item, err
}

func (c *Client) UpdateCartQty(ctx context.Context, itemID string, qty int) error {
	_, err := c.do(ctx, http.MethodPut, "/api/cart/update-qty", map[string]any{"_id": itemID, "qty": qty}, nil)
	return err
}

func (c *Client) RemoveCartItem(ctx context.Context, itemID string) error {
	_, err := c.do(ctx, http.MethodDelete, "/api/cart/delete-cart-item", map[string]string{"_id": itemID}, nil)
	return err
}

// ChangeCartQty applies delta to a line. A line that would drop below one
// unit is deleted instead of stored with zero.
func (c *Client) ChangeCartQty(ctx context.Context, line models.CartLine, delta int) error {
	next := line.Quantity + delta
	if next < 1 {
		return c.RemoveCartItem(ctx, line.ID.Hex())
	}
	return c.UpdateCartQty(ctx, line.ID.Hex(), next)
}

// CartTotal sums price times quantity over lines whose product still exists.
func CartTotal(lines []models.CartLine) decimal.Decimal {
	total := decimal.Zero
	for _, line := range lines {
		if line.Product == nil {
			continue
		}
		price := decimal.NewFromFloat(line.Product.Price)
		total = total.Add(price.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	return total
}

type orderLine struct {
	ID        string       `json:"_id"`
	ProductID orderProduct `json:"productId"`
	Quantity  int          `json:"quantity"`
}

type orderProduct struct {
	ID    string   `json:"_id"`
	Name  string   `json:"name"`
	Image []string `json:"image"`
	Price float64  `json:"price"`
}

func orderBody(lines []models.CartLine, addressID string) map[string]any {
	items := make([]orderLine, 0, len(lines))
	for _, line := range lines {
		if line.Product == nil {
			continue
		}
		items = append(items, orderLine{
			ID: line.ID.Hex(),
			ProductID: orderProduct{
				ID:    line.Product.ID.Hex(),
				Name:  line.Product.Name,
				Image: line.Product.Image,
				Price: line.Product.Price,
			},
			Quantity: line.Quantity,
		})
	}
	total, _ := CartTotal(lines).Float64()
	return map[string]any{
		"list_items":  items,
		"addressId":   addressID,
		"subTotalAmt": total,
		"totalAmt":    total,
	}
}

func (c *Client) PlaceCashOnDelivery(ctx context.Context, lines []models.CartLine, addressID string) (models.Order, error) {
	var order models.Order
	_, err := c.do(ctx, http.MethodPost, "/api/order/cash-on-delivery", orderBody(lines, addressID), &order)
	return order, err
}

// Checkout returns the hosted payment page the browser should open.
func (c *Client) Checkout(ctx context.Context, lines []models.CartLine, addressID string) (string, error) {
	env, err := c.do(ctx, http.MethodPost, "/api/order/checkout", orderBody(lines, addressID), nil)
	if err != nil {
		return "", err
	}
	return env.URL, nil
}

func (c *Client) Orders(ctx context.Context) ([]models.OrderView, error) {
	var orders []models.OrderView
	_, err := c.do(ctx, http.MethodGet, "/api/order/order-list", nil, &orders)
	return orders, err
}
