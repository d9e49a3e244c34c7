package models

import (
	"bytes"
	"encoding/json"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	OrderStatusPending    = "Pendiente"
	OrderStatusProcessing = "Procesando"
	OrderStatusShipped    = "Enviado"
	OrderStatusInTransit  = "En tránsito"
	OrderStatusDelivered  = "Entregado"

	PaymentStatusCashOnDelivery = "CONTRAENTREGA"
	PaymentStatusCard           = "POR TARJETA"
)

var orderStatuses = []string{
	OrderStatusPending,
	OrderStatusProcessing,
	OrderStatusShipped,
	OrderStatusInTransit,
	OrderStatusDelivered,
}

// OrderStatuses returns the allowed order statuses in display order.
func OrderStatuses() []string {
	out := make([]string, len(orderStatuses))
	copy(out, orderStatuses)
	return out
}

// IsValidOrderStatus reports whether s is one of the allowed statuses. Any
// allowed status may follow any other.
func IsValidOrderStatus(s string) bool {
	for _, status := range orderStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// ProductSnapshot is the product as it looked when the order was placed.
// Later catalog edits never reach it.
type ProductSnapshot struct {
	Name  string   `bson:"name" json:"name"`
	Image []string `bson:"image" json:"image"`
}

// NewProductSnapshot copies images so the snapshot does not share the
// caller's backing array.
func NewProductSnapshot(name string, images []string) ProductSnapshot {
	copied := make([]string, len(images))
	copy(copied, images)
	return ProductSnapshot{Name: name, Image: copied}
}

// OrderLine is one purchased product. ProductID is kept as the caller sent
// it; it is not required to be an object id.
type OrderLine struct {
	ProductID      string          `bson:"productId" json:"productId"`
	Quantity       int             `bson:"quantity" json:"quantity"`
	ProductDetails ProductSnapshot `bson:"product_details" json:"product_details"`
}

type Order struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	UserID          primitive.ObjectID `bson:"userId" json:"userId"`
	OrderID         string             `bson:"orderId" json:"orderId"`
	Products        []OrderLine        `bson:"products" json:"products"`
	PaymentID       string             `bson:"paymentId" json:"paymentId"`
	PaymentStatus   string             `bson:"payment_status" json:"payment_status"`
	DeliveryAddress string             `bson:"delivery_address" json:"delivery_address"`
	SubTotalAmt     float64            `bson:"subTotalAmt" json:"subTotalAmt"`
	TotalAmt        float64            `bson:"totalAmt" json:"totalAmt"`
	Status          string             `bson:"status" json:"status"`
	InvoiceReceipt  string             `bson:"invoice_receipt" json:"invoice_receipt"`
	CreatedAt       time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// NewOrderID returns a fresh public order number.
func NewOrderID() string {
	return "ORD-" + primitive.NewObjectID().Hex()
}

// OrderView is an order with its address and customer resolved for listing.
type OrderView struct {
	Order
	DeliveryAddress AddressRef  `json:"delivery_address"`
	User            CustomerRef `json:"userId"`
}

// AddressRef renders the resolved address, or the stored id when the address
// could not be found.
type AddressRef struct {
	ID      string
	Address *Address
}

func (r AddressRef) MarshalJSON() ([]byte, error) {
	if r.Address != nil {
		return json.Marshal(r.Address)
	}
	if r.ID == "" {
		return []byte("null"), nil
	}
	return json.Marshal(r.ID)
}

func (r *AddressRef) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*r = AddressRef{}
		return nil
	case len(data) > 0 && data[0] == '"':
		*r = AddressRef{}
		return json.Unmarshal(data, &r.ID)
	}
	var a Address
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*r = AddressRef{ID: a.ID.Hex(), Address: &a}
	return nil
}

// CustomerRef renders the customer summary for admins and the bare user id
// for everyone else.
type CustomerRef struct {
	ID      primitive.ObjectID
	Summary *UserSummary
}

func (r CustomerRef) MarshalJSON() ([]byte, error) {
	if r.Summary != nil {
		return json.Marshal(r.Summary)
	}
	return json.Marshal(r.ID)
}

func (r *CustomerRef) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		*r = CustomerRef{}
		return json.Unmarshal(data, &r.ID)
	}
	var s UserSummary
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*r = CustomerRef{ID: s.ID, Summary: &s}
	return nil
}
