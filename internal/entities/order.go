package entities

import (
	"bytes"
	"encoding/gob"
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

// remember to add new statuses to orderStatuses
const (
	OrderStatusPending   OrderStatus = "PENDING"
	OrderStatusShipped   OrderStatus = "SHIPPED"
	OrderStatusDelivered OrderStatus = "DELIVERED"
)

var orderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusShipped,
	OrderStatusDelivered,
}

// ParseOrderStatus accepts only the known statuses, any transition between them is allowed.
func ParseOrderStatus(s string) (OrderStatus, error) {
	for _, status := range orderStatuses {
		if string(status) == s {
			return status, nil
		}
	}
	return "", ErrInvalidStatus
}

// OrderStatuses returns statuses in selector order.
func OrderStatuses() []OrderStatus {
	result := make([]OrderStatus, len(orderStatuses))
	copy(result, orderStatuses)
	return result
}

func (s OrderStatus) String() string {
	return string(s)
}

type OrderItem struct {
	ID          int64
	ProductID   int64
	ProductName string
	Quantity    int

	// снимок цены на момент покупки, никогда не пересчитывается из текущей цены товара
	PriceAtPurchase decimal.Decimal
}

type Order struct {
	ID              int64
	CustomerName    string
	CustomerEmail   string
	ShippingAddress string
	OrderDate       time.Time
	Status          OrderStatus
	TotalAmount     decimal.Decimal
	Items           []OrderItem
}

// ItemsTotal sums item snapshots, used when an ingested order comes without a total.
func (o Order) ItemsTotal() decimal.Decimal {
	total := decimal.Zero
	for _, it := range o.Items {
		total = total.Add(it.PriceAtPurchase.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	return total
}

func (o *Order) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	enc := gob.NewEncoder(&buf)
	if err := enc.Encode(o); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (o *Order) Unmarshal(data []byte) error {
	buf := bytes.NewBuffer(data)
	dec := gob.NewDecoder(buf)
	if err := dec.Decode(o); err != nil {
		return ErrInvalidOrder
	}
	return nil
}

func init() {
	gob.Register(Order{})
	gob.Register(OrderItem{})
}
