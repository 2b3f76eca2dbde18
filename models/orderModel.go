package models

import (
	"time"

	"gorm.io/gorm"
)

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "PENDING"
	OrderStatusPreparing  OrderStatus = "PREPARING"
	OrderStatusReady      OrderStatus = "READY"
	OrderStatusDelivering OrderStatus = "DELIVERING"
	OrderStatusDelivered  OrderStatus = "DELIVERED"
	OrderStatusCancelled  OrderStatus = "CANCELLED"
)

const (
	PaymentStatusPending = "PENDING"
	PaymentStatusPaid    = "PAID"

	DefaultPaymentMethod = "CASH"

	// DeliveryFee is the flat fee added to every order, in DH.
	DeliveryFee = 15.0
)

type Order struct {
	gorm.Model
	UserID        *uint       `json:"userId" gorm:"index"`
	Phone         string      `json:"phone"`
	Address       string      `json:"address"`
	Status        OrderStatus `json:"status" gorm:"type:varchar(20);default:PENDING;index"`
	Subtotal      float64     `json:"subtotal"`
	DeliveryFee   float64     `json:"deliveryFee"`
	Discount      float64     `json:"discount"`
	PromoCode     *string     `json:"promoCode"`
	Total         float64     `json:"total"`
	PaymentMethod string      `json:"paymentMethod" gorm:"size:20"`
	PaymentStatus string      `json:"paymentStatus" gorm:"size:20"`
	Notes         string      `json:"notes"`
	DeliveredAt   *time.Time  `json:"deliveredAt"`
	Items         []OrderItem `json:"items" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

// OrderItem is a frozen snapshot of a product at order time. Name, price and
// line subtotal are copied so later catalog changes never alter past orders.
type OrderItem struct {
	gorm.Model
	OrderID      uint    `json:"orderId" gorm:"index"`
	ProductID    uint    `json:"productId"`
	ProductName  string  `json:"productName"`
	ProductPrice float64 `json:"productPrice"`
	Quantity     int     `json:"quantity"`
	Subtotal     float64 `json:"subtotal"`
}

var orderStatusFlow = map[OrderStatus]OrderStatus{
	OrderStatusPending:    OrderStatusPreparing,
	OrderStatusPreparing:  OrderStatusReady,
	OrderStatusReady:      OrderStatusDelivering,
	OrderStatusDelivering: OrderStatusDelivered,
}

// ValidOrderStatus reports whether s is one of the recognized statuses.
func ValidOrderStatus(s OrderStatus) bool {
	switch s {
	case OrderStatusPending, OrderStatusPreparing, OrderStatusReady,
		OrderStatusDelivering, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// IsTerminal reports whether no further transition is permitted from s.
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled
}

// Next returns the status that follows s on the happy path, or s itself
// when s has no successor.
func (s OrderStatus) Next() OrderStatus {
	if next, ok := orderStatusFlow[s]; ok {
		return next
	}
	return s
}

// CanTransitionTo reports whether a staff member on the happy path may move
// an order from s to next. Re-submitting the current status is accepted
// (idempotent); cancellation is allowed from any non-terminal status.
// Admin-tier users bypass this check entirely.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	if !ValidOrderStatus(next) {
		return false
	}
	if next == s {
		return true
	}
	if s.IsTerminal() {
		return false
	}
	if next == OrderStatusCancelled {
		return true
	}
	return orderStatusFlow[s] == next
}
