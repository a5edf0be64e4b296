package domain

import "github.com/google/uuid"

type OrderStatus string

const (
	OrderPending OrderStatus = "Pending"
	OrderPlaced  OrderStatus = "Placed"
)

type OrderTracking string

const (
	TrackingWaitingForOrders OrderTracking = "WaitingForOrders"
	TrackingBooked           OrderTracking = "Booked"
	TrackingInTransit        OrderTracking = "InTransit"
	TrackingShipped          OrderTracking = "Shipped"
	TrackingOutForDelivery   OrderTracking = "OutForDelivery"
	TrackingDelivered        OrderTracking = "Delivered"
)

// An Order is the durable receipt that closes a purchase. It binds 1:1
// to a confirmed payment by payment id.
type Order struct {
	OrderID    uuid.UUID     `json:"order_id"`
	PaymentID  uuid.UUID     `json:"payment_id"`
	TrackingID uuid.UUID     `json:"tracking_id"`
	Status     OrderStatus   `json:"status"`
	Tracking   OrderTracking `json:"order_tracking"`
	CreatedAt  int64         `json:"created_at"`
	UpdatedAt  int64         `json:"updated_at"`
}

// NewOrder requires the bound payment to be confirmed already.
func NewOrder(payment Payment, paymentID uuid.UUID, now int64) (Order, error) {
	if payment.PaymentID != paymentID || payment.Status != PaymentSuccess {
		return Order{}, ErrPaymentNotConfirmed
	}
	return Order{
		OrderID:    uuid.New(),
		PaymentID:  paymentID,
		TrackingID: uuid.New(),
		Status:     OrderPlaced,
		Tracking:   TrackingBooked,
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}
