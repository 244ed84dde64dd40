package models

// OrderCreatedEvent is published when a new order is created
type OrderCreatedEvent struct {
	OrderID      int              `json:"order_id"`
	UserID       int              `json:"user_id"`
	CustomerName string           `json:"customer_name"`
	TotalAmount  float64          `json:"total_amount"`
	Items        []OrderItemEvent `json:"items"`
}

// OrderCancelledEvent is published after a cancellation restores stock
type OrderCancelledEvent struct {
	OrderID     int              `json:"order_id"`
	UserID      int              `json:"user_id"`
	TotalAmount float64          `json:"total_amount"`
	Items       []OrderItemEvent `json:"items"`
}

type OrderItemEvent struct {
	ProductID int     `json:"product_id"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
}
