package domain

import "time"

type OrderStatusChangedEvent struct {
	EventID    string      `json:"eventId"`
	OrderID    string      `json:"orderId"`
	Region     Region      `json:"region"`
	FromStatus OrderStatus `json:"fromStatus"`
	ToStatus   OrderStatus `json:"toStatus"`
	OccurredAt time.Time   `json:"occurredAt"`
}

// StatusChange is one entry of an order's status audit trail.
type StatusChange struct {
	OrderID    string
	FromStatus OrderStatus
	ToStatus   OrderStatus
	ChangedAt  time.Time
}
