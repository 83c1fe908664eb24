package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventTypeAccessGranted = "access.granted"
	EventTypeAccessRevoked = "access.revoked"
	EventTypeOrderStatus   = "order.status_changed"
)

// AccessGrantedEvent fires when a user gains a role in a company.
type AccessGrantedEvent struct {
	ID        string
	UserID    string
	CompanyID string
	Role      string
	At        time.Time
}

func NewAccessGrantedEvent(userID, companyID, role string) *AccessGrantedEvent {
	return &AccessGrantedEvent{
		ID:        uuid.NewString(),
		UserID:    userID,
		CompanyID: companyID,
		Role:      role,
		At:        time.Now(),
	}
}

func (e *AccessGrantedEvent) Name() string { return EventTypeAccessGranted }

func (e *AccessGrantedEvent) Fields() map[string]any {
	return map[string]any{
		"event_id":   e.ID,
		"user_id":    e.UserID,
		"company_id": e.CompanyID,
		"role":       e.Role,
	}
}

// AccessRevokedEvent fires when a grant is deactivated.
type AccessRevokedEvent struct {
	ID        string
	UserID    string
	CompanyID string
	At        time.Time
}

func NewAccessRevokedEvent(userID, companyID string) *AccessRevokedEvent {
	return &AccessRevokedEvent{
		ID:        uuid.NewString(),
		UserID:    userID,
		CompanyID: companyID,
		At:        time.Now(),
	}
}

func (e *AccessRevokedEvent) Name() string { return EventTypeAccessRevoked }

func (e *AccessRevokedEvent) Fields() map[string]any {
	return map[string]any{
		"event_id":   e.ID,
		"user_id":    e.UserID,
		"company_id": e.CompanyID,
	}
}

// OrderStatusChangedEvent fires for every applied order transition.
type OrderStatusChangedEvent struct {
	ID        string
	OrderID   string
	CompanyID string
	From      string
	To        string
	At        time.Time
}

func NewOrderStatusChangedEvent(orderID, companyID, from, to string) *OrderStatusChangedEvent {
	return &OrderStatusChangedEvent{
		ID:        uuid.NewString(),
		OrderID:   orderID,
		CompanyID: companyID,
		From:      from,
		To:        to,
		At:        time.Now(),
	}
}

func (e *OrderStatusChangedEvent) Name() string { return EventTypeOrderStatus }

func (e *OrderStatusChangedEvent) Fields() map[string]any {
	return map[string]any{
		"event_id":   e.ID,
		"order_id":   e.OrderID,
		"company_id": e.CompanyID,
		"from":       e.From,
		"to":         e.To,
	}
}
