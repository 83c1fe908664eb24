package orders

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	internal "github.com/grupomivyca/mivyca-backend/internal"
	"github.com/grupomivyca/mivyca-backend/internal/access"
	"github.com/grupomivyca/mivyca-backend/internal/core/events"
	"github.com/grupomivyca/mivyca-backend/internal/metrics"
)

// Repository is the data access contract for orders. Deletes are soft: the
// row survives with a deleted_at marker and drops out of every query.
type Repository interface {
	Create(o *Order) error
	GetByID(id string) (*Order, error)
	ListByCompany(companyID string, status OrderStatus) ([]*Order, error)
	Update(o *Order) error
	Delete(id string) error
	Stats(companyID string) (*Stats, error)
	IsDuplicateKey(err error) bool
}

type Service struct {
	repo   Repository
	bus    events.Publisher
	logger *slog.Logger
}

func NewService(repo Repository, bus events.Publisher, logger *slog.Logger) *Service {
	return &Service{repo: repo, bus: bus, logger: logger}
}

// CreateOrder registers an order. Every order starts in PENDING; later
// states are only reachable through UpdateStatus.
func (s *Service) CreateOrder(principal *internal.Principal, dto CreateOrderDTO) (*Order, error) {
	if err := access.Require(principal, access.ActionWriteResource); err != nil {
		return nil, err
	}
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	now := time.Now()
	o := &Order{
		ID:            uuid.NewString(),
		CompanyID:     principal.CompanyID,
		OrderNumber:   dto.OrderNumber,
		Status:        StatusPending,
		Total:         dto.Total,
		CustomerName:  dto.CustomerName,
		CustomerEmail: dto.CustomerEmail,
		CustomerPhone: dto.CustomerPhone,
		Notes:         dto.Notes,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.repo.Create(o); err != nil {
		if s.repo.IsDuplicateKey(err) {
			return nil, internal.NewConflictError("order number already registered", internal.ErrCodeOrderNumberTaken)
		}
		return nil, internal.NewInternalError("failed to create order", err)
	}

	s.logger.Info("order created",
		"order_id", o.ID, "company_id", o.CompanyID, "order_number", o.OrderNumber)
	return o, nil
}

func (s *Service) GetOrder(principal *internal.Principal, id string) (*Order, error) {
	if err := access.Require(principal, access.ActionReadResource); err != nil {
		return nil, err
	}
	return s.ownedOrder(principal, id)
}

// ListOrders returns the company's orders newest first, optionally filtered
// by status.
func (s *Service) ListOrders(principal *internal.Principal, status string) ([]*Order, error) {
	if err := access.Require(principal, access.ActionReadResource); err != nil {
		return nil, err
	}

	var statusFilter OrderStatus
	if status != "" {
		parsed, ok := ParseOrderStatus(status)
		if !ok {
			return nil, internal.NewValidationError("invalid order status", internal.ErrCodeInvalidStatus)
		}
		statusFilter = parsed
	}

	orders, err := s.repo.ListByCompany(principal.CompanyID, statusFilter)
	if err != nil {
		return nil, internal.NewInternalError("failed to list orders", err)
	}
	return orders, nil
}

func (s *Service) UpdateOrder(principal *internal.Principal, id string, dto UpdateOrderDTO) (*Order, error) {
	if err := access.Require(principal, access.ActionWriteResource); err != nil {
		return nil, err
	}
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	o, err := s.ownedOrder(principal, id)
	if err != nil {
		return nil, err
	}

	if dto.Total != nil {
		o.Total = *dto.Total
	}
	if dto.CustomerName != nil {
		o.CustomerName = *dto.CustomerName
	}
	if dto.CustomerEmail != nil {
		o.CustomerEmail = *dto.CustomerEmail
	}
	if dto.CustomerPhone != nil {
		o.CustomerPhone = *dto.CustomerPhone
	}
	if dto.Notes != nil {
		o.Notes = *dto.Notes
	}
	o.UpdatedAt = time.Now()

	if err := s.repo.Update(o); err != nil {
		return nil, internal.NewInternalError("failed to update order", err)
	}

	s.logger.Info("order updated", "order_id", o.ID, "company_id", o.CompanyID)
	return o, nil
}

// UpdateStatus moves the order along the status machine. Illegal moves,
// including any move out of a terminal status, answer 422.
func (s *Service) UpdateStatus(principal *internal.Principal, id string, dto UpdateStatusDTO) (*Order, error) {
	if err := access.Require(principal, access.ActionWriteResource); err != nil {
		return nil, err
	}
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	o, err := s.ownedOrder(principal, id)
	if err != nil {
		return nil, err
	}

	target, _ := ParseOrderStatus(dto.Status)
	if !CanTransition(o.Status, target) {
		metrics.RecordOrderTransition(string(o.Status), string(target), "rejected")
		return nil, internal.NewTransitionError(
			fmt.Sprintf("cannot transition order from %s to %s", o.Status, target))
	}

	from := o.Status
	o.Status = target
	o.UpdatedAt = time.Now()

	if err := s.repo.Update(o); err != nil {
		return nil, internal.NewInternalError("failed to update order status", err)
	}

	metrics.RecordOrderTransition(string(from), string(target), "applied")
	if s.bus != nil {
		if err := s.bus.Publish(context.Background(),
			events.NewOrderStatusChangedEvent(o.ID, o.CompanyID, string(from), string(target))); err != nil {
			s.logger.Warn("failed to publish order event", "order_id", o.ID, "error", err)
		}
	}
	s.logger.Info("order status changed",
		"order_id", o.ID, "company_id", o.CompanyID, "from", from, "to", target)
	return o, nil
}

func (s *Service) DeleteOrder(principal *internal.Principal, id string) error {
	if err := access.Require(principal, access.ActionWriteResource); err != nil {
		return err
	}

	o, err := s.ownedOrder(principal, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(o.ID); err != nil {
		return internal.NewInternalError("failed to delete order", err)
	}

	s.logger.Info("order deleted", "order_id", o.ID, "company_id", o.CompanyID)
	return nil
}

// OrderStats summarizes the company's orders by status plus total revenue.
func (s *Service) OrderStats(principal *internal.Principal) (*Stats, error) {
	if err := access.Require(principal, access.ActionViewStats); err != nil {
		return nil, err
	}

	stats, err := s.repo.Stats(principal.CompanyID)
	if err != nil {
		return nil, internal.NewInternalError("failed to compute order stats", err)
	}
	return stats, nil
}

func (s *Service) ownedOrder(principal *internal.Principal, id string) (*Order, error) {
	if principal == nil {
		return nil, internal.ErrNotAuthenticated
	}

	o, err := s.repo.GetByID(id)
	if err != nil {
		return nil, internal.NewInternalError("failed to load order", err)
	}
	if o == nil {
		return nil, internal.NewNotFoundError("order not found", internal.ErrCodeOrderNotFound)
	}
	if o.CompanyID != principal.CompanyID {
		return nil, internal.ErrCrossTenant
	}
	return o, nil
}
