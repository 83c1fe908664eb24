package inventory

import (
	"log/slog"
	"time"

	"github.com/google/uuid"
	internal "github.com/grupomivyca/mivyca-backend/internal"
	"github.com/grupomivyca/mivyca-backend/internal/access"
	"github.com/grupomivyca/mivyca-backend/internal/metrics"
)

// Repository is the data access contract for products.
type Repository interface {
	Create(p *Product) error
	GetByID(id string) (*Product, error)
	ListByCompany(companyID, category string) ([]*Product, error)
	ListLowStock(companyID string, threshold int) ([]*Product, error)
	Update(p *Product) error
	Delete(id string) error
	Stats(companyID string, threshold int) (*Stats, error)
	IsDuplicateKey(err error) bool
}

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

func (s *Service) CreateProduct(principal *internal.Principal, dto CreateProductDTO) (*Product, error) {
	if err := access.Require(principal, access.ActionWriteResource); err != nil {
		return nil, err
	}
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	now := time.Now()
	p := &Product{
		ID:          uuid.NewString(),
		CompanyID:   principal.CompanyID,
		SKU:         dto.SKU,
		Name:        dto.Name,
		Description: dto.Description,
		Category:    dto.Category,
		Price:       dto.Price,
		Stock:       dto.Stock,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(p); err != nil {
		if s.repo.IsDuplicateKey(err) {
			return nil, internal.NewConflictError("sku already registered", internal.ErrCodeSKUTaken)
		}
		return nil, internal.NewInternalError("failed to create product", err)
	}

	metrics.RecordInventoryOperation("create")
	s.logger.Info("product created", "product_id", p.ID, "company_id", p.CompanyID, "sku", p.SKU)
	return p, nil
}

func (s *Service) GetProduct(principal *internal.Principal, id string) (*Product, error) {
	if err := access.Require(principal, access.ActionReadResource); err != nil {
		return nil, err
	}
	return s.ownedProduct(principal, id)
}

// ListProducts returns the company's products, optionally filtered by
// category.
func (s *Service) ListProducts(principal *internal.Principal, category string) ([]*Product, error) {
	if err := access.Require(principal, access.ActionReadResource); err != nil {
		return nil, err
	}

	products, err := s.repo.ListByCompany(principal.CompanyID, category)
	if err != nil {
		return nil, internal.NewInternalError("failed to list products", err)
	}
	return products, nil
}

func (s *Service) LowStockProducts(principal *internal.Principal) ([]*Product, error) {
	if err := access.Require(principal, access.ActionReadResource); err != nil {
		return nil, err
	}

	products, err := s.repo.ListLowStock(principal.CompanyID, LowStockThreshold)
	if err != nil {
		return nil, internal.NewInternalError("failed to list low stock products", err)
	}
	return products, nil
}

func (s *Service) UpdateProduct(principal *internal.Principal, id string, dto UpdateProductDTO) (*Product, error) {
	if err := access.Require(principal, access.ActionWriteResource); err != nil {
		return nil, err
	}
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	p, err := s.ownedProduct(principal, id)
	if err != nil {
		return nil, err
	}

	if dto.Name != nil {
		p.Name = *dto.Name
	}
	if dto.Description != nil {
		p.Description = *dto.Description
	}
	if dto.Category != nil {
		p.Category = *dto.Category
	}
	if dto.Price != nil {
		p.Price = *dto.Price
	}
	if dto.IsActive != nil {
		p.IsActive = *dto.IsActive
	}
	p.UpdatedAt = time.Now()

	if err := s.repo.Update(p); err != nil {
		return nil, internal.NewInternalError("failed to update product", err)
	}

	metrics.RecordInventoryOperation("update")
	s.logger.Info("product updated", "product_id", p.ID, "company_id", p.CompanyID)
	return p, nil
}

// UpdateStock sets the absolute stock level.
func (s *Service) UpdateStock(principal *internal.Principal, id string, dto UpdateStockDTO) (*Product, error) {
	if err := access.Require(principal, access.ActionWriteResource); err != nil {
		return nil, err
	}
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	p, err := s.ownedProduct(principal, id)
	if err != nil {
		return nil, err
	}

	p.Stock = dto.Stock
	p.UpdatedAt = time.Now()

	if err := s.repo.Update(p); err != nil {
		return nil, internal.NewInternalError("failed to update stock", err)
	}

	metrics.RecordInventoryOperation("update_stock")
	s.logger.Info("product stock updated",
		"product_id", p.ID, "company_id", p.CompanyID, "stock", p.Stock)
	return p, nil
}

func (s *Service) DeleteProduct(principal *internal.Principal, id string) error {
	if err := access.Require(principal, access.ActionWriteResource); err != nil {
		return err
	}

	p, err := s.ownedProduct(principal, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(p.ID); err != nil {
		return internal.NewInternalError("failed to delete product", err)
	}

	metrics.RecordInventoryOperation("delete")
	s.logger.Info("product deleted", "product_id", p.ID, "company_id", p.CompanyID)
	return nil
}

// InventoryStats summarizes the company's inventory. An empty inventory
// yields zero stats, never an error.
func (s *Service) InventoryStats(principal *internal.Principal) (*Stats, error) {
	if err := access.Require(principal, access.ActionViewStats); err != nil {
		return nil, err
	}

	stats, err := s.repo.Stats(principal.CompanyID, LowStockThreshold)
	if err != nil {
		return nil, internal.NewInternalError("failed to compute inventory stats", err)
	}
	return stats, nil
}

// ownedProduct loads a product and re-checks row ownership against the
// principal. The route guard already matched the path company; this check
// covers rows reached by id alone.
func (s *Service) ownedProduct(principal *internal.Principal, id string) (*Product, error) {
	if principal == nil {
		return nil, internal.ErrNotAuthenticated
	}

	p, err := s.repo.GetByID(id)
	if err != nil {
		return nil, internal.NewInternalError("failed to load product", err)
	}
	if p == nil {
		return nil, internal.NewNotFoundError("product not found", internal.ErrCodeProductNotFound)
	}
	if p.CompanyID != principal.CompanyID {
		return nil, internal.ErrCrossTenant
	}
	return p, nil
}
