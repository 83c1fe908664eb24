package inventory_test

import (
	"errors"
	"log/slog"
	"os"
	"testing"

	internal "github.com/grupomivyca/mivyca-backend/internal"
	"github.com/grupomivyca/mivyca-backend/internal/inventory"
	"github.com/grupomivyca/mivyca-backend/internal/metrics"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestInventoryService(t *testing.T) {
	metrics.Init("inventory_test")
	RegisterFailHandler(Fail)
	RunSpecs(t, "Inventory Service Suite")
}

// MockRepository implements inventory.Repository for testing
type MockRepository struct {
	rows       map[string]*inventory.Product
	skus       map[string]bool
	shouldFail bool
	failError  error
}

func NewMockRepository() *MockRepository {
	return &MockRepository{
		rows: make(map[string]*inventory.Product),
		skus: make(map[string]bool),
	}
}

var errDuplicate = errors.New("duplicate key")

func (m *MockRepository) Create(p *inventory.Product) error {
	if m.shouldFail {
		return m.failError
	}
	skuKey := p.CompanyID + "/" + p.SKU
	if m.skus[skuKey] {
		return errDuplicate
	}
	m.skus[skuKey] = true
	copied := *p
	m.rows[p.ID] = &copied
	return nil
}

func (m *MockRepository) GetByID(id string) (*inventory.Product, error) {
	if m.shouldFail {
		return nil, m.failError
	}
	p, ok := m.rows[id]
	if !ok {
		return nil, nil
	}
	copied := *p
	return &copied, nil
}

func (m *MockRepository) ListByCompany(companyID, category string) ([]*inventory.Product, error) {
	if m.shouldFail {
		return nil, m.failError
	}
	var result []*inventory.Product
	for _, p := range m.rows {
		if p.CompanyID != companyID {
			continue
		}
		if category != "" && p.Category != category {
			continue
		}
		copied := *p
		result = append(result, &copied)
	}
	return result, nil
}

func (m *MockRepository) ListLowStock(companyID string, threshold int) ([]*inventory.Product, error) {
	if m.shouldFail {
		return nil, m.failError
	}
	var result []*inventory.Product
	for _, p := range m.rows {
		if p.CompanyID == companyID && p.Stock <= threshold {
			copied := *p
			result = append(result, &copied)
		}
	}
	return result, nil
}

func (m *MockRepository) Update(p *inventory.Product) error {
	if m.shouldFail {
		return m.failError
	}
	copied := *p
	m.rows[p.ID] = &copied
	return nil
}

func (m *MockRepository) Delete(id string) error {
	if m.shouldFail {
		return m.failError
	}
	delete(m.rows, id)
	return nil
}

func (m *MockRepository) Stats(companyID string, threshold int) (*inventory.Stats, error) {
	if m.shouldFail {
		return nil, m.failError
	}
	stats := &inventory.Stats{CompanyID: companyID}
	var priceSum float64
	for _, p := range m.rows {
		if p.CompanyID != companyID {
			continue
		}
		stats.TotalProducts++
		stats.TotalStock += int64(p.Stock)
		priceSum += p.Price
		if p.Stock <= threshold {
			stats.LowStockProducts++
		}
	}
	if stats.TotalProducts > 0 {
		stats.AveragePrice = priceSum / float64(stats.TotalProducts)
	}
	return stats, nil
}

func (m *MockRepository) IsDuplicateKey(err error) bool {
	return errors.Is(err, errDuplicate)
}

var _ = Describe("Inventory Service", func() {
	var (
		mockRepo  *MockRepository
		service   *inventory.Service
		principal *internal.Principal
	)

	createProduct := func(sku string, stock int, price float64) *inventory.Product {
		p, err := service.CreateProduct(principal, inventory.CreateProductDTO{
			SKU:      sku,
			Name:     "Estructura Metalica " + sku,
			Category: "estructuras",
			Price:    price,
			Stock:    stock,
		})
		Expect(err).NotTo(HaveOccurred())
		return p
	}

	BeforeEach(func() {
		mockRepo = NewMockRepository()
		lg := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = inventory.NewService(mockRepo, lg)
		principal = &internal.Principal{
			UserID:    "user-carlos",
			CompanyID: "almivyca",
			Role:      "ADMIN",
		}
	})

	Describe("CreateProduct", func() {
		It("should scope the product to the token company", func() {
			p := createProduct("ALM-EST-001", 50, 1500.00)
			Expect(p.CompanyID).To(Equal("almivyca"))
			Expect(p.IsActive).To(BeTrue())
		})

		It("should reject a duplicate SKU within the company", func() {
			createProduct("ALM-EST-001", 50, 1500.00)

			_, err := service.CreateProduct(principal, inventory.CreateProductDTO{
				SKU:  "ALM-EST-001",
				Name: "Otro producto",
			})
			var appErr *internal.AppError
			Expect(errors.As(err, &appErr)).To(BeTrue())
			Expect(appErr.StatusCode).To(Equal(409))
			Expect(appErr.Code).To(Equal(internal.ErrCodeSKUTaken))
		})

		It("should accept the same SKU for another company", func() {
			createProduct("ALM-EST-001", 50, 1500.00)

			other := &internal.Principal{UserID: "u2", CompanyID: "camabar", Role: "ADMIN"}
			_, err := service.CreateProduct(other, inventory.CreateProductDTO{
				SKU:  "ALM-EST-001",
				Name: "Producto camabar",
			})
			Expect(err).NotTo(HaveOccurred())
		})

		It("should reject negative price and stock", func() {
			_, err := service.CreateProduct(principal, inventory.CreateProductDTO{
				SKU: "X", Name: "X", Price: -1,
			})
			Expect(err).To(HaveOccurred())

			_, err = service.CreateProduct(principal, inventory.CreateProductDTO{
				SKU: "X", Name: "X", Stock: -1,
			})
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("UpdateProduct", func() {
		It("should patch only the provided fields and keep the SKU", func() {
			p := createProduct("ALM-EST-001", 50, 1500.00)

			name := "Estructura Reforzada"
			price := 1750.00
			updated, err := service.UpdateProduct(principal, p.ID, inventory.UpdateProductDTO{
				Name:  &name,
				Price: &price,
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(updated.Name).To(Equal("Estructura Reforzada"))
			Expect(updated.Price).To(Equal(1750.00))
			Expect(updated.SKU).To(Equal("ALM-EST-001"))
			Expect(updated.Stock).To(Equal(50))
		})
	})

	Describe("UpdateStock", func() {
		It("should set the absolute stock level", func() {
			p := createProduct("ALM-EST-001", 50, 1500.00)

			updated, err := service.UpdateStock(principal, p.ID, inventory.UpdateStockDTO{Stock: 3})
			Expect(err).NotTo(HaveOccurred())
			Expect(updated.Stock).To(Equal(3))
			Expect(updated.IsLowStock()).To(BeTrue())
		})

		It("should reject negative stock", func() {
			p := createProduct("ALM-EST-001", 50, 1500.00)
			_, err := service.UpdateStock(principal, p.ID, inventory.UpdateStockDTO{Stock: -5})
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("LowStockProducts", func() {
		It("should include products at the threshold and below", func() {
			createProduct("AT", inventory.LowStockThreshold, 10)
			createProduct("BELOW", inventory.LowStockThreshold-1, 10)
			createProduct("ABOVE", inventory.LowStockThreshold+1, 10)

			low, err := service.LowStockProducts(principal)
			Expect(err).NotTo(HaveOccurred())
			Expect(low).To(HaveLen(2))
		})
	})

	Describe("tenant isolation", func() {
		It("should deny access to another company's product", func() {
			p := createProduct("ALM-EST-001", 50, 1500.00)

			intruder := &internal.Principal{UserID: "u2", CompanyID: "transmivyca", Role: "SUPER_ADMIN"}
			_, err := service.GetProduct(intruder, p.ID)
			Expect(err).To(Equal(internal.ErrCrossTenant))

			Expect(service.DeleteProduct(intruder, p.ID)).To(Equal(internal.ErrCrossTenant))
		})
	})

	Describe("InventoryStats", func() {
		It("should return zero stats for an empty inventory", func() {
			stats, err := service.InventoryStats(principal)
			Expect(err).NotTo(HaveOccurred())
			Expect(stats.TotalProducts).To(BeZero())
			Expect(stats.AveragePrice).To(BeZero())
		})

		It("should aggregate the company's products", func() {
			createProduct("A", 5, 100)
			createProduct("B", 20, 300)

			stats, err := service.InventoryStats(principal)
			Expect(err).NotTo(HaveOccurred())
			Expect(stats.TotalProducts).To(Equal(int64(2)))
			Expect(stats.TotalStock).To(Equal(int64(25)))
			Expect(stats.AveragePrice).To(Equal(200.0))
			Expect(stats.LowStockProducts).To(Equal(int64(1)))
		})
	})

	Describe("role permissions", func() {
		as := func(role string) *internal.Principal {
			return &internal.Principal{UserID: "u-role", CompanyID: "almivyca", Role: role}
		}

		It("should deny writes to read-only roles", func() {
			_, err := service.CreateProduct(as("USER"), inventory.CreateProductDTO{
				SKU: "ALM-EST-009", Name: "Estanteria",
			})
			Expect(err).To(Equal(internal.ErrInsufficientRole))

			p := createProduct("ALM-EST-001", 50, 1500.00)
			_, err = service.UpdateStock(as("SUPERVISOR"), p.ID, inventory.UpdateStockDTO{Stock: 10})
			Expect(err).To(Equal(internal.ErrInsufficientRole))

			Expect(service.DeleteProduct(as("USER"), p.ID)).To(Equal(internal.ErrInsufficientRole))
		})

		It("should let a manager write", func() {
			_, err := service.CreateProduct(as("MANAGER"), inventory.CreateProductDTO{
				SKU: "ALM-EST-010", Name: "Pallet",
			})
			Expect(err).NotTo(HaveOccurred())
		})

		It("should reserve stats for supervisor and above", func() {
			_, err := service.InventoryStats(as("USER"))
			Expect(err).To(Equal(internal.ErrInsufficientRole))

			_, err = service.InventoryStats(as("SUPERVISOR"))
			Expect(err).NotTo(HaveOccurred())
		})

		It("should still let a read-only role list products", func() {
			createProduct("ALM-EST-001", 50, 1500.00)

			products, err := service.ListProducts(as("USER"), "")
			Expect(err).NotTo(HaveOccurred())
			Expect(products).To(HaveLen(1))
		})

		It("should deny everything to an unknown role", func() {
			_, err := service.ListProducts(as("AUDITOR"), "")
			Expect(err).To(Equal(internal.ErrInsufficientRole))
		})
	})
})
