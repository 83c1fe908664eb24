package postgres_test

import (
	"testing"
	"time"

	"github.com/grupomivyca/mivyca-backend/internal/inventory"
	inventoryPostgres "github.com/grupomivyca/mivyca-backend/internal/inventory/postgres"
	"github.com/grupomivyca/mivyca-backend/internal/metrics"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestInventoryPostgres(t *testing.T) {
	metrics.Init("inventory_postgres_test")
	RegisterFailHandler(Fail)
	RunSpecs(t, "Inventory Postgres Suite")
}

var _ = Describe("Product Repository", func() {
	var (
		db   *gorm.DB
		repo inventory.Repository
	)

	makeProduct := func(id, companyID, sku, category string, price float64, stock int) *inventory.Product {
		now := time.Now()
		return &inventory.Product{
			ID:        id,
			CompanyID: companyID,
			SKU:       sku,
			Name:      "Producto " + sku,
			Category:  category,
			Price:     price,
			Stock:     stock,
			IsActive:  true,
			CreatedAt: now,
			UpdatedAt: now,
		}
	}

	BeforeEach(func() {
		var err error
		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger:         logger.Default.LogMode(logger.Silent),
			TranslateError: true,
		})
		Expect(err).NotTo(HaveOccurred())

		Expect(db.AutoMigrate(&inventory.Product{})).To(Succeed())
		repo = inventoryPostgres.NewProductRepository(db)
	})

	Describe("Create", func() {
		It("should enforce SKU uniqueness per company only", func() {
			Expect(repo.Create(makeProduct("p1", "almivyca", "EST-001", "", 100, 10))).To(Succeed())

			err := repo.Create(makeProduct("p2", "almivyca", "EST-001", "", 200, 5))
			Expect(err).To(HaveOccurred())
			Expect(repo.IsDuplicateKey(err)).To(BeTrue())

			Expect(repo.Create(makeProduct("p3", "camabar", "EST-001", "", 100, 10))).To(Succeed())
		})
	})

	Describe("GetByID", func() {
		It("should return nil for a missing product", func() {
			p, err := repo.GetByID("missing")
			Expect(err).NotTo(HaveOccurred())
			Expect(p).To(BeNil())
		})
	})

	Describe("ListByCompany", func() {
		BeforeEach(func() {
			Expect(repo.Create(makeProduct("p1", "almivyca", "EST-002", "estructuras", 100, 10))).To(Succeed())
			Expect(repo.Create(makeProduct("p2", "almivyca", "EST-001", "estructuras", 200, 5))).To(Succeed())
			Expect(repo.Create(makeProduct("p3", "almivyca", "PAL-001", "paneles", 300, 2))).To(Succeed())
			Expect(repo.Create(makeProduct("p4", "camabar", "CAM-001", "estructuras", 400, 1))).To(Succeed())
		})

		It("should scope to the company ordered by name", func() {
			list, err := repo.ListByCompany("almivyca", "")
			Expect(err).NotTo(HaveOccurred())
			Expect(list).To(HaveLen(3))
		})

		It("should filter by category", func() {
			list, err := repo.ListByCompany("almivyca", "paneles")
			Expect(err).NotTo(HaveOccurred())
			Expect(list).To(HaveLen(1))
			Expect(list[0].SKU).To(Equal("PAL-001"))
		})
	})

	Describe("ListLowStock", func() {
		It("should order by stock ascending and respect the threshold", func() {
			Expect(repo.Create(makeProduct("p1", "almivyca", "A", "", 100, 8))).To(Succeed())
			Expect(repo.Create(makeProduct("p2", "almivyca", "B", "", 100, 2))).To(Succeed())
			Expect(repo.Create(makeProduct("p3", "almivyca", "C", "", 100, 10))).To(Succeed())
			Expect(repo.Create(makeProduct("p4", "almivyca", "D", "", 100, 11))).To(Succeed())

			low, err := repo.ListLowStock("almivyca", 10)
			Expect(err).NotTo(HaveOccurred())
			Expect(low).To(HaveLen(3))
			Expect(low[0].SKU).To(Equal("B"))
			Expect(low[2].SKU).To(Equal("C"))
		})
	})

	Describe("Delete", func() {
		It("should remove the row for good", func() {
			Expect(repo.Create(makeProduct("p1", "almivyca", "A", "", 100, 8))).To(Succeed())
			Expect(repo.Delete("p1")).To(Succeed())

			p, err := repo.GetByID("p1")
			Expect(err).NotTo(HaveOccurred())
			Expect(p).To(BeNil())

			var count int64
			Expect(db.Model(&inventory.Product{}).Count(&count).Error).To(Succeed())
			Expect(count).To(BeZero())
		})
	})

	Describe("Stats", func() {
		It("should return zeros for an empty company", func() {
			stats, err := repo.Stats("almivyca", 10)
			Expect(err).NotTo(HaveOccurred())
			Expect(stats.TotalProducts).To(BeZero())
			Expect(stats.TotalStock).To(BeZero())
			Expect(stats.AveragePrice).To(BeZero())
			Expect(stats.LowStockProducts).To(BeZero())
		})

		It("should aggregate only the company's products", func() {
			Expect(repo.Create(makeProduct("p1", "almivyca", "A", "", 100, 5))).To(Succeed())
			Expect(repo.Create(makeProduct("p2", "almivyca", "B", "", 300, 20))).To(Succeed())
			Expect(repo.Create(makeProduct("p3", "camabar", "C", "", 900, 1))).To(Succeed())

			stats, err := repo.Stats("almivyca", 10)
			Expect(err).NotTo(HaveOccurred())
			Expect(stats.TotalProducts).To(Equal(int64(2)))
			Expect(stats.TotalStock).To(Equal(int64(25)))
			Expect(stats.AveragePrice).To(Equal(200.0))
			Expect(stats.LowStockProducts).To(Equal(int64(1)))
		})
	})
})
