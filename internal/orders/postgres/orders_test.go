package postgres_test

import (
	"testing"
	"time"

	"github.com/grupomivyca/mivyca-backend/internal/metrics"
	"github.com/grupomivyca/mivyca-backend/internal/orders"
	ordersPostgres "github.com/grupomivyca/mivyca-backend/internal/orders/postgres"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestOrdersPostgres(t *testing.T) {
	metrics.Init("orders_postgres_test")
	RegisterFailHandler(Fail)
	RunSpecs(t, "Orders Postgres Suite")
}

var _ = Describe("Order Repository", func() {
	var (
		db   *gorm.DB
		repo orders.Repository
	)

	makeOrder := func(id, companyID, number string, status orders.OrderStatus, total float64) *orders.Order {
		now := time.Now()
		return &orders.Order{
			ID:           id,
			CompanyID:    companyID,
			OrderNumber:  number,
			Status:       status,
			Total:        total,
			CustomerName: "Constructora del Norte",
			CreatedAt:    now,
			UpdatedAt:    now,
		}
	}

	BeforeEach(func() {
		var err error
		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger:         logger.Default.LogMode(logger.Silent),
			TranslateError: true,
		})
		Expect(err).NotTo(HaveOccurred())

		Expect(db.AutoMigrate(&orders.Order{})).To(Succeed())
		repo = ordersPostgres.NewOrderRepository(db)
	})

	Describe("Create", func() {
		It("should reject a duplicate order number within a company", func() {
			Expect(repo.Create(makeOrder("o1", "camabar", "CAM-2024-001", orders.StatusPending, 100))).To(Succeed())

			err := repo.Create(makeOrder("o2", "camabar", "CAM-2024-001", orders.StatusPending, 200))
			Expect(err).To(HaveOccurred())
			Expect(repo.IsDuplicateKey(err)).To(BeTrue())
		})

		It("should allow the same order number in different companies", func() {
			Expect(repo.Create(makeOrder("o1", "camabar", "ORD-001", orders.StatusPending, 100))).To(Succeed())
			Expect(repo.Create(makeOrder("o2", "almivyca", "ORD-001", orders.StatusPending, 100))).To(Succeed())
		})
	})

	Describe("soft delete", func() {
		BeforeEach(func() {
			Expect(repo.Create(makeOrder("o1", "camabar", "CAM-2024-001", orders.StatusCancelled, 100))).To(Succeed())
			Expect(repo.Create(makeOrder("o2", "camabar", "CAM-2024-002", orders.StatusPending, 200))).To(Succeed())
		})

		It("should hide deleted orders from lookups and lists", func() {
			Expect(repo.Delete("o1")).To(Succeed())

			o, err := repo.GetByID("o1")
			Expect(err).NotTo(HaveOccurred())
			Expect(o).To(BeNil())

			list, err := repo.ListByCompany("camabar", "")
			Expect(err).NotTo(HaveOccurred())
			Expect(list).To(HaveLen(1))
			Expect(list[0].ID).To(Equal("o2"))
		})

		It("should keep the row in the table", func() {
			Expect(repo.Delete("o1")).To(Succeed())

			var count int64
			Expect(db.Unscoped().Model(&orders.Order{}).Where("id = ?", "o1").Count(&count).Error).To(Succeed())
			Expect(count).To(Equal(int64(1)))
		})

		It("should exclude deleted orders from stats", func() {
			Expect(repo.Delete("o1")).To(Succeed())

			stats, err := repo.Stats("camabar")
			Expect(err).NotTo(HaveOccurred())
			Expect(stats.TotalOrders).To(Equal(int64(1)))
			Expect(stats.TotalRevenue).To(Equal(200.0))
		})
	})

	Describe("ListByCompany", func() {
		BeforeEach(func() {
			Expect(repo.Create(makeOrder("o1", "camabar", "CAM-2024-001", orders.StatusConfirmed, 100))).To(Succeed())
			Expect(repo.Create(makeOrder("o2", "camabar", "CAM-2024-002", orders.StatusPending, 200))).To(Succeed())
			Expect(repo.Create(makeOrder("o3", "almivyca", "ALM-2024-001", orders.StatusPending, 300))).To(Succeed())
		})

		It("should scope to the company", func() {
			list, err := repo.ListByCompany("camabar", "")
			Expect(err).NotTo(HaveOccurred())
			Expect(list).To(HaveLen(2))
		})

		It("should filter by status", func() {
			list, err := repo.ListByCompany("camabar", orders.StatusConfirmed)
			Expect(err).NotTo(HaveOccurred())
			Expect(list).To(HaveLen(1))
			Expect(list[0].OrderNumber).To(Equal("CAM-2024-001"))
		})
	})

	Describe("Stats", func() {
		It("should return zeros for an empty company", func() {
			stats, err := repo.Stats("camabar")
			Expect(err).NotTo(HaveOccurred())
			Expect(stats.TotalOrders).To(BeZero())
			Expect(stats.TotalRevenue).To(BeZero())
			Expect(stats.OrdersByStatus).To(BeEmpty())
			Expect(stats.OrdersByStatus).NotTo(BeNil())
		})

		It("should group by status and include cancelled revenue", func() {
			Expect(repo.Create(makeOrder("o1", "camabar", "CAM-2024-001", orders.StatusConfirmed, 12999.50))).To(Succeed())
			Expect(repo.Create(makeOrder("o2", "camabar", "CAM-2024-002", orders.StatusProcessing, 28475.75))).To(Succeed())
			Expect(repo.Create(makeOrder("o3", "camabar", "CAM-2024-003", orders.StatusDelivered, 5599.00))).To(Succeed())
			Expect(repo.Create(makeOrder("o4", "camabar", "CAM-2024-004", orders.StatusCancelled, 1000.00))).To(Succeed())
			Expect(repo.Create(makeOrder("o5", "almivyca", "ALM-2024-001", orders.StatusPending, 999.99))).To(Succeed())

			stats, err := repo.Stats("camabar")
			Expect(err).NotTo(HaveOccurred())
			Expect(stats.TotalOrders).To(Equal(int64(4)))
			Expect(stats.TotalRevenue).To(BeNumerically("~", 48074.25, 0.01))
			Expect(stats.OrdersByStatus).To(HaveLen(4))
		})
	})
})
