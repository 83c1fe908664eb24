package postgres_test

import (
	"testing"
	"time"

	"github.com/grupomivyca/mivyca-backend/internal/fleet"
	fleetPostgres "github.com/grupomivyca/mivyca-backend/internal/fleet/postgres"
	"github.com/grupomivyca/mivyca-backend/internal/metrics"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestFleetPostgres(t *testing.T) {
	metrics.Init("fleet_postgres_test")
	RegisterFailHandler(Fail)
	RunSpecs(t, "Fleet Postgres Suite")
}

var _ = Describe("Vehicle Repository", func() {
	var (
		db   *gorm.DB
		repo fleet.Repository
	)

	makeVehicle := func(id, companyID, plate string, vType fleet.VehicleType, status fleet.VehicleStatus) *fleet.Vehicle {
		now := time.Now()
		return &fleet.Vehicle{
			ID:        id,
			CompanyID: companyID,
			Plate:     plate,
			Brand:     "Ford",
			Model:     "Transit 350",
			Year:      2022,
			Type:      vType,
			Status:    status,
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

		Expect(db.AutoMigrate(&fleet.Vehicle{})).To(Succeed())
		repo = fleetPostgres.NewVehicleRepository(db)
	})

	Describe("Create", func() {
		It("should enforce plate uniqueness per company only", func() {
			Expect(repo.Create(makeVehicle("v1", "transmivyca", "TMV-001-MX", fleet.TypeVan, fleet.StatusAvailable))).To(Succeed())

			err := repo.Create(makeVehicle("v2", "transmivyca", "TMV-001-MX", fleet.TypeTruck, fleet.StatusAvailable))
			Expect(err).To(HaveOccurred())
			Expect(repo.IsDuplicateKey(err)).To(BeTrue())

			Expect(repo.Create(makeVehicle("v3", "almivyca", "TMV-001-MX", fleet.TypeVan, fleet.StatusAvailable))).To(Succeed())
		})
	})

	Describe("ListByCompany", func() {
		BeforeEach(func() {
			Expect(repo.Create(makeVehicle("v1", "transmivyca", "TMV-002-MX", fleet.TypeTruck, fleet.StatusAvailable))).To(Succeed())
			Expect(repo.Create(makeVehicle("v2", "transmivyca", "TMV-001-MX", fleet.TypeVan, fleet.StatusInUse))).To(Succeed())
			Expect(repo.Create(makeVehicle("v3", "almivyca", "ALM-001-MX", fleet.TypeCar, fleet.StatusAvailable))).To(Succeed())
		})

		It("should order by plate", func() {
			list, err := repo.ListByCompany("transmivyca", "")
			Expect(err).NotTo(HaveOccurred())
			Expect(list).To(HaveLen(2))
			Expect(list[0].Plate).To(Equal("TMV-001-MX"))
			Expect(list[1].Plate).To(Equal("TMV-002-MX"))
		})

		It("should filter by status", func() {
			list, err := repo.ListByCompany("transmivyca", fleet.StatusInUse)
			Expect(err).NotTo(HaveOccurred())
			Expect(list).To(HaveLen(1))
			Expect(list[0].Plate).To(Equal("TMV-001-MX"))
		})
	})

	Describe("Stats", func() {
		It("should return zeros with an empty breakdown for an empty fleet", func() {
			stats, err := repo.Stats("transmivyca")
			Expect(err).NotTo(HaveOccurred())
			Expect(stats.TotalVehicles).To(BeZero())
			Expect(stats.AvailableVehicles).To(BeZero())
			Expect(stats.FleetByStatusType).To(BeEmpty())
			Expect(stats.FleetByStatusType).NotTo(BeNil())
		})

		It("should group by status and type", func() {
			Expect(repo.Create(makeVehicle("v1", "transmivyca", "TMV-001-MX", fleet.TypeVan, fleet.StatusAvailable))).To(Succeed())
			Expect(repo.Create(makeVehicle("v2", "transmivyca", "TMV-002-MX", fleet.TypeVan, fleet.StatusAvailable))).To(Succeed())
			Expect(repo.Create(makeVehicle("v3", "transmivyca", "TMV-003-MX", fleet.TypeTruck, fleet.StatusInUse))).To(Succeed())
			Expect(repo.Create(makeVehicle("v4", "almivyca", "ALM-001-MX", fleet.TypeCar, fleet.StatusAvailable))).To(Succeed())

			stats, err := repo.Stats("transmivyca")
			Expect(err).NotTo(HaveOccurred())
			Expect(stats.TotalVehicles).To(Equal(int64(3)))
			Expect(stats.AvailableVehicles).To(Equal(int64(2)))
			Expect(stats.FleetByStatusType).To(HaveLen(2))

			var vanAvailable *fleet.StatusTypeCount
			for i := range stats.FleetByStatusType {
				cell := &stats.FleetByStatusType[i]
				if cell.Status == fleet.StatusAvailable && cell.Type == fleet.TypeVan {
					vanAvailable = cell
				}
			}
			Expect(vanAvailable).NotTo(BeNil())
			Expect(vanAvailable.Count).To(Equal(int64(2)))
		})
	})
})
