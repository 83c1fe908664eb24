package fleet_test

import (
	"errors"
	"log/slog"
	"os"
	"testing"

	internal "github.com/grupomivyca/mivyca-backend/internal"
	"github.com/grupomivyca/mivyca-backend/internal/fleet"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestFleetService(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Fleet Service Suite")
}

// MockRepository implements fleet.Repository for testing
type MockRepository struct {
	rows       map[string]*fleet.Vehicle
	plates     map[string]bool
	shouldFail bool
	failError  error
}

func NewMockRepository() *MockRepository {
	return &MockRepository{
		rows:   make(map[string]*fleet.Vehicle),
		plates: make(map[string]bool),
	}
}

var errDuplicate = errors.New("duplicate key")

func (m *MockRepository) Create(v *fleet.Vehicle) error {
	if m.shouldFail {
		return m.failError
	}
	plateKey := v.CompanyID + "/" + v.Plate
	if m.plates[plateKey] {
		return errDuplicate
	}
	m.plates[plateKey] = true
	copied := *v
	m.rows[v.ID] = &copied
	return nil
}

func (m *MockRepository) GetByID(id string) (*fleet.Vehicle, error) {
	if m.shouldFail {
		return nil, m.failError
	}
	v, ok := m.rows[id]
	if !ok {
		return nil, nil
	}
	copied := *v
	return &copied, nil
}

func (m *MockRepository) ListByCompany(companyID string, status fleet.VehicleStatus) ([]*fleet.Vehicle, error) {
	if m.shouldFail {
		return nil, m.failError
	}
	var result []*fleet.Vehicle
	for _, v := range m.rows {
		if v.CompanyID != companyID {
			continue
		}
		if status != "" && v.Status != status {
			continue
		}
		copied := *v
		result = append(result, &copied)
	}
	return result, nil
}

func (m *MockRepository) Update(v *fleet.Vehicle) error {
	if m.shouldFail {
		return m.failError
	}
	copied := *v
	m.rows[v.ID] = &copied
	return nil
}

func (m *MockRepository) Delete(id string) error {
	if m.shouldFail {
		return m.failError
	}
	delete(m.rows, id)
	return nil
}

func (m *MockRepository) Stats(companyID string) (*fleet.Stats, error) {
	if m.shouldFail {
		return nil, m.failError
	}
	stats := &fleet.Stats{CompanyID: companyID, FleetByStatusType: []fleet.StatusTypeCount{}}
	for _, v := range m.rows {
		if v.CompanyID != companyID {
			continue
		}
		stats.TotalVehicles++
		if v.Status == fleet.StatusAvailable {
			stats.AvailableVehicles++
		}
	}
	return stats, nil
}

func (m *MockRepository) IsDuplicateKey(err error) bool {
	return errors.Is(err, errDuplicate)
}

var _ = Describe("Fleet Service", func() {
	var (
		mockRepo  *MockRepository
		service   *fleet.Service
		principal *internal.Principal
	)

	BeforeEach(func() {
		mockRepo = NewMockRepository()
		lg := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = fleet.NewService(mockRepo, lg)
		principal = &internal.Principal{
			UserID:    "user-luis",
			CompanyID: "transmivyca",
			Role:      "ADMIN",
		}
	})

	Describe("CreateVehicle", func() {
		It("should default the status to AVAILABLE", func() {
			v, err := service.CreateVehicle(principal, fleet.CreateVehicleDTO{
				Plate: "TMV-001-MX",
				Brand: "Ford",
				Model: "Transit 350",
				Year:  2022,
				Type:  "VAN",
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(v.Status).To(Equal(fleet.StatusAvailable))
			Expect(v.Type).To(Equal(fleet.TypeVan))
			Expect(v.CompanyID).To(Equal("transmivyca"))
		})

		It("should accept an explicit status", func() {
			v, err := service.CreateVehicle(principal, fleet.CreateVehicleDTO{
				Plate:  "TMV-003-MX",
				Brand:  "Isuzu",
				Model:  "NPR 816",
				Type:   "TRUCK",
				Status: "IN_USE",
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(v.Status).To(Equal(fleet.StatusInUse))
		})

		It("should reject an unknown vehicle type", func() {
			_, err := service.CreateVehicle(principal, fleet.CreateVehicleDTO{
				Plate: "TMV-004-MX",
				Brand: "Ford",
				Model: "Transit",
				Type:  "BOAT",
			})
			Expect(err).To(HaveOccurred())
		})

		It("should reject an out-of-range year", func() {
			_, err := service.CreateVehicle(principal, fleet.CreateVehicleDTO{
				Plate: "TMV-004-MX",
				Brand: "Ford",
				Model: "T",
				Year:  1900,
				Type:  "CAR",
			})
			Expect(err).To(HaveOccurred())
		})

		It("should reject a duplicate plate within the company", func() {
			_, err := service.CreateVehicle(principal, fleet.CreateVehicleDTO{
				Plate: "TMV-001-MX", Brand: "Ford", Model: "Transit 350", Type: "VAN",
			})
			Expect(err).NotTo(HaveOccurred())

			_, err = service.CreateVehicle(principal, fleet.CreateVehicleDTO{
				Plate: "TMV-001-MX", Brand: "Mercedes", Model: "Sprinter", Type: "TRUCK",
			})
			var appErr *internal.AppError
			Expect(errors.As(err, &appErr)).To(BeTrue())
			Expect(appErr.StatusCode).To(Equal(409))
			Expect(appErr.Code).To(Equal(internal.ErrCodePlateTaken))
		})
	})

	Describe("UpdateVehicle", func() {
		It("should patch status and keep the plate", func() {
			v, err := service.CreateVehicle(principal, fleet.CreateVehicleDTO{
				Plate: "TMV-001-MX", Brand: "Ford", Model: "Transit 350", Type: "VAN",
			})
			Expect(err).NotTo(HaveOccurred())

			status := "MAINTENANCE"
			updated, err := service.UpdateVehicle(principal, v.ID, fleet.UpdateVehicleDTO{
				Status: &status,
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(updated.Status).To(Equal(fleet.StatusMaintenance))
			Expect(updated.Plate).To(Equal("TMV-001-MX"))
		})

		It("should reject an invalid status in the patch", func() {
			v, err := service.CreateVehicle(principal, fleet.CreateVehicleDTO{
				Plate: "TMV-001-MX", Brand: "Ford", Model: "Transit 350", Type: "VAN",
			})
			Expect(err).NotTo(HaveOccurred())

			status := "PARKED"
			_, err = service.UpdateVehicle(principal, v.ID, fleet.UpdateVehicleDTO{Status: &status})
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("ListVehicles", func() {
		It("should reject an invalid status filter", func() {
			_, err := service.ListVehicles(principal, "FLYING")
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("tenant isolation", func() {
		It("should deny access to another company's vehicle", func() {
			v, err := service.CreateVehicle(principal, fleet.CreateVehicleDTO{
				Plate: "TMV-001-MX", Brand: "Ford", Model: "Transit 350", Type: "VAN",
			})
			Expect(err).NotTo(HaveOccurred())

			intruder := &internal.Principal{UserID: "u2", CompanyID: "almivyca", Role: "SUPER_ADMIN"}
			_, err = service.GetVehicle(intruder, v.ID)
			Expect(err).To(Equal(internal.ErrCrossTenant))
		})
	})

	Describe("role permissions", func() {
		as := func(role string) *internal.Principal {
			return &internal.Principal{UserID: "u-role", CompanyID: "transmivyca", Role: role}
		}

		It("should deny writes to read-only roles", func() {
			_, err := service.CreateVehicle(as("USER"), fleet.CreateVehicleDTO{
				Plate: "TMV-009-MX", Brand: "Ford", Model: "Transit", Type: "VAN",
			})
			Expect(err).To(Equal(internal.ErrInsufficientRole))

			v, err := service.CreateVehicle(principal, fleet.CreateVehicleDTO{
				Plate: "TMV-001-MX", Brand: "Ford", Model: "Transit 350", Type: "VAN",
			})
			Expect(err).NotTo(HaveOccurred())

			status := "MAINTENANCE"
			_, err = service.UpdateVehicle(as("SUPERVISOR"), v.ID, fleet.UpdateVehicleDTO{Status: &status})
			Expect(err).To(Equal(internal.ErrInsufficientRole))

			Expect(service.DeleteVehicle(as("USER"), v.ID)).To(Equal(internal.ErrInsufficientRole))
		})

		It("should reserve stats for supervisor and above", func() {
			_, err := service.FleetStats(as("USER"))
			Expect(err).To(Equal(internal.ErrInsufficientRole))

			_, err = service.FleetStats(as("SUPERVISOR"))
			Expect(err).NotTo(HaveOccurred())
		})

		It("should still let a read-only role list vehicles", func() {
			_, err := service.CreateVehicle(principal, fleet.CreateVehicleDTO{
				Plate: "TMV-001-MX", Brand: "Ford", Model: "Transit 350", Type: "VAN",
			})
			Expect(err).NotTo(HaveOccurred())

			vehicles, err := service.ListVehicles(as("USER"), "")
			Expect(err).NotTo(HaveOccurred())
			Expect(vehicles).To(HaveLen(1))
		})
	})
})

var _ = Describe("Vehicle enums", func() {
	It("should parse the three statuses", func() {
		for _, s := range []string{"AVAILABLE", "IN_USE", "MAINTENANCE"} {
			_, ok := fleet.ParseVehicleStatus(s)
			Expect(ok).To(BeTrue(), "expected %s to parse", s)
		}
		_, ok := fleet.ParseVehicleStatus("BROKEN")
		Expect(ok).To(BeFalse())
	})

	It("should parse the four types", func() {
		for _, s := range []string{"TRUCK", "VAN", "CAR", "MOTORCYCLE"} {
			_, ok := fleet.ParseVehicleType(s)
			Expect(ok).To(BeTrue(), "expected %s to parse", s)
		}
		_, ok := fleet.ParseVehicleType("BICYCLE")
		Expect(ok).To(BeFalse())
	})
})
