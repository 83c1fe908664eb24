package cmd

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/grupomivyca/mivyca-backend/internal/access"
	"github.com/grupomivyca/mivyca-backend/internal/company"
	"github.com/grupomivyca/mivyca-backend/internal/fleet"
	"github.com/grupomivyca/mivyca-backend/internal/inventory"
	"github.com/grupomivyca/mivyca-backend/internal/orders"
	"github.com/grupomivyca/mivyca-backend/internal/user"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed the database with the Grupo Mivyca companies and demo users for development and testing purposes.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		sqlxDB, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}
		defer sqlxDB.Close()

		db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlxDB.DB}), &gorm.Config{TranslateError: true})
		if err != nil {
			log.Fatalf("failed to init orm: %v", err)
		}

		if clearData {
			fmt.Println("Clearing existing data...")
			for _, table := range []string{"orders", "vehicles", "products", "company_access", "users", "companies"} {
				if err := db.Exec("DELETE FROM " + table).Error; err != nil {
					log.Fatalf("failed to clear %s: %v", table, err)
				}
			}
		}

		if err := seedAll(db); err != nil {
			log.Fatalf("seed failed: %v", err)
		}

		fmt.Println("Seed complete.")
		fmt.Println("  superadmin@grupomivyca.com / admin123 (SUPER_ADMIN in all companies)")
		fmt.Println("  admin@almivyca.com / admin123")
		fmt.Println("  admin@transmivyca.com / admin123")
		fmt.Println("  admin@camabar.com / admin123")
		fmt.Println("  manager@grupomivyca.com / admin123 (Transmivyca + CAMABAR)")
	},
}

func seedAll(db *gorm.DB) error {
	hash, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	password := string(hash)

	almivyca, err := ensureCompany(db, "almivyca", "Almivyca",
		"Empresa especializada en almacenamiento y logística integral", "/logos/almivyca.png")
	if err != nil {
		return err
	}
	transmivyca, err := ensureCompany(db, "transmivyca", "Transmivyca",
		"Empresa de transporte y gestión de flota vehicular", "/logos/transmivyca.png")
	if err != nil {
		return err
	}
	camabar, err := ensureCompany(db, "camabar", "CAMABAR",
		"Empresa de comercialización y ventas especializada", "/logos/camabar.png")
	if err != nil {
		return err
	}

	superAdmin, err := ensureUser(db, "superadmin@grupomivyca.com", password, "Super", "Administrador", &almivyca.ID)
	if err != nil {
		return err
	}
	for _, c := range []*company.Company{almivyca, transmivyca, camabar} {
		if err := ensureAccess(db, superAdmin.ID, c.ID, access.RoleSuperAdmin); err != nil {
			return err
		}
	}

	adminSeeds := []struct {
		email     string
		firstName string
		lastName  string
		company   *company.Company
	}{
		{"admin@almivyca.com", "Carlos", "Administrador", almivyca},
		{"admin@transmivyca.com", "Luis", "Transportista", transmivyca},
		{"admin@camabar.com", "Ana", "Comercial", camabar},
	}
	for _, seed := range adminSeeds {
		u, err := ensureUser(db, seed.email, password, seed.firstName, seed.lastName, &seed.company.ID)
		if err != nil {
			return err
		}
		if err := ensureAccess(db, u.ID, seed.company.ID, access.RoleAdmin); err != nil {
			return err
		}
	}

	manager, err := ensureUser(db, "manager@grupomivyca.com", password, "Roberto", "Manager", &transmivyca.ID)
	if err != nil {
		return err
	}
	if err := ensureAccess(db, manager.ID, transmivyca.ID, access.RoleManager); err != nil {
		return err
	}
	if err := ensureAccess(db, manager.ID, camabar.ID, access.RoleManager); err != nil {
		return err
	}

	if err := seedProducts(db, almivyca.ID); err != nil {
		return err
	}
	if err := seedVehicles(db, transmivyca.ID); err != nil {
		return err
	}
	return seedOrders(db, camabar.ID)
}

func ensureCompany(db *gorm.DB, slug, name, description, logo string) (*company.Company, error) {
	var existing company.Company
	err := db.Where("slug = ?", slug).First(&existing).Error
	if err == nil {
		return &existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	now := time.Now()
	c := &company.Company{
		ID:          uuid.NewString(),
		Slug:        slug,
		Name:        name,
		Description: description,
		Logo:        logo,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := db.Create(c).Error; err != nil {
		return nil, err
	}
	fmt.Println("Seeded company:", name)
	return c, nil
}

func ensureUser(db *gorm.DB, email, passwordHash, firstName, lastName string, defaultCompanyID *string) (*user.User, error) {
	var existing user.User
	err := db.Where("email = ?", email).First(&existing).Error
	if err == nil {
		return &existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	now := time.Now()
	u := &user.User{
		ID:               uuid.NewString(),
		Email:            email,
		PasswordHash:     passwordHash,
		FirstName:        firstName,
		LastName:         lastName,
		IsActive:         true,
		EmailVerified:    true,
		DefaultCompanyID: defaultCompanyID,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := db.Create(u).Error; err != nil {
		return nil, err
	}
	fmt.Println("Seeded user:", email)
	return u, nil
}

func ensureAccess(db *gorm.DB, userID, companyID string, role access.Role) error {
	var existing access.CompanyAccess
	err := db.Where("user_id = ? AND company_id = ?", userID, companyID).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	now := time.Now()
	return db.Create(&access.CompanyAccess{
		ID:        uuid.NewString(),
		UserID:    userID,
		CompanyID: companyID,
		Role:      role,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}).Error
}

func seedProducts(db *gorm.DB, companyID string) error {
	samples := []inventory.Product{
		{SKU: "ALM-EST-001", Name: "Estantería Industrial Modelo A", Category: "Almacenamiento", Price: 4599.00, Stock: 25},
		{SKU: "ALM-EST-002", Name: "Estantería Industrial Modelo B", Category: "Almacenamiento", Price: 6299.00, Stock: 8},
		{SKU: "ALM-PAL-001", Name: "Pallet de Plástico Reforzado", Category: "Logística", Price: 899.50, Stock: 150},
	}

	for _, p := range samples {
		var count int64
		if err := db.Model(&inventory.Product{}).
			Where("company_id = ? AND sku = ?", companyID, p.SKU).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			continue
		}

		now := time.Now()
		p.ID = uuid.NewString()
		p.CompanyID = companyID
		p.IsActive = true
		p.CreatedAt = now
		p.UpdatedAt = now
		if err := db.Create(&p).Error; err != nil {
			return err
		}
	}
	return nil
}

func seedVehicles(db *gorm.DB, companyID string) error {
	samples := []fleet.Vehicle{
		{Plate: "TMV-001-MX", Brand: "Ford", Model: "Transit 350", Year: 2023, Type: fleet.TypeVan, Status: fleet.StatusAvailable, FuelType: "Diesel", Capacity: "3.5 toneladas"},
		{Plate: "TMV-002-MX", Brand: "Mercedes-Benz", Model: "Sprinter 516", Year: 2022, Type: fleet.TypeTruck, Status: fleet.StatusAvailable, FuelType: "Diesel", Capacity: "7 toneladas"},
		{Plate: "TMV-003-MX", Brand: "Isuzu", Model: "NPR 816", Year: 2023, Type: fleet.TypeTruck, Status: fleet.StatusInUse, FuelType: "Diesel", Capacity: "5 toneladas"},
	}

	for _, v := range samples {
		var count int64
		if err := db.Model(&fleet.Vehicle{}).
			Where("company_id = ? AND plate = ?", companyID, v.Plate).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			continue
		}

		now := time.Now()
		v.ID = uuid.NewString()
		v.CompanyID = companyID
		v.CreatedAt = now
		v.UpdatedAt = now
		if err := db.Create(&v).Error; err != nil {
			return err
		}
	}
	return nil
}

func seedOrders(db *gorm.DB, companyID string) error {
	samples := []orders.Order{
		{OrderNumber: "CAM-2024-001", Total: 12999.50, Status: orders.StatusConfirmed, CustomerName: "Distribuidora El Sol S.A. de C.V.", CustomerEmail: "pedidos@distribuidoraelsol.com", CustomerPhone: "+52-33-1234-5678"},
		{OrderNumber: "CAM-2024-002", Total: 28475.75, Status: orders.StatusProcessing, CustomerName: "Comercializadora Norte Ltda.", CustomerEmail: "compras@comercializadoranorte.mx", CustomerPhone: "+52-81-9876-5432"},
		{OrderNumber: "CAM-2024-003", Total: 5599.00, Status: orders.StatusDelivered, CustomerName: "Supermercados La Central", CustomerEmail: "logistica@lacentral.mx", CustomerPhone: "+52-55-5555-1234"},
	}

	for _, o := range samples {
		var count int64
		if err := db.Model(&orders.Order{}).
			Where("company_id = ? AND order_number = ?", companyID, o.OrderNumber).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			continue
		}

		now := time.Now()
		o.ID = uuid.NewString()
		o.CompanyID = companyID
		o.CreatedAt = now
		o.UpdatedAt = now
		if err := db.Create(&o).Error; err != nil {
			return err
		}
	}
	return nil
}
