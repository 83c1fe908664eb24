package user_test

import (
	"errors"
	"log/slog"
	"os"
	"testing"

	internal "github.com/grupomivyca/mivyca-backend/internal"
	"github.com/grupomivyca/mivyca-backend/internal/user"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestUserService(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "User Service Suite")
}

// MockRepository implements user.Repository for testing
type MockRepository struct {
	rows       map[string]*user.User
	emails     map[string]bool
	shouldFail bool
	failError  error
}

func NewMockRepository() *MockRepository {
	return &MockRepository{
		rows:   make(map[string]*user.User),
		emails: make(map[string]bool),
	}
}

var errDuplicate = errors.New("duplicate key")

func (m *MockRepository) Create(u *user.User) error {
	if m.shouldFail {
		return m.failError
	}
	if m.emails[u.Email] {
		return errDuplicate
	}
	m.emails[u.Email] = true
	copied := *u
	m.rows[u.ID] = &copied
	return nil
}

func (m *MockRepository) GetByID(id string) (*user.User, error) {
	if m.shouldFail {
		return nil, m.failError
	}
	u, ok := m.rows[id]
	if !ok {
		return nil, nil
	}
	copied := *u
	return &copied, nil
}

func (m *MockRepository) GetByEmail(email string) (*user.User, error) {
	if m.shouldFail {
		return nil, m.failError
	}
	for _, u := range m.rows {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, nil
}

func (m *MockRepository) List() ([]*user.User, error) {
	if m.shouldFail {
		return nil, m.failError
	}
	var result []*user.User
	for _, u := range m.rows {
		copied := *u
		result = append(result, &copied)
	}
	return result, nil
}

func (m *MockRepository) ListByCompany(companyID string) ([]*user.User, error) {
	return m.List()
}

func (m *MockRepository) Update(u *user.User) error {
	if m.shouldFail {
		return m.failError
	}
	copied := *u
	m.rows[u.ID] = &copied
	return nil
}

func (m *MockRepository) Delete(id string) error {
	if m.shouldFail {
		return m.failError
	}
	delete(m.rows, id)
	return nil
}

func (m *MockRepository) Exists(id string) (bool, error) {
	if m.shouldFail {
		return false, m.failError
	}
	_, ok := m.rows[id]
	return ok, nil
}

func (m *MockRepository) IsDuplicateKey(err error) bool {
	return errors.Is(err, errDuplicate)
}

// fakeHasher marks hashes without doing real bcrypt work.
type fakeHasher struct{}

func (fakeHasher) HashPassword(plain string) (string, error) {
	return "hashed:" + plain, nil
}

var _ = Describe("User Service", func() {
	var (
		mockRepo *MockRepository
		service  *user.Service
	)

	createUser := func(email string) *user.User {
		u, err := service.CreateUser(user.CreateUserDTO{
			Email:     email,
			Password:  "password123",
			FirstName: "Carlos",
			LastName:  "Administrador",
		})
		Expect(err).NotTo(HaveOccurred())
		return u
	}

	BeforeEach(func() {
		mockRepo = NewMockRepository()
		lg := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = user.NewService(mockRepo, fakeHasher{}, lg)
	})

	Describe("CreateUser", func() {
		It("should hash the password and never store the plaintext", func() {
			u := createUser("admin@almivyca.com")
			Expect(u.PasswordHash).To(Equal("hashed:password123"))
			Expect(u.IsActive).To(BeTrue())
			Expect(u.EmailVerified).To(BeFalse())
		})

		It("should reject a duplicate email", func() {
			createUser("admin@almivyca.com")

			_, err := service.CreateUser(user.CreateUserDTO{
				Email:     "admin@almivyca.com",
				Password:  "otherpassword",
				FirstName: "Otro",
				LastName:  "Usuario",
			})
			var appErr *internal.AppError
			Expect(errors.As(err, &appErr)).To(BeTrue())
			Expect(appErr.StatusCode).To(Equal(409))
			Expect(appErr.Code).To(Equal(internal.ErrCodeEmailTaken))
		})

		It("should reject invalid emails and short passwords", func() {
			_, err := service.CreateUser(user.CreateUserDTO{
				Email: "not-an-email", Password: "password123", FirstName: "A", LastName: "B",
			})
			Expect(err).To(HaveOccurred())

			_, err = service.CreateUser(user.CreateUserDTO{
				Email: "a@b.com", Password: "short", FirstName: "A", LastName: "B",
			})
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("GetUser", func() {
		It("should return not found for a missing id", func() {
			_, err := service.GetUser("missing")
			Expect(err).To(Equal(internal.ErrUserNotFound))
		})
	})

	Describe("UpdateUser", func() {
		It("should patch names and the default company", func() {
			u := createUser("admin@almivyca.com")

			firstName := "Roberto"
			defaultCompany := "transmivyca"
			updated, err := service.UpdateUser(u.ID, user.UpdateUserDTO{
				FirstName:        &firstName,
				DefaultCompanyID: &defaultCompany,
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(updated.FirstName).To(Equal("Roberto"))
			Expect(updated.LastName).To(Equal("Administrador"))
			Expect(*updated.DefaultCompanyID).To(Equal("transmivyca"))
			Expect(updated.Email).To(Equal("admin@almivyca.com"))
		})

		It("should deactivate through the active flag", func() {
			u := createUser("admin@almivyca.com")

			inactive := false
			updated, err := service.UpdateUser(u.ID, user.UpdateUserDTO{IsActive: &inactive})
			Expect(err).NotTo(HaveOccurred())
			Expect(updated.IsActive).To(BeFalse())
		})

		It("should reject an empty first name", func() {
			u := createUser("admin@almivyca.com")
			empty := ""
			_, err := service.UpdateUser(u.ID, user.UpdateUserDTO{FirstName: &empty})
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("DeleteUser", func() {
		It("should remove the user", func() {
			u := createUser("admin@almivyca.com")
			Expect(service.DeleteUser(u.ID)).To(Succeed())

			_, err := service.GetUser(u.ID)
			Expect(err).To(Equal(internal.ErrUserNotFound))
		})

		It("should return not found for a missing id", func() {
			Expect(service.DeleteUser("missing")).To(Equal(internal.ErrUserNotFound))
		})
	})

	Describe("UserExists", func() {
		It("should answer the access directory check", func() {
			u := createUser("admin@almivyca.com")

			exists, err := service.UserExists(u.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(exists).To(BeTrue())

			exists, err = service.UserExists("ghost")
			Expect(err).NotTo(HaveOccurred())
			Expect(exists).To(BeFalse())
		})
	})
})
