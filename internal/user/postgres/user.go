package postgres

import (
	"errors"

	"github.com/grupomivyca/mivyca-backend/internal/user"
	"gorm.io/gorm"
)

// UserRepository implements user.Repository using GORM.
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) user.Repository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(u *user.User) error {
	return r.db.Create(u).Error
}

func (r *UserRepository) GetByID(id string) (*user.User, error) {
	var u user.User
	err := r.db.Where("id = ?", id).First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) GetByEmail(email string) (*user.User, error) {
	var u user.User
	err := r.db.Where("email = ?", email).First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) List() ([]*user.User, error) {
	var users []*user.User
	err := r.db.Order("created_at ASC").Find(&users).Error
	return users, err
}

// ListByCompany joins against the access junction, returning only users that
// hold an active row in the given company.
func (r *UserRepository) ListByCompany(companyID string) ([]*user.User, error) {
	var users []*user.User
	err := r.db.
		Joins("JOIN company_access ON company_access.user_id = users.id").
		Where("company_access.company_id = ? AND company_access.is_active = ?", companyID, true).
		Order("users.created_at ASC").
		Find(&users).Error
	return users, err
}

func (r *UserRepository) Update(u *user.User) error {
	return r.db.Save(u).Error
}

func (r *UserRepository) Delete(id string) error {
	return r.db.Where("id = ?", id).Delete(&user.User{}).Error
}

func (r *UserRepository) Exists(id string) (bool, error) {
	var count int64
	err := r.db.Model(&user.User{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

func (r *UserRepository) IsDuplicateKey(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}
