package repositories

import (
	"errors"

	"safespace_backend/internal/models"

	"gorm.io/gorm"
)

var ErrRoleNotFound = errors.New("role not found")

type RoleRepository interface {
	FindByID(db *gorm.DB, id string) (*models.Role, error)
	FindByName(db *gorm.DB, name string) (*models.Role, error)
	// ResolveForUser collapses the dual role representation (inline string
	// or reference id) into the canonical uppercase role. This is the only
	// place the two representations are interpreted.
	ResolveForUser(db *gorm.DB, user *models.User) (models.CanonicalRole, error)
	EnsureDefaults(db *gorm.DB) error
}

type RoleRepositoryImpl struct{}

func NewRoleRepository() RoleRepository {
	return &RoleRepositoryImpl{}
}

func (r *RoleRepositoryImpl) FindByID(db *gorm.DB, id string) (*models.Role, error) {
	var role models.Role
	if err := db.First(&role, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoleNotFound
		}
		return nil, err
	}
	return &role, nil
}

func (r *RoleRepositoryImpl) FindByName(db *gorm.DB, name string) (*models.Role, error) {
	var role models.Role
	if err := db.First(&role, "name = ?", name).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoleNotFound
		}
		return nil, err
	}
	return &role, nil
}

func (r *RoleRepositoryImpl) ResolveForUser(db *gorm.DB, user *models.User) (models.CanonicalRole, error) {
	name := user.Role
	if user.RoleID != nil {
		role, err := r.FindByID(db, *user.RoleID)
		if err != nil {
			return "", err
		}
		name = role.Name
	}

	canonical, ok := models.CanonicalizeRole(name)
	if !ok {
		return "", ErrRoleNotFound
	}
	return canonical, nil
}

// EnsureDefaults seeds the reference table with the recognized roles.
func (r *RoleRepositoryImpl) EnsureDefaults(db *gorm.DB) error {
	for _, name := range []string{"user", "admin"} {
		var role models.Role
		err := db.First(&role, "name = ?", name).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if err := db.Create(&models.Role{Name: name}).Error; err != nil {
			return err
		}
	}
	return nil
}
