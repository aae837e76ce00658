package repositories

import (
	"errors"
	"time"

	"safespace_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrUserAlreadyExists = errors.New("user already exists")
)

// UserRepository is the credential store. Every method is a single-record
// read or atomic single-record update; the *gorm.DB argument is the
// request-scoped handle (connection pool or open transaction).
type UserRepository interface {
	FindByID(db *gorm.DB, id string) (*models.User, error)
	FindByEmail(db *gorm.DB, email string) (*models.User, error)
	FindByMobile(db *gorm.DB, mobile string) (*models.User, error)
	FindByRefreshToken(db *gorm.DB, token string) (*models.User, error)
	// FindForPasswordReset matches email + stored reset token + unexpired
	// expiry in one query, mirroring the reset-flow lookup.
	FindForPasswordReset(db *gorm.DB, email, token string) (*models.User, error)

	Create(db *gorm.DB, user *models.User) error
	Update(db *gorm.DB, user *models.User) error
	// UpdateFields applies a partial update to one user row.
	UpdateFields(db *gorm.DB, userID string, fields map[string]interface{}) error

	SetRefreshToken(db *gorm.DB, userID string, token *string) error
	SetPasswordReset(db *gorm.DB, userID, token string, expiry time.Time) error
	// UpdatePasswordAndClearReset persists the new hash and clears both
	// reset fields in a single write, so a consumed token can't be replayed.
	UpdatePasswordAndClearReset(db *gorm.DB, userID, passwordHash string) error
	UpdatePassword(db *gorm.DB, userID, passwordHash string) error
}

type UserRepositoryImpl struct{}

func NewUserRepository() UserRepository {
	return &UserRepositoryImpl{}
}

func (r *UserRepositoryImpl) FindByID(db *gorm.DB, id string) (*models.User, error) {
	return r.findOne(db, "id = ?", id)
}

func (r *UserRepositoryImpl) FindByEmail(db *gorm.DB, email string) (*models.User, error) {
	return r.findOne(db, "email = ?", email)
}

func (r *UserRepositoryImpl) FindByMobile(db *gorm.DB, mobile string) (*models.User, error) {
	return r.findOne(db, "mobile = ?", mobile)
}

func (r *UserRepositoryImpl) FindByRefreshToken(db *gorm.DB, token string) (*models.User, error) {
	return r.findOne(db, "refresh_token = ?", token)
}

func (r *UserRepositoryImpl) FindForPasswordReset(db *gorm.DB, email, token string) (*models.User, error) {
	return r.findOne(db,
		"email = ? AND password_reset_token = ? AND password_reset_expiry > ?",
		email, token, time.Now())
}

func (r *UserRepositoryImpl) findOne(db *gorm.DB, query string, args ...interface{}) (*models.User, error) {
	var user models.User
	err := db.First(&user, append([]interface{}{query}, args...)...).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepositoryImpl) Create(db *gorm.DB, user *models.User) error {
	if err := db.Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrUserAlreadyExists
		}
		return err
	}
	return nil
}

func (r *UserRepositoryImpl) Update(db *gorm.DB, user *models.User) error {
	return db.Save(user).Error
}

func (r *UserRepositoryImpl) UpdateFields(db *gorm.DB, userID string, fields map[string]interface{}) error {
	res := db.Model(&models.User{}).Where("id = ?", userID).Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *UserRepositoryImpl) SetRefreshToken(db *gorm.DB, userID string, token *string) error {
	return r.UpdateFields(db, userID, map[string]interface{}{"refresh_token": token})
}

func (r *UserRepositoryImpl) SetPasswordReset(db *gorm.DB, userID, token string, expiry time.Time) error {
	return r.UpdateFields(db, userID, map[string]interface{}{
		"password_reset_token":  token,
		"password_reset_expiry": expiry,
	})
}

func (r *UserRepositoryImpl) UpdatePasswordAndClearReset(db *gorm.DB, userID, passwordHash string) error {
	return r.UpdateFields(db, userID, map[string]interface{}{
		"password_hash":         passwordHash,
		"password_reset_token":  nil,
		"password_reset_expiry": nil,
	})
}

func (r *UserRepositoryImpl) UpdatePassword(db *gorm.DB, userID, passwordHash string) error {
	return r.UpdateFields(db, userID, map[string]interface{}{"password_hash": passwordHash})
}
