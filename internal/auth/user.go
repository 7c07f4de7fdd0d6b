package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"journal/internal/apperr"

	"gorm.io/gorm"
)

var (
	// ErrRegistrationClosed means the journal already has its owner.
	ErrRegistrationClosed = errors.New("registration closed")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

const minPasswordLen = 8

type User struct {
	ID           uint64 `gorm:"primaryKey"`
	Email        string `gorm:"uniqueIndex;not null"`
	PasswordHash string `gorm:"not null"`
	// Owner is always true; its unique index admits a single row.
	Owner     bool      `gorm:"not null;default:true;uniqueIndex:uq_users_owner"`
	CreatedAt time.Time `gorm:"not null"`
}

type Users struct {
	DB *gorm.DB
}

// Register creates the single journal owner. It fails once any user exists.
func (s *Users) Register(ctx context.Context, email, password string) (User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" {
		return User{}, apperr.Invalid("email", "required")
	}
	if len(password) < minPasswordLen {
		return User{}, apperr.Invalid("password", "must be at least 8 characters")
	}

	hash, err := HashPassword(password)
	if err != nil {
		return User{}, err
	}

	u := User{Email: email, PasswordHash: hash, Owner: true}
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&User{}).Count(&n).Error; err != nil {
			return apperr.Storage("count users", err)
		}
		if n > 0 {
			return ErrRegistrationClosed
		}
		return apperr.Storage("create user", tx.Create(&u).Error)
	})
	if errors.Is(err, apperr.ErrStorage) && s.hasOwner(ctx) {
		// lost a concurrent registration to the owner index
		return User{}, ErrRegistrationClosed
	}
	if err != nil {
		return User{}, err
	}
	return u, nil
}

func (s *Users) hasOwner(ctx context.Context) bool {
	var n int64
	err := s.DB.WithContext(ctx).Model(&User{}).Count(&n).Error
	return err == nil && n > 0
}

func (s *Users) Authenticate(ctx context.Context, email, password string) (User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || password == "" {
		return User{}, ErrInvalidCredentials
	}

	var u User
	err := s.DB.WithContext(ctx).Where("email = ?", email).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return User{}, ErrInvalidCredentials
	}
	if err != nil {
		return User{}, apperr.Storage("find user", err)
	}
	if !ComparePassword(u.PasswordHash, password) {
		return User{}, ErrInvalidCredentials
	}
	return u, nil
}
