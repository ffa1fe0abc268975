package x_db

import (
	"context"
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"
)

var ErrCredentials = errors.New("x_db: username and password required")

// User is an API account.
type User struct {
	ID           uint64 `gorm:"primaryKey"`
	Username     string `gorm:"uniqueIndex;not null"`
	PasswordHash string `gorm:"not null"`
	Role         string `gorm:"default:user"` // admin, user
	CreatedAt    time.Time
}

// CreateUser stores a user with a bcrypt hash of password.
func (d *DAO) CreateUser(ctx context.Context, username, password, role string) error {
	if username == "" || password == "" {
		return ErrCredentials
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return d.db.WithContext(ctx).Create(&User{
		Username:     username,
		PasswordHash: string(hash),
		Role:         role,
	}).Error
}

// FindUser looks a user up by name.
func (d *DAO) FindUser(ctx context.Context, username string) (*User, error) {
	var u User
	if err := d.db.WithContext(ctx).Where("username = ?", username).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

// Authenticate returns the user when password matches.
func (d *DAO) Authenticate(ctx context.Context, username, password string) (*User, error) {
	u, err := d.FindUser(ctx, username)
	if err != nil {
		return nil, err
	}
	if !u.CheckPassword(password) {
		return nil, ErrCredentials
	}
	return u, nil
}

// CheckPassword compares pw with the stored hash.
func (u *User) CheckPassword(pw string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(pw)) == nil
}
