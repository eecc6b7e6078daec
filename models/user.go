package models

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopopti/pricing_backend/config"
	"github.com/shopopti/pricing_backend/utils"
	"gorm.io/gorm"
)

const (
	UserRoleAdmin = "admin"
	UserRoleOwner = "owner"
)

type User struct {
	ID        uuid.UUID `gorm:"type:char(36);primary_key" json:"id"`
	Username  string    `gorm:"uniqueIndex;size:255;not null" json:"username" binding:"required"`
	Name      string    `gorm:"size:255" json:"name"`
	Password  string    `gorm:"size:255;not null" json:"-"`
	Role      string    `gorm:"size:20;not null;default:owner" json:"role"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

func (u *User) StoreRedis() error {
	return config.SetRedisObject("User:"+u.Username, u, 15*time.Minute)
}

// GetUserByUsername resolves a user, preferring the Redis cache; falls back
// to the database and repopulates the cache on a miss.
func GetUserByUsername(ctx context.Context, username string) (*User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, utils.ErrorRecordNotFound
	}

	var result User
	exists, err := config.GetRedisObject("User:"+username, &result)
	if err != nil {
		return nil, err
	}
	if !exists {
		db := config.GetDB()
		if db == nil {
			return nil, errors.New("db is nil")
		}
		if err := db.WithContext(ctx).Where("username = ?", username).First(&result).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, utils.ErrorRecordNotFound
			}
			return nil, err
		}
		if err := result.StoreRedis(); err != nil {
			return nil, err
		}
	}
	return &result, nil
}
