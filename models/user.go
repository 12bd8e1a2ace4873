package models

import (
	"time"
)

type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Username  string    `gorm:"index" json:"username"`
	Email     string    `gorm:"uniqueIndex" json:"email"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	CreatedAt time.Time `json:"-"`

	Profile *UserProfile `gorm:"foreignKey:UserID" json:"-"`
}

type PersistentToken struct {
	ID        uint      `gorm:"primaryKey"`
	UserID    uint      `gorm:"index"`
	TokenHash string
	CreatedAt time.Time
}
