package models

import (
	"github.com/lib/pq"
	"time"
)

type Category struct {
	ID               uint           `gorm:"primaryKey" json:"id"`
	Name             string         `gorm:"index" json:"name"`
	CreatedAt        time.Time      `json:"created_at"`
	PlaceholderImage string         `json:"placeholder_image"`
	UserID           uint           `gorm:"index" json:"-"`
	User             *User          `json:"-"`
	IsPublic         bool           `gorm:"default:true" json:"is_public"`
	IsWishlist       bool           `json:"is_wishlist"`
	Tags             pq.StringArray `gorm:"type:text[]" json:"tags"`

	Images []Image `gorm:"foreignKey:CategoryID" json:"-"`
}
