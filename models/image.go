package models

import (
	"github.com/lib/pq"
	"time"
)

type Image struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Title       string         `json:"title"`
	Path        string         `json:"path"`
	CategoryID  uint           `gorm:"index" json:"category"`
	Category    *Category      `json:"-"`
	UploadedAt  time.Time      `gorm:"autoCreateTime" json:"uploaded_at"`
	Description string         `json:"description"`
	Valuation   *float64       `json:"valuation"`
	Tags        pq.StringArray `gorm:"type:text[]" json:"tags"`
	PurchaseURL string         `json:"purchase_url"`
	IsWishlist  bool           `json:"is_wishlist"`
}
