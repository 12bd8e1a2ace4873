package models

import (
	"time"
)

type Goal struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	UserProfileID   uint      `gorm:"index" json:"-"`
	MonthlySpending float64   `json:"monthly_spending"`
	SpendingCushion bool      `json:"spending_cushion"`
	CushionAmount   *float64  `json:"cushion_amount"`
	CreatedAt       time.Time `json:"created_at"`
}
