package models

import (
	"time"
)

// UserFollow is a directed edge: follower follows followed. The pair is
// unique; follow-back is a distinct edge in the other direction.
type UserFollow struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	FollowerID uint      `gorm:"uniqueIndex:idx_follower_followed" json:"follower"`
	Follower   *User     `json:"-"`
	FollowedID uint      `gorm:"uniqueIndex:idx_follower_followed" json:"followed"`
	Followed   *User     `json:"-"`
	CreatedAt  time.Time `json:"created_at"`
}
