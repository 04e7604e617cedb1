package models

import (
	"time"

	"gorm.io/gorm"
)

// Role is the closed set of global roles a forum account can hold.
type Role string

const (
	RoleUser      Role = "user"
	RoleModerator Role = "moderator"
	RoleAdmin     Role = "admin"
)

// IsStaff reports whether the role may act on reports site-wide.
func (r Role) IsStaff() bool {
	return r == RoleModerator || r == RoleAdmin
}

func (r Role) IsAdmin() bool {
	return r == RoleAdmin
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleModerator, RoleAdmin:
		return true
	}
	return false
}

type UserStatus string

const (
	UserStatusActive UserStatus = "active"
	UserStatusBanned UserStatus = "banned"
)

type User struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	Username     string         `gorm:"size:50;not null;uniqueIndex" json:"username"`
	Email        string         `gorm:"size:255;not null;uniqueIndex" json:"email"`
	Password     string         `gorm:"not null" json:"-"`
	Role         Role           `gorm:"size:20;not null;default:'user'" json:"role"`
	Status       UserStatus     `gorm:"size:20;not null;default:'active'" json:"status"`
	IsBlocked    bool           `gorm:"not null;default:false" json:"is_blocked"`
	BlockedUntil *time.Time     `json:"blocked_until"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

// IsEffectivelyBlocked reports whether the block on u is still in force at now.
// A block without an expiry never lapses.
func (u *User) IsEffectivelyBlocked(now time.Time) bool {
	if !u.IsBlocked {
		return false
	}
	if u.BlockedUntil == nil {
		return true
	}
	return now.Before(*u.BlockedUntil)
}

// BlockExpired reports whether u carries a temporary block that has lapsed
// and is waiting to be cleared.
func (u *User) BlockExpired(now time.Time) bool {
	return u.IsBlocked && u.BlockedUntil != nil && !now.Before(*u.BlockedUntil)
}

func (u *User) IsBanned() bool {
	return u.Status == UserStatusBanned
}
