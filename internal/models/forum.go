package models

import (
	"time"

	"gorm.io/gorm"
)

type Category struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:100;not null;uniqueIndex" json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Discussion is a published thread (trip report). Only the columns the
// moderation flow reads are modelled here.
type Discussion struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	UserID     uint           `gorm:"not null;index" json:"user_id"`
	CategoryID *uint          `gorm:"index" json:"category_id"`
	Title      string         `gorm:"size:255;not null" json:"title"`
	Content    string         `gorm:"type:text" json:"content"`
	Status     string         `gorm:"size:20;not null;default:'published'" json:"status"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
	User       User           `gorm:"foreignKey:UserID" json:"user"`
	Category   *Category      `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
}

type Reply struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	DiscussionID uint           `gorm:"not null;index" json:"discussion_id"`
	UserID       uint           `gorm:"not null;index" json:"user_id"`
	ParentID     *uint          `gorm:"index" json:"parent_id"`
	Content      string         `gorm:"type:text;not null" json:"content"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
	User         User           `gorm:"foreignKey:UserID" json:"user"`
	Discussion   Discussion     `gorm:"foreignKey:DiscussionID" json:"discussion"`
}
