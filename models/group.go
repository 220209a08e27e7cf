package models

import "time"

// Group is a named collection posts can be assigned to. Deleting a group
// detaches its posts instead of removing them.
type Group struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Slug        string    `gorm:"size:50;not null;uniqueIndex" json:"slug"`
	Title       string    `gorm:"size:200;not null" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	Posts       []Post    `json:"-"`
}
