package models

import "time"

// Follow is a directed edge recording that a user wants an author's posts in
// their personal feed. The composite unique index makes duplicate edges
// impossible even under concurrent requests; self-follows are rejected in the
// service layer.
type Follow struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	FollowerID uint      `gorm:"not null;index;uniqueIndex:idx_follows_unique" json:"follower_id"`
	AuthorID   uint      `gorm:"not null;index;uniqueIndex:idx_follows_unique" json:"author_id"`
	CreatedAt  time.Time `json:"created_at"`
	Follower   User      `gorm:"foreignKey:FollowerID;constraint:OnDelete:CASCADE;" json:"-"`
	Author     User      `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE;" json:"-"`
}
