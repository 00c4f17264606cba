package models

import (
	"time"
)

// ModerationWindow bounds how old a pending comment may be to stay in the queue.
const ModerationWindow = 24 * time.Hour

// Comment is a user comment on a movie. New comments are hidden until a
// moderator approves them; a rejected comment stays hidden for good.
type Comment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	MovieID   uint      `gorm:"not null;index" json:"-"`
	User      User      `gorm:"foreignKey:UserID" json:"user"`
	Movie     Movie     `gorm:"foreignKey:MovieID" json:"movie"`
	IsVisible bool      `gorm:"not null;default:false" json:"is_visible"`
	IsDeleted bool      `gorm:"not null;default:false" json:"is_deleted"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Public reports whether the comment may be shown on its movie page.
func (c *Comment) Public() bool {
	return c.IsVisible && !c.IsDeleted
}

// Pending reports whether the comment belongs in the moderation queue at now.
func (c *Comment) Pending(now time.Time) bool {
	return !c.IsVisible && !c.IsDeleted && !c.CreatedAt.Before(now.Add(-ModerationWindow))
}
