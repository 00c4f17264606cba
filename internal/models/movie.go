package models

import "time"

// Movie is the persisted anchor for comments and saved lists. Title is the
// metadata source key; the numeric ID never leaves the store.
type Movie struct {
	ID        uint      `gorm:"primaryKey" json:"-"`
	Title     string    `gorm:"uniqueIndex;size:512;not null" json:"title"`
	CreatedAt time.Time `json:"created_at"`
	Comments  []Comment `gorm:"foreignKey:MovieID" json:"comments,omitempty"`
}

// UserMovie is one entry of a user's saved list.
type UserMovie struct {
	UserID    uint      `gorm:"primaryKey" json:"user_id"`
	MovieID   uint      `gorm:"primaryKey" json:"movie_id"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName pins the join table name.
func (UserMovie) TableName() string {
	return "user_movies"
}
