// Package models contains data structures for the application's domain models.
package models

import (
	"time"
)

// Role is a user's privilege level.
type Role string

// Roles in ascending order of privilege.
const (
	RoleRegular   Role = "regular"
	RoleModerator Role = "moderator"
	RoleAdmin     Role = "admin"
)

var roleRank = map[Role]int{
	RoleRegular:   1,
	RoleModerator: 2,
	RoleAdmin:     3,
}

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	_, ok := roleRank[r]
	return ok
}

// User represents a registered account.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Username  string    `gorm:"uniqueIndex;not null" json:"username"`
	Email     string    `gorm:"uniqueIndex;not null" json:"email"`
	Password  string    `gorm:"not null" json:"-"`
	Role      Role      `gorm:"type:varchar(16);not null;default:regular" json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Comments  []Comment `gorm:"foreignKey:UserID" json:"comments,omitempty"`
}

// HasRole reports whether user holds at least the required role. A nil user
// holds no role.
func HasRole(user *User, required Role) bool {
	if user == nil {
		return false
	}
	have, ok := roleRank[user.Role]
	if !ok {
		return false
	}
	return have >= roleRank[required]
}

// CanModerate reports whether user may act on the moderation queue.
func CanModerate(user *User) bool {
	return HasRole(user, RoleModerator)
}

// CanAdminister reports whether user may manage other accounts.
func CanAdminister(user *User) bool {
	return HasRole(user, RoleAdmin)
}
