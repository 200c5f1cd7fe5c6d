package domain

import "time"

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

type User struct {
	ID           uint64    `json:"id" gorm:"primaryKey;autoIncrement"`
	Username     string    `json:"username" gorm:"size:150;not null;uniqueIndex"`
	Email        string    `json:"email" gorm:"size:254;not null;uniqueIndex"`
	PasswordHash string    `json:"-" gorm:"size:100;not null"`
	Role         Role      `json:"role" gorm:"type:enum('user','admin');default:'user'"`
	CreatedAt    time.Time `json:"createdAt" gorm:"autoCreateTime"`
}

func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Identity is the authenticated caller of a request.
type Identity struct {
	UserID  uint64
	IsAdmin bool
}
