package models

import "time"

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// User represents an account that can log in. Name is the login handle.
type User struct {
	ID           string    `gorm:"primaryKey;size:50"`
	Name         string    `gorm:"uniqueIndex;size:100;not null"`
	Role         string    `gorm:"size:20;not null;default:user"`
	PasswordHash string    `gorm:"size:200"`
	CreatedAt    time.Time
}

func (User) TableName() string { return "users" }
