package models

import "time"

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Email        string    `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"not null" json:"-"`
	FullName     string    `gorm:"not null;default:''" json:"full_name"`
	Role         string    `gorm:"not null;default:user" json:"role"`
	IsActive     bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt    time.Time `gorm:"not null" json:"created_at"`
}

func (user User) IsAdmin() bool {
	return user.Role == RoleAdmin
}

type InvitedEmail struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	Email        string     `gorm:"uniqueIndex;not null" json:"email"`
	InvitedBy    *uint      `json:"invited_by"`
	UsedByUserID *uint      `json:"used_by_user_id"`
	UsedAt       *time.Time `json:"used_at"`
	CreatedAt    time.Time  `json:"created_at"`
}

func (invite InvitedEmail) IsUsed() bool {
	return invite.UsedByUserID != nil
}
