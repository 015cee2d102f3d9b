package models

import (
	"time"
)

const (
	RoleUser       = "USER"
	RoleConsultant = "CONSULTANT"
	RoleAdmin      = "ADMIN"
)

type User struct {
	Base
	Name                string     `json:"name" gorm:"size:255;not null;default:''"`
	Email               string     `json:"email" gorm:"size:255;uniqueIndex;not null"`
	Phone               string     `json:"phone" gorm:"size:32;default:''"`
	Role                string     `json:"role" gorm:"size:16;not null;default:'USER'"` // USER, CONSULTANT, ADMIN
	Password            string     `json:"-" gorm:"not null"`
	LastLogin           *time.Time `json:"last_login"`
	FailedLoginAttempts int        `json:"-" gorm:"default:0"`
	LastFailedLogin     *time.Time `json:"-"`
	BlockedUntil        *time.Time `json:"-"`
	SoftDelete
}

func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// IsBlocked reports whether the account is locked out at the given instant.
func (u User) IsBlocked(at time.Time) bool {
	return u.BlockedUntil != nil && u.BlockedUntil.After(at)
}

func ValidRole(role string) bool {
	switch role {
	case RoleUser, RoleConsultant, RoleAdmin:
		return true
	}
	return false
}
