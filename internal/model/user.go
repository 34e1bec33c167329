package model

import (
	"time"

	"gorm.io/gorm"
)

// Role gates what a user may see and mutate.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleManager  Role = "manager"
	RoleEmployee Role = "employee"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleEmployee:
		return true
	}
	return false
}

func (r Role) IsAdmin() bool    { return r == RoleAdmin }
func (r Role) IsManager() bool  { return r == RoleManager }
func (r Role) IsEmployee() bool { return r == RoleEmployee }

// User represents an authenticated user in the system.
type User struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Username     string    `json:"username" gorm:"uniqueIndex;size:150;not null"`
	Email        string    `json:"email" gorm:"uniqueIndex;size:255;not null"`
	FirstName    string    `json:"first_name" gorm:"size:150"`
	LastName     string    `json:"last_name" gorm:"size:150"`
	PasswordHash string    `json:"-" gorm:"size:255;not null"` // Never expose in JSON
	IsSuperuser  bool      `json:"is_superuser" gorm:"default:false"`
	Role         Role      `json:"role" gorm:"size:25;not null;index"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// BeforeSave fills in the default role when none was set explicitly.
func (u *User) BeforeSave(tx *gorm.DB) error {
	if u.Role == "" {
		u.Role = DefaultRole(u.IsSuperuser)
	}
	return nil
}

// DefaultRole returns the role assigned to a user created without one.
func DefaultRole(superuser bool) Role {
	if superuser {
		return RoleAdmin
	}
	return RoleManager
}

// FullName joins first and last name.
func (u *User) FullName() string {
	switch {
	case u.FirstName == "":
		return u.LastName
	case u.LastName == "":
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}
