package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	RoleClient     = "CLIENT"
	RoleCuisinier  = "CUISINIER"
	RoleLivreur    = "LIVREUR"
	RoleAdmin      = "ADMIN"
	RoleSuperAdmin = "SUPER_ADMIN"
)

// StaffRoles are the roles assignable through the admin staff endpoints.
var StaffRoles = []string{RoleCuisinier, RoleLivreur, RoleAdmin}

type User struct {
	gorm.Model
	Name             string     `json:"name"`
	Email            string     `json:"email" gorm:"uniqueIndex;size:191"`
	Phone            string     `json:"phone"`
	Address          string     `json:"address"`
	Password         string     `json:"-"`
	Role             string     `json:"role" gorm:"size:20;default:CLIENT"`
	ResetToken       *string    `json:"-"`
	ResetTokenExpiry *time.Time `json:"-"`
}

type LoginData struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// IsStaff reports whether the user may act on orders that are not their own.
func (u *User) IsStaff() bool {
	switch u.Role {
	case RoleCuisinier, RoleLivreur, RoleAdmin, RoleSuperAdmin:
		return true
	}
	return false
}

// IsAdminTier reports whether the user may set arbitrary order statuses
// and access admin resources.
func (u *User) IsAdminTier() bool {
	return u.Role == RoleAdmin || u.Role == RoleSuperAdmin
}
