package models

import (
	"time"

	"github.com/shahidaboobacker1-abuu/Bagzo-project/pkg/enums"
	"github.com/shahidaboobacker1-abuu/Bagzo-project/pkg/types"
)

// User is a stored account. PasswordHash holds an argon2id encoding.
type User struct {
	ID           string     `gorm:"column:id;type:text;primaryKey"`
	Name         string     `gorm:"column:name;not null"`
	Email        string     `gorm:"column:email;type:text;not null;uniqueIndex"`
	Phone        *string    `gorm:"column:phone"`
	PasswordHash string     `gorm:"column:password_hash;not null"`
	Role         enums.Role `gorm:"column:role;type:text;not null;default:'user'"`
	IsAdmin      bool       `gorm:"column:is_admin;not null;default:false"`
	IsActive     bool       `gorm:"column:is_active;not null;default:true"`
	IsBlocked    bool       `gorm:"column:is_blocked;not null;default:false"`
	LastLoginAt  *time.Time `gorm:"column:last_login_at"`
	CreatedAt    time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

func (User) TableName() string { return "users" }

// ToIdentity returns the public view of the account.
func (u User) ToIdentity() types.Identity {
	identity := types.Identity{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
		IsAdmin:   u.IsAdmin,
		IsActive:  u.IsActive,
		IsBlocked: u.IsBlocked,
		CreatedAt: u.CreatedAt.UTC(),
	}
	if u.Phone != nil {
		identity.Phone = *u.Phone
	}
	return identity
}
