package domain

import (
	"time"
)

type Role string

const (
	RoleStaff        Role = "店员"
	RoleStoreManager Role = "店长"
	RoleAdmin        Role = "管理员"
)

type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	FullName     string    `json:"fullName"`
	Email        string    `json:"email"`
	Role         Role      `json:"role"`
	StoreID      *string   `json:"storeID"` // 管理员不属于任何门店，此时为 nil
	IsActive     bool      `json:"isActive"`
	CreatedAt    time.Time `json:"createdAt"`
	Version      int32     `json:"-"`
}
