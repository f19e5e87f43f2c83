package model

import "time"

// UserStatus is the verification state of a user account
type UserStatus int

const (
	UserUnverified UserStatus = 0
	UserVerified   UserStatus = 1
	UserSuspended  UserStatus = 63
)

func (s UserStatus) String() string {
	switch s {
	case UserUnverified:
		return "unverified"
	case UserVerified:
		return "verified"
	case UserSuspended:
		return "suspended"
	default:
		return "unknown"
	}
}

// User represents a platform account
type User struct {
	ID        int64      `gorm:"column:id;primaryKey;autoIncrement"`
	Email     string     `gorm:"column:email"`
	Password  string     `gorm:"column:password"`
	Fullname  string     `gorm:"column:fullname"`
	Status    UserStatus `gorm:"column:status"`
	CreatedAt time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

func (User) TableName() string {
	return "users"
}
