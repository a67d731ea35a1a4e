package models

import (
	"fmt"
	"strings"
	"time"
)

// Role represents the single role assigned to an account
type Role string

const (
	RoleStudent Role = "STUDENT"
	RoleTeacher Role = "TEACHER"
)

// ParseRole normalizes a stored role string into a Role.
// It uppercases the input and strips a legacy "ROLE_" prefix so values
// written by older deployments keep working.
func ParseRole(s string) (Role, error) {
	normalized := strings.ToUpper(strings.TrimSpace(s))
	normalized = strings.TrimPrefix(normalized, "ROLE_")

	switch Role(normalized) {
	case RoleStudent:
		return RoleStudent, nil
	case RoleTeacher:
		return RoleTeacher, nil
	}
	return "", fmt.Errorf("unknown role: %q", s)
}

// String returns the role as its canonical uppercase string
func (r Role) String() string {
	return string(r)
}

// UserStatus values for the status column
const (
	StatusDisabled = 0
	StatusEnabled  = 1
)

// User represents an account in the sys_user table
type User struct {
	ID           int64     `json:"id" db:"id"`
	Username     string    `json:"username" db:"username"`
	PasswordHash string    `json:"-" db:"password"` // bcrypt hash, never serialized
	Role         Role      `json:"role" db:"role"`
	RealName     string    `json:"realName" db:"real_name"`
	Status       int       `json:"status" db:"status"`
	CreatedAt    time.Time `json:"createTime" db:"create_time"`
	UpdatedAt    time.Time `json:"updateTime" db:"update_time"`
}

// TableName returns the table name for the User model
func (User) TableName() string {
	return "sys_user"
}

// NewUser creates a new User with timestamps set
func NewUser(username, passwordHash string, role Role, realName string) *User {
	now := time.Now()
	if realName == "" {
		realName = username
	}
	return &User{
		Username:     username,
		PasswordHash: passwordHash,
		Role:         role,
		RealName:     realName,
		Status:       StatusEnabled,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// IsEnabled returns true if the account may log in
func (u *User) IsEnabled() bool {
	return u.Status == StatusEnabled
}
