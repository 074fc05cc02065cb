// Package domain contains core domain types for the enrollment bot.
package domain

import (
	"strings"
	"time"
)

// Role determines which commands a user may run.
type Role string

// Possible user roles. Role is fixed at registration time.
const (
	RoleStudent Role = "student"
	RoleAdmin   Role = "admin"
)

// User is a registered person, student or administrator.
type User struct {
	ID         string
	Name       string
	NationalID string
	Email      string
	Role       Role
	CareerID   string // empty until a career is assigned; write-once
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// HasCareer reports whether a career has already been bound to the user.
func (u *User) HasCareer() bool {
	return u.CareerID != ""
}

// ValidEmail reports whether s is acceptable as an email address.
// The bar is deliberately low: the source system only ever required
// the presence of an @.
func ValidEmail(s string) bool {
	s = strings.TrimSpace(s)
	return len(s) >= 3 && strings.Contains(s, "@")
}

// ValidNationalID reports whether s is a digits-only national id.
func ValidNationalID(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
