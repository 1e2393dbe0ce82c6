package domain

import (
	"strings"
	"time"
)

// Role is the coarse permission level of an account.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// NormalizeRole maps free-form input to a Role. Only the exact value
// "ADMIN", in any case, grants admin. Anything else, including padded or
// empty input, is a plain user.
func NormalizeRole(raw string) Role {
	if strings.EqualFold(raw, string(RoleAdmin)) {
		return RoleAdmin
	}
	return RoleUser
}

type User struct {
	ID           string
	Username     string // unique, case-sensitive
	Email        string // unique
	PasswordHash string // argon2id PHC string (or legacy bcrypt)
	Role         Role
	CreatedAt    time.Time
}
