package models

import "time"

// Role ids mirror the admissions panel role table. Role 3 accounts carry a
// one-shot 72 hour expiry set on first login.
const (
	RoleSuperAdmin = 1
	RoleAdmin      = 2
	RoleCounsellor = 3
	RoleViewer     = 4
)

type User struct {
	ID               string
	Email            string
	PasswordHash     []byte
	FirstName        string
	LastName         string
	RoleID           int
	PanelPermission  bool
	CanCreateUsers   bool
	AccountExpiresAt *time.Time
	AllowedIPs       *string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// FullName is denormalized into activity rows at write time so renaming a
// user does not rewrite history.
func (u User) FullName() string {
	if u.FirstName == "" {
		return u.LastName
	}
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

type Session struct {
	ID               string
	UserID           string
	DeviceID         string
	RefreshTokenHash []byte
	IPAddress        string
	UserAgent        string
	CreatedAt        time.Time
	LastSeenAt       time.Time
	ExpiresAt        time.Time
}

type PasswordReset struct {
	Email     string
	TokenHash []byte
	ExpiresAt time.Time
	CreatedAt time.Time
}
