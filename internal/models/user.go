package models

import "time"

// Role is the server-assigned permission level of an account
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// User is the learner or administrator profile returned by the API
type User struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Role        Role      `json:"role"`
	Avatar      string    `json:"avatar,omitempty"`
	Locale      string    `json:"locale,omitempty"`
	Gender      string    `json:"gender,omitempty"`
	Birthdate   string    `json:"birthdate,omitempty"`
	Bio         string    `json:"bio,omitempty"`
	Location    string    `json:"location,omitempty"`
	Streak      int       `json:"streak"`
	LastCheckIn string    `json:"lastCheckIn,omitempty"`
	CreatedAt   time.Time `json:"createdAt,omitempty"`
}

// IsAdmin reports whether the user holds the admin role
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// HasRole reports whether the user's role is one of roles
func (u *User) HasRole(roles ...Role) bool {
	if u == nil {
		return false
	}
	for _, role := range roles {
		if u.Role == role {
			return true
		}
	}
	return false
}

// ProfileUpdate carries the editable fields of the profile form
type ProfileUpdate struct {
	Name      string `json:"name"`
	Avatar    string `json:"avatar,omitempty"`
	Locale    string `json:"locale,omitempty"`
	Gender    string `json:"gender,omitempty"`
	Birthdate string `json:"birthdate,omitempty"`
	Bio       string `json:"bio,omitempty"`
	Location  string `json:"location,omitempty"`
}

// PasswordChange is the change-password form
type PasswordChange struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
	ConfirmPassword string `json:"confirmPassword"`
}

// UserInput is what the admin user form submits
type UserInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Role     Role   `json:"role"`
	Password string `json:"password,omitempty"`
}

// CheckInResult is returned by the daily check-in call
type CheckInResult struct {
	Streak      int    `json:"streak"`
	LastCheckIn string `json:"lastCheckIn"`
}
