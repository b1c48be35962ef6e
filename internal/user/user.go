package user

import "fmt"

// Role is the closed set of account roles.
type Role string

const (
	RoleAdmin   Role = "ADMIN"
	RoleTeacher Role = "TEACHER"
	RoleHOD     Role = "HOD"
	RoleStudent Role = "STUDENT"
)

// ParseRole validates a role string against the closed set.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleAdmin, RoleTeacher, RoleHOD, RoleStudent:
		return Role(s), nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}

// User is an account. The password hash is never serialized.
type User struct {
	ID           string `json:"id"`
	Username     string `json:"username"`
	PasswordHash string `json:"-"`
	Email        string `json:"email"`
	Role         Role   `json:"role"`
	RollNumber   string `json:"rollNumber,omitempty"`
	PhoneNumber  string `json:"phoneNumber,omitempty"`
}
