package models

import "time"

// UserRole is the closed set of roles a person can hold.
type UserRole string

const (
	RoleTeacher UserRole = "teacher"
	RoleStudent UserRole = "student"
)

// Valid reports whether r is one of the known roles.
func (r UserRole) Valid() bool {
	return r == RoleTeacher || r == RoleStudent
}

// User represents a person stored in the users table. Role never changes after sign-up.
type User struct {
	ID           string    `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Role         UserRole  `db:"role" json:"role"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
}

// UserSummary is the public projection of a person embedded in other resources.
type UserSummary struct {
	ID    string `db:"id" json:"id"`
	Name  string `db:"name" json:"name"`
	Email string `db:"email" json:"email"`
}

// Actor is the authenticated caller of a core operation.
type Actor struct {
	ID   string
	Role UserRole
}

func (a Actor) IsTeacher() bool { return a.Role == RoleTeacher }

func (a Actor) IsStudent() bool { return a.Role == RoleStudent }
