package model

import "time"

// Role names stored in users.role. The set is fixed; admin accounts are
// provisioned out of band and cannot be self-registered.
const (
	RoleAdmin   = "admin"
	RoleTeacher = "teacher"
	RoleStudent = "student"
)

// User represents an application user record as stored in the `users`
// table. Handlers define separate response types with JSON tags; this
// struct mirrors columns only.
//
// Fields:
//  ID           – primary key identifier of the user.
//  Email        – unique email address, stored lower-cased.
//  PasswordHash – bcrypt hashed password.
//  Role         – one of admin, teacher, student.
//  Name         – display name.
//  Phone        – optional phone number (nullable).
//  LastLoginAt  – set each time a session credential is issued (nullable).
//  CreatedAt    – timestamp of creation.
//  UpdatedAt    – timestamp of last update.
type User struct {
	ID           uint64     // users.id
	Email        string     // users.email
	PasswordHash string     // users.password_hash
	Role         string     // users.role
	Name         string     // users.name
	Phone        *string    // users.phone (nullable)
	LastLoginAt  *time.Time // users.last_login_at (nullable)
	CreatedAt    time.Time  // users.created_at
	UpdatedAt    time.Time  // users.updated_at
}

// ValidRole reports whether s is one of the known role names.
func ValidRole(s string) bool {
	return s == RoleAdmin || s == RoleTeacher || s == RoleStudent
}
