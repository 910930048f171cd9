// Package model defines the data structures used throughout the application.
// In Go, we use structs to represent our data — similar to classes in other languages,
// but without inheritance. Go favours composition over inheritance.
package model

import "time"

// Account roles. Every account holds exactly one role, assigned at creation.
// Students submit ideas and join projects; mentors get assigned to projects;
// admins can do everything mentors can.
const (
	RoleStudent = "student"
	RoleMentor  = "mentor"
	RoleAdmin   = "admin"
)

// User represents a registered account.
//
// WHY json:"-" ON PasswordHash?
// The password hash must never leave the server. The `json:"-"` tag tells
// encoding/json to skip the field entirely, so even if a handler encodes the
// whole struct by accident, the hash is not serialized. Defense in depth on
// top of handlers never selecting it.
//
// Email is stored lowercase and is UNIQUE in the database. It is immutable
// after creation — there is no update path for it anywhere in the codebase.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	IsVerified   bool      `json:"is_verified"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
