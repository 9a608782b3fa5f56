// Package models defines the core data structures for users and tasks.
package models

import (
	"time"

	"github.com/google/uuid"
)

// User represents an application user with credentials.
type User struct {
	// ID is the unique identifier for the user.
	ID uuid.UUID `json:"id"`
	// Email is the unique, lower-cased address the user signed up with.
	Email string `json:"email"`
	// PasswordHash is the bcrypt hash of the user's password.
	// Never serialized into responses.
	PasswordHash string `json:"-"`
	// CreatedAt is when the account was created.
	CreatedAt time.Time `json:"created_at"`
	// UpdatedAt is when the account was last modified.
	UpdatedAt time.Time `json:"updated_at"`
}

// Task is a user-owned todo item.
type Task struct {
	// ID is the unique identifier for the task.
	ID uuid.UUID `json:"id"`
	// Title is the short task summary, 1-255 characters after trimming.
	Title string `json:"title"`
	// Description holds optional free-form detail, up to 2000 characters.
	Description *string `json:"description"`
	// IsCompleted reports whether the task has been marked done.
	IsCompleted bool `json:"is_completed"`
	// UserID identifies the owning user. Set at creation, never reassigned.
	UserID uuid.UUID `json:"user_id"`
	// CreatedAt is when the task was created.
	CreatedAt time.Time `json:"created_at"`
	// UpdatedAt is when the task was last modified.
	UpdatedAt time.Time `json:"updated_at"`
}

// TaskUpdate carries a partial update for a task. Nil fields are
// left untouched by the update.
type TaskUpdate struct {
	Title       *string
	Description *string
}
