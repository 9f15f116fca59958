package models

import "time"

// User is the per-user record. Language and PendingLink live here as the
// single source of truth; the file store additionally mirrors them into the
// legacy top-level maps for snapshot compatibility.
type User struct {
	ID          int64     `json:"id"`
	FirstName   string    `json:"first_name,omitempty"`
	Language    string    `json:"language,omitempty"`
	Banned      bool      `json:"banned,omitempty"`
	PendingLink string    `json:"pending_link,omitempty"`
	CreatedAt   time.Time `json:"created_at,omitempty"`
	UpdatedAt   time.Time `json:"updated_at,omitempty"`
}
