package models

import "time"

// Role distinguishes regular community members from administrators.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// User is a registered community member. New accounts start unapproved and
// cannot log in until an admin flips Approved.
type User struct {
	ID           int    `json:"id"`
	Username     string `json:"username"`
	PasswordHash string `json:"passwordHash"`
	SHProfileURL string `json:"shProfileUrl"`
	Role         Role   `json:"role"`
	Approved     bool   `json:"approved"`
}

// PublicUser is the outbound representation of a user (no password hash).
type PublicUser struct {
	ID           int    `json:"id"`
	Username     string `json:"username"`
	SHProfileURL string `json:"shProfileUrl"`
	Role         Role   `json:"role"`
	Approved     bool   `json:"approved"`
}

func (u User) Public() PublicUser {
	return PublicUser{
		ID: u.ID, Username: u.Username, SHProfileURL: u.SHProfileURL,
		Role: u.Role, Approved: u.Approved,
	}
}

// DeletionRequestStatus tracks whether an admin has acted on a request.
type DeletionRequestStatus string

const (
	DeletionPending  DeletionRequestStatus = "pending"
	DeletionResolved DeletionRequestStatus = "resolved"
)

// DeletionRequest is a user's request to have their own account removed.
// It is resolved when an admin deletes the user.
type DeletionRequest struct {
	ID          int                   `json:"id"`
	UserID      int                   `json:"userId"`
	Username    string                `json:"username"`
	RequestDate time.Time             `json:"requestDate"`
	Reason      string                `json:"reason"`
	Status      DeletionRequestStatus `json:"status"`
}
