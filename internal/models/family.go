package models

import "time"

// Family document fields written by the backend. Everything else in the
// document belongs to the frontend and is passed through untouched.
const (
	FieldTransactions        = "transactions"
	FieldInviteCode          = "inviteCode"
	FieldInviteCodeExpiresAt = "inviteCodeExpiresAt"
	FieldCreatedAt           = "createdAt"
)

// Invitation is the result of issuing a family invite code.
type Invitation struct {
	InviteLink string    `json:"inviteLink"`
	InviteCode string    `json:"inviteCode"`
	ExpiresAt  time.Time `json:"expiresAt"`
}

// FamilyInvite is what the join flow needs from a family document.
type FamilyInvite struct {
	FamilyID  string
	ExpiresAt time.Time
}
