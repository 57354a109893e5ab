package dto

import "github.com/surenmigorskiy-ui/duo-backend/internal/ledger"

type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type JoinRequest struct {
	InviteCode string `json:"inviteCode"`
}

// JoinResponse carries a fresh token since the old one names the previous family.
type JoinResponse struct {
	Success  bool   `json:"success"`
	Message  string `json:"message"`
	FamilyID string `json:"familyId"`
	Token    string `json:"token"`
}

type BulkAddRequest struct {
	Transactions []ledger.Entry `json:"transactions"`
}

type BulkAddResponse struct {
	Success         bool   `json:"success"`
	Message         string `json:"message"`
	Added           int    `json:"added"`
	ImportTimestamp int64  `json:"importTimestamp"`
}

type RemoveResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Removed int    `json:"removed"`
	Year    int    `json:"year,omitempty"`
}
