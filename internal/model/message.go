package model

import (
	"time"

	"github.com/google/uuid"
)

type Inbound struct {
	SenderID string
	Text     string
}

type Outgoing struct {
	To   string
	Text string
}

type WithdrawalRequest struct {
	RequestID   uuid.UUID `json:"request_id"`
	UserID      string    `json:"user_id"`
	Amount      int64     `json:"amount"`
	Bank        string    `json:"bank"`
	Name        string    `json:"name"`
	Number      string    `json:"number"`
	RequestedAt time.Time `json:"requested_at"`
}
