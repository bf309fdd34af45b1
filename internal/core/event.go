package core

import "time"

// ChangeOp names a repository mutation.
type ChangeOp string

const (
	OpAdded    ChangeOp = "added"
	OpUpdated  ChangeOp = "updated"
	OpDeleted  ChangeOp = "deleted"
	OpImported ChangeOp = "imported"
)

// ChangeEvent describes a committed repository mutation.
type ChangeEvent struct {
	Op            ChangeOp  `json:"op"`
	TransactionID string    `json:"transaction_id,omitempty"`
	Count         int       `json:"count"`
	Version       uint64    `json:"version"`
	Timestamp     time.Time `json:"timestamp"`
}
