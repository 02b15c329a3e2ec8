package types

import (
	"time"

	"cosmossdk.io/math"
)

// Module name and store key
const (
	ModuleName = "custody"
	StoreKey   = ModuleName
)

// EscrowRecord holds the custody state for one pool. A record is created
// at most once per pool; IsSettled and IsMatured are one-way flags, reset
// only by an emergency return that also zeroes the amount.
type EscrowRecord struct {
	PoolID    string   `json:"pool_id"`
	Denom     string   `json:"denom"`
	Amount    math.Int `json:"amount"`
	IsSettled bool     `json:"is_settled"`
	IsMatured bool     `json:"is_matured"`
	CreatedAt int64    `json:"created_at"`
	UpdatedAt int64    `json:"updated_at"`
}

// NewEscrowRecord creates an unsettled escrow record
func NewEscrowRecord(poolID, denom string, amount math.Int, now time.Time) *EscrowRecord {
	return &EscrowRecord{
		PoolID:    poolID,
		Denom:     denom,
		Amount:    amount,
		IsSettled: false,
		IsMatured: false,
		CreatedAt: now.Unix(),
		UpdatedAt: now.Unix(),
	}
}
