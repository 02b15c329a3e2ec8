package types

import (
	"crypto/sha256"
	"encoding/hex"
)

// Module name and store key
const (
	ModuleName = "issuance"
	StoreKey   = ModuleName
)

// PoolRecord binds a registered pool to its issuer and instrument hash.
// Registry entries are only ever added, never removed.
type PoolRecord struct {
	PoolID    string `json:"pool_id"`
	Issuer    string `json:"issuer"`
	DocHash   string `json:"doc_hash"`
	Salt      string `json:"salt"`
	CreatedAt int64  `json:"created_at"`
}

// Roles holds the access-control state: a single admin plus an operator
// set. The admin manages operators and runs emergency shutdowns; operators
// drive routine lifecycle calls.
type Roles struct {
	Admin     string   `json:"admin"`
	Operators []string `json:"operators"`
}

// IsOperator reports whether addr is in the operator set
func (r *Roles) IsOperator(addr string) bool {
	for _, op := range r.Operators {
		if op == addr {
			return true
		}
	}
	return false
}

// DerivePoolID deterministically derives a pool identifier from the
// instrument document hash and a salt. The same (hash, salt) pair always
// yields the same identifier.
func DerivePoolID(docHash, salt string) string {
	sum := sha256.Sum256([]byte(docHash + ":" + salt))
	return "pool-" + hex.EncodeToString(sum[:8])
}
