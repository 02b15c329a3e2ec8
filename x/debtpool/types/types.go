package types

import (
	"time"

	"cosmossdk.io/math"
)

// Module name and store key
const (
	ModuleName = "debtpool"
	StoreKey   = ModuleName
)

// Instrument types
const (
	InstrumentDiscountBill    = "discount-bill"
	InstrumentCommercialPaper = "commercial-paper"
	InstrumentDebtNote        = "debt-note"
)

// PoolStatus represents the lifecycle status of a pool
type PoolStatus int

const (
	PoolStatusActive            PoolStatus = iota // Subscription window open or pending lock
	PoolStatusLocked                              // Subscriptions closed, awaiting settlement
	PoolStatusSettled                             // Principal delivered to issuer
	PoolStatusMatured                             // Principal plus yield returned to pool
	PoolStatusDefaulted                           // Reserved, no transition enters this state
	PoolStatusEmergencyShutdown                   // Terminal, reachable from any non-terminal state
)

// String returns the string representation of PoolStatus
func (s PoolStatus) String() string {
	switch s {
	case PoolStatusActive:
		return "active"
	case PoolStatusLocked:
		return "locked"
	case PoolStatusSettled:
		return "settled"
	case PoolStatusMatured:
		return "matured"
	case PoolStatusDefaulted:
		return "defaulted"
	case PoolStatusEmergencyShutdown:
		return "emergency_shutdown"
	default:
		return "unknown"
	}
}

// IsTerminal returns true if no further lifecycle transition is possible
func (s PoolStatus) IsTerminal() bool {
	return s == PoolStatusMatured || s == PoolStatusEmergencyShutdown
}

// InstrumentTerms holds the immutable terms of a debt instrument.
// Terms are fixed at pool creation and never modified.
type InstrumentTerms struct {
	InstrumentType string `json:"instrument_type"`
	DocHash        string `json:"doc_hash"` // Content hash of legal documentation
	Denom          string `json:"denom"`    // Reference asset denomination
	RateBps        int64  `json:"rate_bps"` // Yield rate in basis points
	Discounted     bool   `json:"discounted"`
	EpochStart     int64  `json:"epoch_start"`
	EpochEnd       int64  `json:"epoch_end"`
	MaturityDate   int64  `json:"maturity_date"`

	MinInvestment math.Int `json:"min_investment"`
}

// Validate checks the structural validity of instrument terms.
// Time-window ordering against the current clock is the registry's concern.
func (t InstrumentTerms) Validate() error {
	switch t.InstrumentType {
	case InstrumentDiscountBill, InstrumentCommercialPaper, InstrumentDebtNote:
	default:
		return ErrInvalidParameter.Wrapf("unknown instrument type %q", t.InstrumentType)
	}
	if t.DocHash == "" {
		return ErrInvalidParameter.Wrap("empty document hash")
	}
	if t.Denom == "" {
		return ErrInvalidParameter.Wrap("empty asset denom")
	}
	if t.RateBps < 0 || t.RateBps > BpsScale {
		return ErrInvalidParameter.Wrapf("rate %d bps out of range", t.RateBps)
	}
	if t.EpochEnd <= t.EpochStart {
		return ErrInvalidParameter.Wrap("epoch end not after epoch start")
	}
	if t.MaturityDate <= t.EpochEnd {
		return ErrInvalidParameter.Wrap("maturity not after epoch end")
	}
	if t.MinInvestment.IsNil() || t.MinInvestment.IsNegative() {
		return ErrInvalidParameter.Wrap("invalid minimum investment")
	}
	return nil
}

// Pool is the share/asset ledger for one instrument
type Pool struct {
	PoolID string          `json:"pool_id"`
	Issuer string          `json:"issuer"`
	Terms  InstrumentTerms `json:"terms"`
	Status PoolStatus      `json:"status"`

	TotalAssets math.Int `json:"total_assets"`
	TotalShares math.Int `json:"total_shares"`

	CreatedAt int64 `json:"created_at"`
	UpdatedAt int64 `json:"updated_at"`
}

// NewPool creates an Active pool with zero totals
func NewPool(poolID, issuer string, terms InstrumentTerms, now time.Time) *Pool {
	return &Pool{
		PoolID:      poolID,
		Issuer:      issuer,
		Terms:       terms,
		Status:      PoolStatusActive,
		TotalAssets: math.ZeroInt(),
		TotalShares: math.ZeroInt(),
		CreatedAt:   now.Unix(),
		UpdatedAt:   now.Unix(),
	}
}

// SharesForAssets converts an asset amount to shares at the current ratio.
// The first depositor establishes a 1:1 basis; the TotalShares zero check
// also guards the TotalAssets division.
func (p *Pool) SharesForAssets(assets math.Int) math.Int {
	if p.TotalShares.IsZero() {
		return assets
	}
	return assets.Mul(p.TotalShares).Quo(p.TotalAssets)
}

// AssetsForShares converts a share amount to assets at the current ratio
func (p *Pool) AssetsForShares(shares math.Int) math.Int {
	if p.TotalShares.IsZero() {
		return shares
	}
	return shares.Mul(p.TotalAssets).Quo(p.TotalShares)
}

// InWindow reports whether the subscription window is open at the given time
func (p *Pool) InWindow(now int64) bool {
	return now >= p.Terms.EpochStart && now <= p.Terms.EpochEnd
}

// Position records one investor's stake in a pool
type Position struct {
	PoolID         string   `json:"pool_id"`
	Investor       string   `json:"investor"`
	Shares         math.Int `json:"shares"`
	InvestedAssets math.Int `json:"invested_assets"`
	UpdatedAt      int64    `json:"updated_at"`
}

// NewPosition creates an empty position
func NewPosition(poolID, investor string) *Position {
	return &Position{
		PoolID:         poolID,
		Investor:       investor,
		Shares:         math.ZeroInt(),
		InvestedAssets: math.ZeroInt(),
	}
}

// WithdrawAllowance is a pre-approved share allowance letting a spender
// withdraw on behalf of the owner. Decremented by shares consumed.
type WithdrawAllowance struct {
	PoolID    string   `json:"pool_id"`
	Owner     string   `json:"owner"`
	Spender   string   `json:"spender"`
	Shares    math.Int `json:"shares"`
	UpdatedAt int64    `json:"updated_at"`
}
