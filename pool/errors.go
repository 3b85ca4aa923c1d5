// Error taxonomy for the pool core: a closed set of kinds, each with a
// stable numeric code, grouped the way the teacher groups
// ErrInvalidLiquidity/ErrInvalidPrice in uniswapv3/sqrt_price_math.go
// and ErrCircuitOpen in resilience/circuit_breaker.go — one var block,
// wrapped with %w so callers can errors.Is/errors.As against both the
// kind and any underlying sentinel (i128.ErrOverflow, u128 overflow).
package pool

import "fmt"

// ErrKind is one of the closed set of 33 error kinds spec.md section 7
// enumerates. Codes are iota-assigned and frozen once released; new
// kinds must only be appended.
type ErrKind int64

const (
	KindZeroAmount ErrKind = iota
	KindZeroLiquidity
	KindZeroOutputAmount
	KindInsufficientAmount
	KindInsufficientLiquidity
	KindInsufficientStakedLiquidity
	KindLiquidityAdditionOverflow
	KindAmountInOverflow
	KindAmountOutOverflow
	KindFeeAmountOverflow
	KindInvalidFeeRate
	KindInvalidRefFeeRate
	KindInvalidRefFeeAmount
	KindInvalidPriceLimit
	KindInvalidTickRange
	KindInvalidSyncEmissionTime
	KindInvalidGaugeCap
	KindPoolIdMismatch
	KindPartnerIdMismatch
	KindPartnerIdNotEmpty
	KindPositionPoolIdMismatch
	KindPositionIsStaked
	KindStakeAlreadyStaked
	KindUnstakeNotStaked
	KindPoolPaused
	KindPoolAlreadyPaused
	KindPoolNotPaused
	KindNextTickNotFound
	KindRewarderIndexNotFound
	KindGaugerIdNotFound
	KindLiquidityMismatch
	KindNotOwner
	KindInvalidPoolOrPartnerId
)

// Code returns the frozen numeric code for the kind.
func (k ErrKind) Code() int64 { return int64(k) }

var kindNames = map[ErrKind]string{
	KindZeroAmount:                   "zero_amount",
	KindZeroLiquidity:                "zero_liquidity",
	KindZeroOutputAmount:             "zero_output_amount",
	KindInsufficientAmount:           "insufficient_amount",
	KindInsufficientLiquidity:        "insufficient_liquidity",
	KindInsufficientStakedLiquidity:  "insufficient_staked_liquidity",
	KindLiquidityAdditionOverflow:    "liquidity_addition_overflow",
	KindAmountInOverflow:             "amount_in_overflow",
	KindAmountOutOverflow:            "amount_out_overflow",
	KindFeeAmountOverflow:            "fee_amount_overflow",
	KindInvalidFeeRate:               "invalid_fee_rate",
	KindInvalidRefFeeRate:            "invalid_ref_fee_rate",
	KindInvalidRefFeeAmount:          "invalid_ref_fee_amount",
	KindInvalidPriceLimit:            "invalid_price_limit",
	KindInvalidTickRange:             "invalid_tick_range",
	KindInvalidSyncEmissionTime:      "invalid_sync_emission_time",
	KindInvalidGaugeCap:              "invalid_gauge_cap",
	KindPoolIdMismatch:               "pool_id_mismatch",
	KindPartnerIdMismatch:            "partner_id_mismatch",
	KindPartnerIdNotEmpty:            "partner_id_not_empty",
	KindPositionPoolIdMismatch:       "position_pool_id_mismatch",
	KindPositionIsStaked:             "position_is_staked",
	KindStakeAlreadyStaked:           "stake_already_staked",
	KindUnstakeNotStaked:             "unstake_not_staked",
	KindPoolPaused:                   "pool_paused",
	KindPoolAlreadyPaused:            "pool_already_paused",
	KindPoolNotPaused:                "pool_not_paused",
	KindNextTickNotFound:             "next_tick_not_found",
	KindRewarderIndexNotFound:        "rewarder_index_not_found",
	KindGaugerIdNotFound:             "gauger_id_not_found",
	KindLiquidityMismatch:            "liquidity_mismatch",
	KindNotOwner:                     "not_owner",
	KindInvalidPoolOrPartnerId:       "invalid_pool_or_partner_id",
}

func (k ErrKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Error wraps a kind with an optional underlying cause and context
// fields, implementing Unwrap so errors.Is/errors.As reach both the
// kind and the wrapped cause.
type Error struct {
	Kind    ErrKind
	Cause   error
	Context map[string]any
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("pool: %s: %v", e.Kind, e.Cause)
	}
	return fmt.Sprintf("pool: %s", e.Kind)
}

func (e *Error) Unwrap() error { return e.Cause }

// Is lets errors.Is(err, SomeKind) work by comparing kinds directly,
// since ErrKind values aren't themselves errors.
func (e *Error) Is(target error) bool {
	other, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == other.Kind
}

// wrapErr constructs an *Error for kind, optionally wrapping cause.
func wrapErr(kind ErrKind, cause error) *Error {
	return &Error{Kind: kind, Cause: cause}
}

// newErr constructs a bare *Error for kind with no underlying cause.
func newErr(kind ErrKind) *Error {
	return &Error{Kind: kind}
}
