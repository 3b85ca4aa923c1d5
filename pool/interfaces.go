// External collaborator interfaces (spec.md section 6): the reward
// vault, the partner/referral object, and the global configuration
// object. All three are out of scope to implement for real — the pool
// only depends on these narrow interfaces, exactly the boundary shape
// spec.md's "Out of scope" section describes.
package pool

import (
	"context"

	"github.com/luck-28/FullSail-CLMM-SC/internal/u128"
)

// Balance is a plain token-amount handle, standing in for whatever
// balance/coin type the host ledger uses.
type Balance struct {
	TokenType string
	Amount    uint64
}

// Vault is the out-of-scope reward-vault collaborator.
type Vault interface {
	WithdrawReward(ctx context.Context, tokenType string, amount uint64) (Balance, error)
}

// Partner is the out-of-scope partner/referral collaborator. ID
// identifies which partner a FlashSwapReceipt's referral fee is
// attributed to, so a receipt opened against one partner can't be
// repaid through another partner's repay path (spec.md section 4.2:
// "repay_* checks pool-id, partner-id").
type Partner interface {
	ID() string
	ReceiveRefFee(ctx context.Context, tokenType string, balance Balance) error
	CurrentRefFeeRate(now int64) uint64
}

// Config is the out-of-scope GlobalConfig collaborator: fee-rate
// ceilings, role checks, and the package-version gate.
type Config interface {
	ProtocolFeeRate() uint64
	ProtocolFeeRateDenom() uint64
	DefaultUnstakedFeeRate() uint64
	UnstakedLiquidityFeeRateDenom() uint64
	MaxFeeRate() uint64
	MaxUnstakedFeeRate() uint64
	// MaxGaugeEmissionRate bounds emission_per_second a gauge-capability
	// caller may install via sync_emission/update_emission, guarding the
	// Q64.64 growth-global accumulator against a single re-rate pushing
	// it toward overflow territory over the pool's lifetime.
	MaxGaugeEmissionRate() u128.U128
	CheckRole(ctx context.Context, role string) error
	PackageVersion() uint64
}

// Role names consulted via Config.CheckRole.
const (
	RolePoolManager      = "pool_manager"
	RoleProtocolFeeClaim = "protocol_fee_claim"
	RoleGaugeManager     = "gauge_manager"
)
