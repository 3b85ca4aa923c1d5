// Typed events emitted by every mutating Pool entry point, in call
// order (spec.md section 6: "Implementations MUST expose an event sink
// whose ordering matches operation ordering"). Adapted from the
// teacher's internal/notification package shape (a narrow Publish
// interface plus a Noop implementation for tests), generalized from one
// event type to the pool's full event set.
package pool

import "context"

// Event is the marker interface every pool event struct implements.
type Event interface {
	eventName() string
}

// EventSink receives pool events in operation order. Implementations
// MUST preserve that ordering (see internal/eventsink for the Noop and
// SNS implementations).
type EventSink interface {
	Emit(ctx context.Context, ev Event) error
}

type OpenPositionEvent struct {
	PoolID              uint64
	PositionID          uint64
	TickLower, TickUpper int32
}

func (OpenPositionEvent) eventName() string { return "open_position" }

type ClosePositionEvent struct {
	PoolID     uint64
	PositionID uint64
}

func (ClosePositionEvent) eventName() string { return "close_position" }

type AddLiquidityEvent struct {
	PoolID               uint64
	PositionID           uint64
	Liquidity            string
	AmountA, AmountB     uint64
}

func (AddLiquidityEvent) eventName() string { return "add_liquidity" }

type RemoveLiquidityEvent struct {
	PoolID           uint64
	PositionID       uint64
	Liquidity        string
	AmountA, AmountB uint64
}

func (RemoveLiquidityEvent) eventName() string { return "remove_liquidity" }

type SwapEvent struct {
	PoolID                  uint64
	A2B, ByAmountIn         bool
	AmountIn, AmountOut     uint64
	FeeAmount, ProtocolFee  uint64
	RefFee, GaugeFee        uint64
	AfterSqrtPrice          string
	AfterTickIndex          int32
	Steps                   int
}

func (SwapEvent) eventName() string { return "swap" }

type CollectProtocolFeeEvent struct {
	PoolID           uint64
	AmountA, AmountB uint64
}

func (CollectProtocolFeeEvent) eventName() string { return "collect_protocol_fee" }

type CollectPositionFeeEvent struct {
	PoolID           uint64
	PositionID       uint64
	AmountA, AmountB uint64
}

func (CollectPositionFeeEvent) eventName() string { return "collect_position_fee" }

type CollectRewardEvent struct {
	PoolID        uint64
	PositionID    uint64
	RewarderIndex int
	Amount        uint64
}

func (CollectRewardEvent) eventName() string { return "collect_reward" }

type CollectGaugeFeeEvent struct {
	PoolID           uint64
	AmountA, AmountB uint64
}

func (CollectGaugeFeeEvent) eventName() string { return "collect_gauge_fee" }

type UpdateFeeRateEvent struct {
	PoolID       uint64
	Old, New     uint64
}

func (UpdateFeeRateEvent) eventName() string { return "update_fee_rate" }

type UpdateUnstakedFeeRateEvent struct {
	PoolID        uint64
	IsDefault     bool
	NewRate       uint64
}

func (UpdateUnstakedFeeRateEvent) eventName() string { return "update_unstaked_fee_rate" }

type UpdateURLEvent struct {
	PoolID uint64
	URL    string
}

func (UpdateURLEvent) eventName() string { return "update_url" }

type PauseEvent struct{ PoolID uint64 }

func (PauseEvent) eventName() string { return "pause" }

type UnpauseEvent struct{ PoolID uint64 }

func (UnpauseEvent) eventName() string { return "unpause" }

type UpdateFeeGrowthEvent struct {
	PoolID              uint64
	FeeGrowthGlobalA    string
	FeeGrowthGlobalB    string
}

func (UpdateFeeGrowthEvent) eventName() string { return "update_fee_growth" }

type UpdateEmissionGrowthEvent struct {
	PoolID       uint64
	GrowthGlobal string
	Distributed  uint64
}

func (UpdateEmissionGrowthEvent) eventName() string { return "update_emission_growth" }

type UpdateStakedLiquidityEvent struct {
	PoolID    uint64
	NewStaked string
}

func (UpdateStakedLiquidityEvent) eventName() string { return "update_staked_liquidity" }

type RestoreStakedLiquidityEvent struct {
	PoolID    uint64
	NewStaked string
}

func (RestoreStakedLiquidityEvent) eventName() string { return "restore_staked_liquidity" }

type AddRewarderEvent struct {
	PoolID          uint64
	RewarderIndex   int
	RewardTokenType string
}

func (AddRewarderEvent) eventName() string { return "add_rewarder" }

type UpdateEmissionEvent struct {
	PoolID            uint64
	RewarderIndex     int
	EmissionPerSecond string
}

func (UpdateEmissionEvent) eventName() string { return "update_emission" }

type InitGaugeEvent struct {
	PoolID uint64
}

func (InitGaugeEvent) eventName() string { return "init_gauge" }

type SyncEmissionEvent struct {
	PoolID       uint64
	Rate         string
	Reserve      uint64
	PeriodFinish int64
}

func (SyncEmissionEvent) eventName() string { return "sync_emission" }
