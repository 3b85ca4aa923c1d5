package pool

import (
	"context"

	"github.com/luck-28/FullSail-CLMM-SC/internal/receipts"
	"github.com/luck-28/FullSail-CLMM-SC/internal/u128"
)

// FlashSwapReceipt is the hot-potato handle spec.md section 4.2's flash
// semantics describe: it carries pay_amount and every fee component,
// and must be consumed by the matching RepayFlashSwap{,WithPartner}
// call before the transaction closes. PoolID and PartnerID pin the
// receipt to the pool and (if any) partner that generated it, per the
// data model's `pool_id, a2b, partner_id?, ...` entry.
type FlashSwapReceipt struct {
	PoolID      uint64
	PartnerID   string
	A2B         bool
	PayAmount   uint64
	FeeAmount   uint64
	ProtocolFee uint64
	RefFee      uint64
	GaugeFee    uint64
	AmountOut   uint64
	token       *receipts.Token
}

// FlashSwap runs the swap algorithm and returns the output balance plus
// a receipt the caller must repay in the same transaction (spec.md
// section 4.2: "flash_swap* returns the output balance plus a
// FlashSwapReceipt").
func (p *Pool) FlashSwap(
	ctx context.Context,
	a2b, byAmountIn bool,
	sqrtPriceLimit u128.U128,
	amount uint64,
	refFeeRate uint64,
	now int64,
) (*FlashSwapReceipt, error) {
	ctx, end := p.startSpan(ctx, "pool.FlashSwap")
	var err error
	defer func() { end(err) }()

	if err = p.swapPreconditions(a2b, amount, sqrtPriceLimit, refFeeRate); err != nil {
		return nil, err
	}

	var result SwapResult
	result, err = p.runSwap(a2b, byAmountIn, sqrtPriceLimit, amount, refFeeRate, now, false)
	if err != nil {
		return nil, err
	}
	if result.AmountOut == 0 {
		err = newErr(KindZeroOutputAmount)
		return nil, err
	}

	payAmount, ok := checkedAddU64(result.AmountIn, result.FeeAmount)
	if !ok {
		return nil, newErr(KindAmountInOverflow)
	}

	// Flash semantics defer the reserve credit to repayment; the
	// output side leaves the pool immediately as the returned balance.
	if a2b {
		p.ReserveB -= result.AmountOut
	} else {
		p.ReserveA -= result.AmountOut
	}
	p.ProtocolFeeA, p.ProtocolFeeB = creditFee(a2b, p.ProtocolFeeA, p.ProtocolFeeB, result.ProtocolFee)
	p.GaugeFeeA, p.GaugeFeeB = creditFee(a2b, p.GaugeFeeA, p.GaugeFeeB, result.GaugeFee)

	token := p.receipts.Issue(receipts.FlashSwap)
	p.emit(ctx, SwapEvent{
		PoolID: p.ID, A2B: a2b, ByAmountIn: byAmountIn,
		AmountIn: result.AmountIn, AmountOut: result.AmountOut,
		FeeAmount: result.FeeAmount, ProtocolFee: result.ProtocolFee,
		RefFee: result.RefFee, GaugeFee: result.GaugeFee,
		AfterSqrtPrice: p.CurrentSqrtPrice.String(), AfterTickIndex: p.CurrentTickIndex,
		Steps: result.Steps,
	})

	// A receipt only carries a partner id when it collected a referral
	// fee; that ties it to whichever repay path can actually settle
	// that fee (RepayFlashSwapWithPartner).
	var partnerID string
	if result.RefFee > 0 && p.Partner != nil {
		partnerID = p.Partner.ID()
	}

	return &FlashSwapReceipt{
		PoolID: p.ID, PartnerID: partnerID,
		A2B: a2b, PayAmount: payAmount, FeeAmount: result.FeeAmount,
		ProtocolFee: result.ProtocolFee, RefFee: result.RefFee, GaugeFee: result.GaugeFee,
		AmountOut: result.AmountOut, token: token,
	}, nil
}

// RepayFlashSwap checks paidAmount equals PayAmount on the input side
// and otherAmount is zero, joins paidAmount to the reserve, and
// requires refFeeAmount == 0 (non-partner variant, spec.md section
// 4.2).
func (p *Pool) RepayFlashSwap(r *FlashSwapReceipt, paidAmount, otherAmount uint64) error {
	if r.PoolID != p.ID {
		return newErr(KindPoolIdMismatch)
	}
	// A receipt that collected a referral fee carries a non-empty
	// partner id and must be repaid through RepayFlashSwapWithPartner,
	// which is the only path that can settle that fee; ref_fee_amount
	// is non-zero exactly when partner_id is set, so this one check
	// covers the "non-partner variant requires ref_fee_amount == 0"
	// rule too.
	if r.PartnerID != "" {
		return newErr(KindPartnerIdNotEmpty)
	}
	// spec.md S6: a repayment that doesn't land exactly on (PayAmount, 0)
	// fails ZeroAmount on whichever side is short, not LiquidityMismatch —
	// the receipt tracks a single-sided debt, not a liquidity figure.
	if paidAmount != r.PayAmount || otherAmount != 0 {
		return newErr(KindZeroAmount)
	}
	p.receipts.Consume(r.token)
	if r.A2B {
		p.ReserveA += paidAmount
	} else {
		p.ReserveB += paidAmount
	}
	return nil
}

// RepayFlashSwapWithPartner is the with-partner variant: it splits
// RefFee off to the partner object and joins the remainder to the
// reserve.
func (p *Pool) RepayFlashSwapWithPartner(ctx context.Context, r *FlashSwapReceipt, paidAmount, otherAmount uint64) error {
	if paidAmount != r.PayAmount || otherAmount != 0 {
		return newErr(KindZeroAmount)
	}
	// spec.md section 4.2: "repay_* checks pool-id, partner-id" — the
	// with-partner path additionally requires the receipt actually
	// carries a partner id and that it names the pool's current
	// partner, folded into one kind since either half failing means
	// the same thing: this receipt can't be settled here.
	if r.PoolID != p.ID || r.PartnerID == "" || p.Partner == nil || p.Partner.ID() != r.PartnerID {
		return newErr(KindInvalidPoolOrPartnerId)
	}
	p.receipts.Consume(r.token)

	tokenType := "A"
	if !r.A2B {
		tokenType = "B"
	}
	if r.RefFee > 0 {
		if err := p.Partner.ReceiveRefFee(ctx, tokenType, Balance{TokenType: tokenType, Amount: r.RefFee}); err != nil {
			return wrapErr(KindPartnerIdMismatch, err)
		}
	}

	remainder := paidAmount - r.RefFee
	if r.A2B {
		p.ReserveA += remainder
	} else {
		p.ReserveB += remainder
	}
	return nil
}
