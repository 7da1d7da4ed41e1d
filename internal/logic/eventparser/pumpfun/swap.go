package pumpfun

import (
	"fmt"

	"swap-monitor-sol/internal/logic/core"
	"swap-monitor-sol/internal/logic/eventparser/common"
	"swap-monitor-sol/internal/types"
)

// Decoder 解析 Pump bonding curve 交易。
//
// target 的 token 增加视为 Buy，金额取 bonding curve 账户的 lamports 增量；
// 否则视为 Sell，金额取 token UI 数量的减少量。
// bonding curve 取 pre_token_balances 中最后一个非 target 的 owner，
// 存在多个对手方时结果取决于条目顺序。
type Decoder struct{}

func (Decoder) Program() core.Program { return core.ProgramPump }

func (d Decoder) Decode(tx *core.Tx, target types.Pubkey) (*core.SwapEvent, error) {
	meta := tx.Meta
	if meta == nil {
		return nil, &core.ParseError{Field: "meta", Err: fmt.Errorf("missing transaction meta")}
	}
	targetStr := target.String()

	var (
		mintStr      string
		preAmount    float64
		postAmount   float64
		bondingCurve string
		found        bool
	)

	for i := range meta.PreTokenBalances {
		entry := &meta.PreTokenBalances[i]
		if entry.Owner == targetStr {
			mintStr = entry.Mint
			preAmount = entry.UiAmount
			found = true
		} else {
			bondingCurve = entry.Owner
		}
	}
	for i := range meta.PostTokenBalances {
		entry := &meta.PostTokenBalances[i]
		if entry.Owner == targetStr {
			mintStr = entry.Mint
			postAmount = entry.UiAmount
			found = true
		}
	}
	if !found {
		return nil, core.ErrNoTargetBalance
	}

	mint, err := common.ParseMint(&core.TokenBalanceEntry{Mint: mintStr}, "token_balances")
	if err != nil {
		return nil, err
	}

	if postAmount <= preAmount {
		return common.NewSwapEvent(tx, core.ProgramPump, target, mint, core.DirectionSell, preAmount-postAmount), nil
	}

	if bondingCurve == "" {
		return nil, core.ErrBondingCurveNotFound
	}
	curve, err := types.TryPubkeyFromBase58(bondingCurve)
	if err != nil {
		return nil, &core.ParseError{Field: "pre_token_balances.owner", Value: bondingCurve, Err: err}
	}
	index := tx.IndexOf(curve)
	if index < 0 {
		return nil, fmt.Errorf("%w: %s", core.ErrBondingCurveNotFound, bondingCurve)
	}
	lamports, err := common.NativeDelta(meta, index, "bonding_curve")
	if err != nil {
		return nil, err
	}
	return common.NewSwapEvent(tx, core.ProgramPump, target, mint, core.DirectionBuy, float64(lamports)), nil
}
