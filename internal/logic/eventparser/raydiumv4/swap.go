package raydiumv4

import (
	"fmt"

	"swap-monitor-sol/internal/logic/core"
	"swap-monitor-sol/internal/logic/eventparser/common"
	"swap-monitor-sol/internal/types"
)

// Decoder 解析 Raydium 池子交易，两条腿都是 target 的 token account：
// 一条持有 sentinel mint（WSOL），另一条持有被交易的 token。金额使用最小单位。
//
//   - mint_post > mint_pre：Buy，amount = sol_post - sol_pre
//   - 否则：Sell，amount = mint_pre - mint_post（相等时为 amount=0 的 Sell）
type Decoder struct {
	sentinelMint string
}

func NewDecoder(sentinelMint types.Pubkey) Decoder {
	return Decoder{sentinelMint: sentinelMint.String()}
}

func (Decoder) Program() core.Program { return core.ProgramRaydium }

// legAmounts target 在一侧快照（pre 或 post）中的两条腿
type legAmounts struct {
	mintStr string
	mint    uint64
	sol     uint64
	hasMint bool
}

func (d Decoder) scan(entries []core.TokenBalanceEntry, target, field string) (legAmounts, error) {
	var legs legAmounts
	for i := range entries {
		entry := &entries[i]
		if entry.Owner != target {
			continue
		}
		amount, err := common.ParseRawAmount(entry, fmt.Sprintf("%s[%d]", field, i))
		if err != nil {
			return legs, err
		}
		if entry.Mint == d.sentinelMint {
			legs.sol = amount
		} else {
			legs.mintStr = entry.Mint
			legs.mint = amount
			legs.hasMint = true
		}
	}
	return legs, nil
}

func (d Decoder) Decode(tx *core.Tx, target types.Pubkey) (*core.SwapEvent, error) {
	meta := tx.Meta
	if meta == nil {
		return nil, &core.ParseError{Field: "meta", Err: fmt.Errorf("missing transaction meta")}
	}
	targetStr := target.String()

	pre, err := d.scan(meta.PreTokenBalances, targetStr, "pre_token_balances")
	if err != nil {
		return nil, err
	}
	post, err := d.scan(meta.PostTokenBalances, targetStr, "post_token_balances")
	if err != nil {
		return nil, err
	}
	if !pre.hasMint && !post.hasMint {
		return nil, core.ErrNoTargetBalance
	}

	mintStr := post.mintStr
	if !post.hasMint {
		mintStr = pre.mintStr
	}
	mint, err := common.ParseMint(&core.TokenBalanceEntry{Mint: mintStr}, "token_balances")
	if err != nil {
		return nil, err
	}

	if post.mint > pre.mint {
		lamports, err := common.CheckedSub("wsol", pre.sol, post.sol)
		if err != nil {
			return nil, err
		}
		return common.NewSwapEvent(tx, core.ProgramRaydium, target, mint, core.DirectionBuy, float64(lamports)), nil
	}
	return common.NewSwapEvent(tx, core.ProgramRaydium, target, mint, core.DirectionSell, float64(pre.mint-post.mint)), nil
}
