package common

import (
	"fmt"
	"strconv"

	"swap-monitor-sol/internal/logic/core"
	"swap-monitor-sol/internal/types"
)

// ParseMint 解析余额条目中的 mint 地址
func ParseMint(entry *core.TokenBalanceEntry, field string) (types.Pubkey, error) {
	mint, err := types.TryPubkeyFromBase58(entry.Mint)
	if err != nil {
		return types.Pubkey{}, &core.ParseError{Field: field + ".mint", Value: entry.Mint, Err: err}
	}
	return mint, nil
}

// ParseRawAmount 解析最小单位金额字符串，空串视为 0
func ParseRawAmount(entry *core.TokenBalanceEntry, field string) (uint64, error) {
	if entry.Amount == "" {
		return 0, nil
	}
	v, err := strconv.ParseUint(entry.Amount, 10, 64)
	if err != nil {
		return 0, &core.ParseError{Field: field + ".amount", Value: entry.Amount, Err: err}
	}
	return v, nil
}

// CheckedSub 返回 post - pre，下溢返回 *core.ArithmeticError
func CheckedSub(field string, pre, post uint64) (uint64, error) {
	if post < pre {
		return 0, &core.ArithmeticError{Field: field, Pre: pre, Post: post}
	}
	return post - pre, nil
}

// NativeDelta 计算账户 index 处 lamports 的增加量
func NativeDelta(meta *core.TransactionMeta, index int, field string) (uint64, error) {
	if index < 0 || index >= len(meta.PreBalances) || index >= len(meta.PostBalances) {
		return 0, &core.ParseError{
			Field: field,
			Value: strconv.Itoa(index),
			Err: fmt.Errorf("account index out of range: pre_balances=%d post_balances=%d",
				len(meta.PreBalances), len(meta.PostBalances)),
		}
	}
	return CheckedSub(field, meta.PreBalances[index], meta.PostBalances[index])
}
