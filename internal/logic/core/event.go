package core

import (
	"fmt"

	"swap-monitor-sol/internal/types"
)

type Direction uint8

const (
	DirectionBuy  Direction = iota + 1 // 1
	DirectionSell                      // 2
)

func (d Direction) String() string {
	switch d {
	case DirectionBuy:
		return "buy"
	case DirectionSell:
		return "sell"
	default:
		return "unknown"
	}
}

// Program 表示解码器种类（与链上 program id 解耦，id 由配置决定）
type Program uint8

const (
	ProgramPump    Program = iota + 1 // 1
	ProgramRaydium                    // 2
)

var ProgramNames = []string{
	"unknown", // 0 (保留)
	"pump",    // 1
	"raydium", // 2
}

func (p Program) String() string {
	if int(p) >= 1 && int(p) < len(ProgramNames) {
		return ProgramNames[p]
	}
	return ProgramNames[0]
}

// ParseProgram 按名称解析解码器种类，用于配置
func ParseProgram(name string) (Program, error) {
	for i := 1; i < len(ProgramNames); i++ {
		if ProgramNames[i] == name {
			return Program(i), nil
		}
	}
	return 0, fmt.Errorf("unknown program kind %q", name)
}

// SwapEvent 从余额差推断出的一次交易行为。
//
// Amount 的单位随协议与方向而不同：
//   - Pump Buy：bonding curve 的 lamports 变化量
//   - Pump Sell：token 的 UI 数量
//   - Raydium Buy：WSOL 最小单位变化量；Raydium Sell：token 最小单位变化量
type SwapEvent struct {
	Direction Direction
	Amount    float64
	Mint      types.Pubkey
	Program   Program
	Slot      uint64
	Signature types.Signature
	Trader    types.Pubkey // 被监控的签名账户
}

func (e *SwapEvent) String() string {
	return fmt.Sprintf("%s %s amount=%v mint=%s slot=%d tx=%s",
		e.Program, e.Direction, e.Amount, e.Mint, e.Slot, e.Signature)
}
