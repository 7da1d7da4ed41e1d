package sink

import (
	"encoding/binary"
	"fmt"

	"swap-monitor-sol/internal/logic/core"
	"swap-monitor-sol/internal/types"

	"github.com/near/borsh-go"
)

// EventTypeSwap 消息前 4 字节（小端）的事件类型
const EventTypeSwap uint32 = 1

// swapEventWire 是 SwapEvent 的 borsh 布局，字段顺序即线上顺序，不可随意调整
type swapEventWire struct {
	Direction uint8
	Program   uint8
	Amount    float64
	Mint      types.Pubkey
	Slot      uint64
	Signature types.Signature
	Trader    types.Pubkey
}

// EncodeSwapEvent 编码为 [4 字节事件类型][borsh 数据]
func EncodeSwapEvent(event *core.SwapEvent) ([]byte, error) {
	payload, err := borsh.Serialize(swapEventWire{
		Direction: uint8(event.Direction),
		Program:   uint8(event.Program),
		Amount:    event.Amount,
		Mint:      event.Mint,
		Slot:      event.Slot,
		Signature: event.Signature,
		Trader:    event.Trader,
	})
	if err != nil {
		return nil, fmt.Errorf("EncodeSwapEvent: %w", err)
	}

	buf := make([]byte, 4, 4+len(payload))
	binary.LittleEndian.PutUint32(buf, EventTypeSwap)
	return append(buf, payload...), nil
}

func DecodeSwapEvent(data []byte) (*core.SwapEvent, error) {
	if len(data) < 4 {
		return nil, fmt.Errorf("DecodeSwapEvent: message too short: %d", len(data))
	}
	if t := binary.LittleEndian.Uint32(data[:4]); t != EventTypeSwap {
		return nil, fmt.Errorf("DecodeSwapEvent: unexpected event type %d", t)
	}
	var wire swapEventWire
	if err := borsh.Deserialize(&wire, data[4:]); err != nil {
		return nil, fmt.Errorf("DecodeSwapEvent: %w", err)
	}
	return &core.SwapEvent{
		Direction: core.Direction(wire.Direction),
		Amount:    wire.Amount,
		Mint:      wire.Mint,
		Program:   core.Program(wire.Program),
		Slot:      wire.Slot,
		Signature: wire.Signature,
		Trader:    wire.Trader,
	}, nil
}
