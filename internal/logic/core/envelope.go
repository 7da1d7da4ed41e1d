package core

import (
	"swap-monitor-sol/internal/types"
)

// TokenBalanceEntry 对应 gRPC TransactionStatusMeta 中的一条 Pre/PostTokenBalance。
// 字段保持推送时的原始形态（base58 字符串、十进制金额字符串），由各解码器按需解析，
// 这样单条异常数据只影响对应的解码调用，而不会连累整笔交易。
type TokenBalanceEntry struct {
	AccountIndex uint32  // token account 在 accountKeys 中的下标
	Owner        string  // token account 持有者（base58）
	Mint         string  // token mint（base58）
	Amount       string  // 原始最小单位金额（十进制字符串）
	UiAmount     float64 // 按 decimals 换算后的金额
	Decimals     uint32
}

// TransactionMeta 交易执行后的余额快照。
// PreBalances / PostBalances 与 Envelope.AccountKeys 下标一一对应（lamports）。
type TransactionMeta struct {
	PreTokenBalances  []TokenBalanceEntry
	PostTokenBalances []TokenBalanceEntry
	PreBalances       []uint64
	PostBalances      []uint64
}

// Envelope 是 feed 推送的一笔交易，处理完即丢弃，不跨迭代保留。
type Envelope struct {
	Slot      uint64
	Signature types.Signature

	// AccountKeys 依次为 message.accountKeys、ALT writable、ALT readonly，
	// 保留原始字节，由 router 负责解析。
	AccountKeys [][]byte
	Meta        *TransactionMeta
}

// Tx 是 router 解析完账户列表后交给解码器的只读视图。
// 解析失败的账户以 consts.InvalidAddress 占位，保证下标与余额数组对齐。
type Tx struct {
	Slot        uint64
	Signature   types.Signature
	AccountKeys []types.Pubkey
	Meta        *TransactionMeta
}

// IndexOf 返回账户在 AccountKeys 中第一次出现的位置，不存在返回 -1
func (tx *Tx) IndexOf(account types.Pubkey) int {
	for i, key := range tx.AccountKeys {
		if key == account {
			return i
		}
	}
	return -1
}

// EnvelopeStream 是一次订阅产生的惰性、不可重启的交易序列。
// Recv 阻塞直到下一笔交易到达；流结束返回 ErrEndOfStream，传输错误返回 *StreamError。
type EnvelopeStream interface {
	Recv() (*Envelope, error)
	Close() error
}
