package txadapter

import (
	"errors"
	"fmt"

	"swap-monitor-sol/internal/logic/core"
	"swap-monitor-sol/internal/types"

	pb "github.com/rpcpool/yellowstone-grpc/examples/golang/proto"
)

// buildFullAccountKeys 拼接 message.accountKeys 与 Address Lookup Table 中的 writable / readonly 地址。
// 只拷贝切片头，不校验长度：单个地址是否合法由 router 逐个判定。
func buildFullAccountKeys(accountKeys, loadedWritable, loadedReadonly [][]byte) [][]byte {
	total := len(accountKeys) + len(loadedWritable) + len(loadedReadonly)
	keys := make([][]byte, 0, total)
	keys = append(keys, accountKeys...)
	keys = append(keys, loadedWritable...)
	keys = append(keys, loadedReadonly...)
	return keys
}

// buildTokenBalances 转换 Pre/PostTokenBalances，UiTokenAmount 缺失时按 0 处理
func buildTokenBalances(list []*pb.TokenBalance) []core.TokenBalanceEntry {
	if len(list) == 0 {
		return nil
	}
	entries := make([]core.TokenBalanceEntry, 0, len(list))
	for _, tb := range list {
		if tb == nil {
			continue
		}
		entry := core.TokenBalanceEntry{
			AccountIndex: tb.AccountIndex,
			Owner:        tb.Owner,
			Mint:         tb.Mint,
			Amount:       "0",
		}
		if ui := tb.UiTokenAmount; ui != nil {
			entry.Amount = ui.Amount
			entry.UiAmount = ui.UiAmount
			entry.Decimals = ui.Decimals
		}
		entries = append(entries, entry)
	}
	return entries
}

// AdaptGrpcTx 将 gRPC 推送的交易转换为 core.Envelope。
// 校验失败返回 ErrVoteTx / ErrFailedTx 或 *core.ParseError；如 panic 会被 recover。
func AdaptGrpcTx(update *pb.SubscribeUpdateTransaction, includeFailed bool) (_ *core.Envelope, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &core.ParseError{Field: "transaction", Err: fmt.Errorf("AdaptGrpcTx panic: %v", r)}
		}
	}()

	if update == nil {
		return nil, &core.ParseError{Field: "transaction", Err: fmt.Errorf("nil update")}
	}
	tx := update.Transaction
	if err := ValidateGrpcTx(tx, includeFailed); err != nil {
		if errors.Is(err, ErrVoteTx) || errors.Is(err, ErrFailedTx) {
			return nil, err
		}
		return nil, &core.ParseError{Field: "transaction", Err: err}
	}

	sig, err := types.SignatureFromBytes(tx.Transaction.Signatures[0])
	if err != nil {
		return nil, &core.ParseError{Field: "signature", Err: err}
	}

	meta := tx.Meta
	return &core.Envelope{
		Slot:      update.Slot,
		Signature: sig,
		AccountKeys: buildFullAccountKeys(
			tx.Transaction.Message.AccountKeys,
			meta.LoadedWritableAddresses,
			meta.LoadedReadonlyAddresses,
		),
		Meta: &core.TransactionMeta{
			PreTokenBalances:  buildTokenBalances(meta.PreTokenBalances),
			PostTokenBalances: buildTokenBalances(meta.PostTokenBalances),
			PreBalances:       meta.PreBalances,
			PostBalances:      meta.PostBalances,
		},
	}, nil
}
