package txadapter

import (
	"errors"
	"fmt"

	"swap-monitor-sol/internal/types"

	pb "github.com/rpcpool/yellowstone-grpc/examples/golang/proto"
)

var (
	ErrVoteTx   = errors.New("vote transaction skipped")
	ErrFailedTx = errors.New("failed transaction skipped")
)

// ValidateGrpcTx 结构性校验，includeFailed 为 false 时执行失败的交易也会被拒绝
func ValidateGrpcTx(tx *pb.SubscribeUpdateTransactionInfo, includeFailed bool) error {
	if tx == nil {
		return fmt.Errorf("nil transaction info")
	}
	if tx.Transaction == nil {
		return fmt.Errorf("missing Transaction field")
	}
	if tx.Transaction.Message == nil {
		return fmt.Errorf("missing Message field in transaction")
	}
	if len(tx.Transaction.Signatures) == 0 {
		return fmt.Errorf("missing transaction signature")
	}
	if len(tx.Transaction.Signatures[0]) != types.SignatureLength {
		return fmt.Errorf("invalid transaction signature length: %d", len(tx.Transaction.Signatures[0]))
	}
	if tx.IsVote {
		return ErrVoteTx
	}
	if tx.Meta == nil {
		return fmt.Errorf("missing transaction meta data")
	}
	if tx.Meta.Err != nil && !includeFailed {
		return ErrFailedTx
	}
	return nil
}
