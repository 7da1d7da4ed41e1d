package grpc

import (
	"swap-monitor-sol/internal/logic/filter"
	"swap-monitor-sol/internal/types"

	pb "github.com/rpcpool/yellowstone-grpc/examples/golang/proto"
)

// transactionFilterName 订阅请求中交易过滤器的名称，服务端会在 SubscribeUpdate.Filters 中回传
const transactionFilterName = "swap_monitor"

func toCommitmentLevel(c filter.Commitment) pb.CommitmentLevel {
	switch c {
	case filter.CommitmentProcessed:
		return pb.CommitmentLevel_PROCESSED
	case filter.CommitmentFinalized:
		return pb.CommitmentLevel_FINALIZED
	default:
		return pb.CommitmentLevel_CONFIRMED
	}
}

func toBase58(keys []types.Pubkey) []string {
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, k.String())
	}
	return out
}

// buildSubscribeRequest 只订阅交易：包含任一被监控 program、且不包含被排除账户
func buildSubscribeRequest(spec *filter.Spec) *pb.SubscribeRequest {
	txFilter := &pb.SubscribeRequestFilterTransactions{
		Vote:           boolPtr(false),
		AccountInclude: toBase58(spec.MonitoredPrograms()),
		AccountExclude: toBase58(spec.Excluded()),
	}
	if !spec.IncludeFailed() {
		txFilter.Failed = boolPtr(false)
	}

	commitment := toCommitmentLevel(spec.Commitment())
	return &pb.SubscribeRequest{
		Transactions: map[string]*pb.SubscribeRequestFilterTransactions{
			transactionFilterName: txFilter,
		},
		Commitment: &commitment,
	}
}

func boolPtr(b bool) *bool {
	return &b
}
