package txadapter

import (
	"bytes"
	"testing"

	"swap-monitor-sol/internal/logic/core"

	pb "github.com/rpcpool/yellowstone-grpc/examples/golang/proto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func key(b byte) []byte {
	return bytes.Repeat([]byte{b}, 32)
}

func newTestUpdate() *pb.SubscribeUpdateTransaction {
	return &pb.SubscribeUpdateTransaction{
		Slot: 321,
		Transaction: &pb.SubscribeUpdateTransactionInfo{
			Signature: bytes.Repeat([]byte{9}, 64),
			Transaction: &pb.Transaction{
				Signatures: [][]byte{bytes.Repeat([]byte{9}, 64)},
				Message: &pb.Message{
					AccountKeys: [][]byte{key(1), key(2)},
				},
			},
			Meta: &pb.TransactionStatusMeta{
				PreBalances:             []uint64{100, 200, 300, 400},
				PostBalances:            []uint64{90, 210, 300, 400},
				LoadedWritableAddresses: [][]byte{key(3)},
				LoadedReadonlyAddresses: [][]byte{key(4)},
				PreTokenBalances: []*pb.TokenBalance{
					{AccountIndex: 2, Mint: "mintA", Owner: "ownerA"},
				},
				PostTokenBalances: []*pb.TokenBalance{
					{
						AccountIndex: 2, Mint: "mintA", Owner: "ownerA",
						UiTokenAmount: &pb.UiTokenAmount{UiAmount: 1.5, Decimals: 6, Amount: "1500000"},
					},
				},
			},
		},
	}
}

func TestAdaptGrpcTx(t *testing.T) {
	env, err := AdaptGrpcTx(newTestUpdate(), false)
	require.NoError(t, err)

	assert.Equal(t, uint64(321), env.Slot)
	assert.Equal(t, byte(9), env.Signature[63])

	// 静态账户在前，随后是 ALT writable、readonly
	require.Len(t, env.AccountKeys, 4)
	assert.Equal(t, key(1), env.AccountKeys[0])
	assert.Equal(t, key(3), env.AccountKeys[2])
	assert.Equal(t, key(4), env.AccountKeys[3])

	require.Len(t, env.Meta.PreTokenBalances, 1)
	pre := env.Meta.PreTokenBalances[0]
	assert.Equal(t, "0", pre.Amount, "缺失 UiTokenAmount 视为 0")
	assert.Equal(t, float64(0), pre.UiAmount)

	post := env.Meta.PostTokenBalances[0]
	assert.Equal(t, "1500000", post.Amount)
	assert.Equal(t, 1.5, post.UiAmount)
	assert.Equal(t, uint32(6), post.Decimals)
	assert.Equal(t, uint32(2), post.AccountIndex)
	assert.Equal(t, []uint64{90, 210, 300, 400}, env.Meta.PostBalances)
}

func TestAdaptGrpcTxKeepsMalformedKeys(t *testing.T) {
	update := newTestUpdate()
	update.Transaction.Transaction.Message.AccountKeys[1] = []byte{1, 2, 3}

	env, err := AdaptGrpcTx(update, false)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3}, env.AccountKeys[1])
}

func TestAdaptGrpcTxRejects(t *testing.T) {
	t.Run("nil update", func(t *testing.T) {
		_, err := AdaptGrpcTx(nil, false)
		var parseErr *core.ParseError
		assert.ErrorAs(t, err, &parseErr)
	})

	t.Run("missing meta", func(t *testing.T) {
		update := newTestUpdate()
		update.Transaction.Meta = nil
		_, err := AdaptGrpcTx(update, false)
		var parseErr *core.ParseError
		assert.ErrorAs(t, err, &parseErr)
	})

	t.Run("short signature", func(t *testing.T) {
		update := newTestUpdate()
		update.Transaction.Transaction.Signatures[0] = []byte{1}
		_, err := AdaptGrpcTx(update, false)
		var parseErr *core.ParseError
		assert.ErrorAs(t, err, &parseErr)
	})

	t.Run("vote", func(t *testing.T) {
		update := newTestUpdate()
		update.Transaction.IsVote = true
		_, err := AdaptGrpcTx(update, false)
		assert.ErrorIs(t, err, ErrVoteTx)
	})
}

func TestAdaptGrpcTxFailed(t *testing.T) {
	update := newTestUpdate()
	update.Transaction.Meta.Err = &pb.TransactionError{Err: []byte{1}}

	_, err := AdaptGrpcTx(update, false)
	assert.ErrorIs(t, err, ErrFailedTx)

	env, err := AdaptGrpcTx(update, true)
	require.NoError(t, err)
	assert.NotNil(t, env)
}
