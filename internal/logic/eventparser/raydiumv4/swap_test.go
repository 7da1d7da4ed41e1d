package raydiumv4

import (
	"testing"

	"swap-monitor-sol/internal/consts"
	"swap-monitor-sol/internal/logic/core"
	"swap-monitor-sol/internal/logic/eventparser/eventtest"
	"swap-monitor-sol/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode(t *testing.T) {
	decoder := NewDecoder(consts.WSOLMint)
	for _, c := range eventtest.LoadCases(t, "testdata/swap.yaml") {
		c := c
		t.Run(c.Name, func(t *testing.T) {
			event, err := decoder.Decode(c.Tx(t), c.TargetKey(t))
			c.CheckResult(t, core.ProgramRaydium, event, err)
		})
	}
}

// sentinel mint 来自配置，可以替换成任意合成地址
func TestDecodeCustomSentinel(t *testing.T) {
	target := types.Pubkey{1}
	sentinel := types.Pubkey{2}
	token := types.Pubkey{3}

	tx := &core.Tx{
		Slot: 9,
		Meta: &core.TransactionMeta{
			PreTokenBalances: []core.TokenBalanceEntry{
				{Owner: target.String(), Mint: token.String(), Amount: "10"},
				{Owner: target.String(), Mint: sentinel.String(), Amount: "100"},
			},
			PostTokenBalances: []core.TokenBalanceEntry{
				{Owner: target.String(), Mint: token.String(), Amount: "30"},
				{Owner: target.String(), Mint: sentinel.String(), Amount: "175"},
			},
		},
	}

	event, err := NewDecoder(sentinel).Decode(tx, target)
	require.NoError(t, err)
	assert.Equal(t, core.DirectionBuy, event.Direction)
	assert.Equal(t, float64(75), event.Amount)
	assert.Equal(t, token, event.Mint)
	assert.Equal(t, uint64(9), event.Slot)

	// 用默认 WSOL 作为 sentinel 时，两条腿都被当作 token 腿
	event, err = NewDecoder(consts.WSOLMint).Decode(tx, target)
	require.NoError(t, err)
	assert.Equal(t, sentinel, event.Mint)
}
