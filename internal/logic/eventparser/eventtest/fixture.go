// Package eventtest 加载 testdata 中的交易样例，供解码器与 router 测试复用
package eventtest

import (
	"errors"
	"os"
	"testing"

	"swap-monitor-sol/internal/logic/core"
	"swap-monitor-sol/internal/types"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

type TokenBalance struct {
	AccountIndex uint32  `yaml:"account_index"`
	Owner        string  `yaml:"owner"`
	Mint         string  `yaml:"mint"`
	Amount       string  `yaml:"amount"`
	UiAmount     float64 `yaml:"ui_amount"`
	Decimals     uint32  `yaml:"decimals"`
}

type Want struct {
	Direction string  `yaml:"direction"`
	Amount    float64 `yaml:"amount"`
	Mint      string  `yaml:"mint"`
}

type Case struct {
	Name              string         `yaml:"name"`
	Target            string         `yaml:"target"`
	Slot              uint64         `yaml:"slot"`
	Signature         string         `yaml:"signature"` // 可选，base58
	AccountKeys       []string       `yaml:"account_keys"`
	PreBalances       []uint64       `yaml:"pre_balances"`
	PostBalances      []uint64       `yaml:"post_balances"`
	PreTokenBalances  []TokenBalance `yaml:"pre_token_balances"`
	PostTokenBalances []TokenBalance `yaml:"post_token_balances"`
	Want              *Want          `yaml:"want"`
	WantErr           string         `yaml:"want_err"`
}

func LoadCases(t testing.TB, path string) []Case {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var cases []Case
	require.NoError(t, yaml.Unmarshal(data, &cases))
	require.NotEmpty(t, cases, "no cases in %s", path)
	return cases
}

func (c *Case) TargetKey(t testing.TB) types.Pubkey {
	t.Helper()
	target, err := types.TryPubkeyFromBase58(c.Target)
	require.NoError(t, err)
	return target
}

func (c *Case) meta() *core.TransactionMeta {
	return &core.TransactionMeta{
		PreTokenBalances:  convertBalances(c.PreTokenBalances),
		PostTokenBalances: convertBalances(c.PostTokenBalances),
		PreBalances:       c.PreBalances,
		PostBalances:      c.PostBalances,
	}
}

func (c *Case) SignatureKey(t testing.TB) types.Signature {
	t.Helper()
	if c.Signature == "" {
		return types.Signature{}
	}
	sig, err := types.SignatureFromBase58(c.Signature)
	require.NoError(t, err)
	return sig
}

// Tx 构造解码器输入，account_keys 必须全部合法
func (c *Case) Tx(t testing.TB) *core.Tx {
	t.Helper()
	keys, err := types.TryPubkeysFromBase58(c.AccountKeys)
	require.NoError(t, err)
	return &core.Tx{Slot: c.Slot, Signature: c.SignatureKey(t), AccountKeys: keys, Meta: c.meta()}
}

// Envelope 构造 router 输入，无法解析的 account_keys 保留原始字符串字节
func (c *Case) Envelope(t testing.TB) *core.Envelope {
	t.Helper()
	keys := make([][]byte, 0, len(c.AccountKeys))
	for _, s := range c.AccountKeys {
		if pk, err := types.TryPubkeyFromBase58(s); err == nil {
			keys = append(keys, pk[:])
		} else {
			keys = append(keys, []byte(s))
		}
	}
	return &core.Envelope{Slot: c.Slot, Signature: c.SignatureKey(t), AccountKeys: keys, Meta: c.meta()}
}

func convertBalances(list []TokenBalance) []core.TokenBalanceEntry {
	out := make([]core.TokenBalanceEntry, 0, len(list))
	for _, tb := range list {
		out = append(out, core.TokenBalanceEntry{
			AccountIndex: tb.AccountIndex,
			Owner:        tb.Owner,
			Mint:         tb.Mint,
			Amount:       tb.Amount,
			UiAmount:     tb.UiAmount,
			Decimals:     tb.Decimals,
		})
	}
	return out
}

// CheckResult 按 want / want_err 校验解码结果
func (c *Case) CheckResult(t testing.TB, program core.Program, event *core.SwapEvent, err error) {
	t.Helper()
	if c.WantErr != "" {
		require.Error(t, err)
		require.Nil(t, event)
		switch c.WantErr {
		case "no_target":
			require.True(t, errors.Is(err, core.ErrNoTargetBalance), "got %v", err)
		case "bonding_curve_not_found":
			require.True(t, errors.Is(err, core.ErrBondingCurveNotFound), "got %v", err)
		default:
			require.Equal(t, c.WantErr, core.ErrorKind(err), "got %v", err)
		}
		return
	}

	require.NoError(t, err)
	require.NotNil(t, event)
	require.NotNil(t, c.Want, "case %q has neither want nor want_err", c.Name)
	require.Equal(t, c.Want.Direction, event.Direction.String())
	require.Equal(t, c.Want.Amount, event.Amount)
	require.Equal(t, c.Want.Mint, event.Mint.String())
	require.Equal(t, program, event.Program)
	require.Equal(t, c.Target, event.Trader.String())
	require.Equal(t, c.Slot, event.Slot)
	require.Equal(t, c.SignatureKey(t), event.Signature)
}
