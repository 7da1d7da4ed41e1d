package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const wsolMint = "So11111111111111111111111111111111111111112"

func TestTryPubkeyFromBase58_RoundTrip(t *testing.T) {
	p, err := TryPubkeyFromBase58(wsolMint)
	require.NoError(t, err)
	assert.Equal(t, wsolMint, p.String())
	assert.False(t, p.IsZero())
}

func TestTryPubkeyFromBase58_Invalid(t *testing.T) {
	cases := []string{
		"",
		"0OIl",         // 非 base58 字符
		"3yZe7d",       // 长度不足 32 字节
		wsolMint + "1", // 长度超出
	}
	for _, c := range cases {
		_, err := TryPubkeyFromBase58(c)
		assert.Error(t, err, "input=%q", c)
	}
}

func TestPubkeyFromBase58_Panics(t *testing.T) {
	assert.Panics(t, func() { PubkeyFromBase58("not-a-key") })
}

func TestPubkeyFromBytes(t *testing.T) {
	raw := make([]byte, 32)
	raw[31] = 7
	p, err := PubkeyFromBytes(raw)
	require.NoError(t, err)
	assert.Equal(t, byte(7), p[31])

	_, err = PubkeyFromBytes(raw[:31])
	assert.Error(t, err)
}

func TestSignatureFromBytes(t *testing.T) {
	raw := make([]byte, 64)
	raw[0] = 1
	s, err := SignatureFromBytes(raw)
	require.NoError(t, err)

	back, err := SignatureFromBase58(s.String())
	require.NoError(t, err)
	assert.Equal(t, s, back)

	_, err = SignatureFromBytes(raw[:63])
	assert.Error(t, err)
}
