package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPartitionHashBytes(t *testing.T) {
	var key [32]byte
	key[7], key[15], key[19], key[27] = 1, 2, 3, 0x0b

	assert.Equal(t, uint32(0), PartitionHashBytes(key[:], 0))
	assert.Equal(t, uint32(0), PartitionHashBytes(key[:], 1))
	assert.Equal(t, uint32(0), PartitionHashBytes(key[:10], 4), "短输入固定落在 0 分区")

	// 快速路径取 b[27] 的低位
	assert.Equal(t, uint32(0x0b&3), PartitionHashBytes(key[:], 4))
	assert.Equal(t, uint32(0x0b&7), PartitionHashBytes(key[:], 8))

	hash := uint32(1)<<24 | uint32(2)<<16 | uint32(3)<<8 | uint32(0x0b)
	assert.Equal(t, hash%5, PartitionHashBytes(key[:], 5))
	for _, mod := range []uint32{3, 5, 7, 12} {
		assert.Less(t, PartitionHashBytes(key[:], mod), mod)
	}
}
