package consts

import "swap-monitor-sol/internal/types"

// Base58 地址常量（可读性高，适合配置与日志使用）
// 这里只作为配置缺省值与测试样例，运行时一律以 filter.Spec 中的配置为准。
const (
	// DEX: PumpFun（bonding curve）
	PumpFunProgramStr = "6EF8rrecthR5Dkzon8Nwu78hRvfCKubJ14M5uBEwF6P"

	// DEX: Raydium AMM V4
	RaydiumV4ProgramStr = "675kPX9MHTjS2zt1qfr1NYHuzeLXfQM9H24wFSUt1Mp8"

	// Jupiter V6 聚合器，经聚合器路由的交易默认排除
	JupiterV6ProgramStr = "JUP6LkbZbjS1jKKwapdHNy74zcZ3tLUZoi5QNyVTaV4"

	// 原生 SOL 的 SPL 包装形式（sentinel mint）
	WSOLMintStr = "So11111111111111111111111111111111111111112"
)

var (
	// InvalidAddress 表示无法解析的地址（全 0xFF），不会与任何合法账户相等。
	// 注意不能用零值：全 0 是 System Program。
	InvalidAddress = types.Pubkey{
		0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF,
		0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF,
		0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF,
		0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF,
	}

	PumpFunProgram   = types.PubkeyFromBase58(PumpFunProgramStr)
	RaydiumV4Program = types.PubkeyFromBase58(RaydiumV4ProgramStr)
	JupiterV6Program = types.PubkeyFromBase58(JupiterV6ProgramStr)
	WSOLMint         = types.PubkeyFromBase58(WSOLMintStr)
)
