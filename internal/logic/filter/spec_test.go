package filter

import (
	"testing"

	"swap-monitor-sol/internal/config"
	"swap-monitor-sol/internal/consts"
	"swap-monitor-sol/internal/logic/core"
	"swap-monitor-sol/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testTarget = types.Pubkey{7, 7, 7, 7}

func testFilterConfig() config.FilterConfig {
	return config.FilterConfig{
		Programs: []config.ProgramConfig{
			{Kind: "pump", ID: consts.PumpFunProgramStr},
			{Kind: "raydium", ID: consts.RaydiumV4ProgramStr},
		},
		ExcludedAccounts: []string{consts.JupiterV6ProgramStr},
		Target:           testTarget.String(),
		Commitment:       "confirmed",
	}
}

func TestNewFromConfig(t *testing.T) {
	spec, err := NewFromConfig(testFilterConfig())
	require.NoError(t, err)

	assert.Equal(t, testTarget, spec.Target())
	assert.Equal(t, CommitmentConfirmed, spec.Commitment())
	assert.Equal(t, consts.WSOLMint, spec.SentinelMint(), "未配置时默认 WSOL")
	assert.False(t, spec.IncludeFailed())
	assert.Equal(t, []types.Pubkey{consts.PumpFunProgram, consts.RaydiumV4Program}, spec.MonitoredPrograms())
	assert.Equal(t, []types.Pubkey{consts.JupiterV6Program}, spec.Excluded())

	p, ok := spec.ProgramFor(consts.RaydiumV4Program)
	assert.True(t, ok)
	assert.Equal(t, core.ProgramRaydium, p)

	_, ok = spec.ProgramFor(consts.JupiterV6Program)
	assert.False(t, ok)
}

func TestSpecIsImmutable(t *testing.T) {
	spec, err := NewFromConfig(testFilterConfig())
	require.NoError(t, err)

	programs := spec.MonitoredPrograms()
	programs[0] = consts.JupiterV6Program
	excluded := spec.Excluded()
	excluded[0] = consts.PumpFunProgram

	assert.Equal(t, consts.PumpFunProgram, spec.MonitoredPrograms()[0])
	assert.Equal(t, consts.JupiterV6Program, spec.Excluded()[0])
}

func TestNewFromConfigErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *config.FilterConfig)
	}{
		{"empty target", func(c *config.FilterConfig) { c.Target = "" }},
		{"bad target", func(c *config.FilterConfig) { c.Target = "0OIl" }},
		{"no programs", func(c *config.FilterConfig) { c.Programs = nil }},
		{"bad program id", func(c *config.FilterConfig) { c.Programs[0].ID = "abc" }},
		{"unknown kind", func(c *config.FilterConfig) { c.Programs[0].Kind = "orca" }},
		{"bad excluded", func(c *config.FilterConfig) { c.ExcludedAccounts = []string{"xyz"} }},
		{"excluded is monitored", func(c *config.FilterConfig) { c.ExcludedAccounts = []string{consts.PumpFunProgramStr} }},
		{"bad commitment", func(c *config.FilterConfig) { c.Commitment = "rooted" }},
		{"bad sentinel", func(c *config.FilterConfig) { c.SentinelMint = "So1" }},
		{"conflicting kinds", func(c *config.FilterConfig) {
			c.Programs = append(c.Programs, config.ProgramConfig{Kind: "raydium", ID: consts.PumpFunProgramStr})
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := testFilterConfig()
			tt.mutate(&c)
			_, err := NewFromConfig(c)
			assert.Error(t, err)
		})
	}
}

func TestNewDeduplicates(t *testing.T) {
	spec, err := New(Options{
		Programs: []ProgramEntry{
			{ID: consts.PumpFunProgram, Program: core.ProgramPump},
			{ID: consts.PumpFunProgram, Program: core.ProgramPump},
		},
		Excluded:   []types.Pubkey{consts.JupiterV6Program, consts.JupiterV6Program},
		Target:     testTarget,
		Commitment: CommitmentFinalized,
	})
	require.NoError(t, err)
	assert.Len(t, spec.MonitoredPrograms(), 1)
	assert.Len(t, spec.Excluded(), 1)
	assert.Equal(t, "finalized", spec.Commitment().String())
}

func TestParseCommitment(t *testing.T) {
	for in, want := range map[string]Commitment{
		"processed": CommitmentProcessed,
		"CONFIRMED": CommitmentConfirmed,
		"":          CommitmentConfirmed,
		"finalized": CommitmentFinalized,
	} {
		got, err := ParseCommitment(in)
		assert.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
}
