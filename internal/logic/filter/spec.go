package filter

import (
	"errors"
	"fmt"
	"strings"

	"swap-monitor-sol/internal/config"
	"swap-monitor-sol/internal/consts"
	"swap-monitor-sol/internal/logic/core"
	"swap-monitor-sol/internal/types"
)

type Commitment uint8

const (
	CommitmentProcessed Commitment = iota
	CommitmentConfirmed
	CommitmentFinalized
)

func (c Commitment) String() string {
	switch c {
	case CommitmentProcessed:
		return "processed"
	case CommitmentConfirmed:
		return "confirmed"
	case CommitmentFinalized:
		return "finalized"
	default:
		return "unknown"
	}
}

func ParseCommitment(s string) (Commitment, error) {
	switch strings.ToLower(s) {
	case "processed":
		return CommitmentProcessed, nil
	case "", "confirmed":
		return CommitmentConfirmed, nil
	case "finalized":
		return CommitmentFinalized, nil
	default:
		return 0, fmt.Errorf("unknown commitment %q", s)
	}
}

// Spec 订阅与路由共用的过滤条件，构造后只读，可在 goroutine 间共享
type Spec struct {
	programs      map[types.Pubkey]core.Program
	programOrder  []types.Pubkey
	excluded      []types.Pubkey
	target        types.Pubkey
	commitment    Commitment
	sentinelMint  types.Pubkey
	includeFailed bool
}

type ProgramEntry struct {
	ID      types.Pubkey
	Program core.Program
}

type Options struct {
	Programs      []ProgramEntry
	Excluded      []types.Pubkey
	Target        types.Pubkey
	Commitment    Commitment
	SentinelMint  types.Pubkey
	IncludeFailed bool
}

func New(opts Options) (*Spec, error) {
	if opts.Target.IsZero() {
		return nil, errors.New("filter: target account is required")
	}
	if len(opts.Programs) == 0 {
		return nil, errors.New("filter: at least one monitored program is required")
	}
	if opts.SentinelMint.IsZero() {
		opts.SentinelMint = consts.WSOLMint
	}

	s := &Spec{
		programs:      make(map[types.Pubkey]core.Program, len(opts.Programs)),
		target:        opts.Target,
		commitment:    opts.Commitment,
		sentinelMint:  opts.SentinelMint,
		includeFailed: opts.IncludeFailed,
	}
	for _, p := range opts.Programs {
		if p.Program.String() == "unknown" {
			return nil, fmt.Errorf("filter: program %s has unknown decoder kind %d", p.ID, p.Program)
		}
		if prev, ok := s.programs[p.ID]; ok && prev != p.Program {
			return nil, fmt.Errorf("filter: program %s configured as both %s and %s", p.ID, prev, p.Program)
		} else if ok {
			continue
		}
		s.programs[p.ID] = p.Program
		s.programOrder = append(s.programOrder, p.ID)
	}
	seen := make(map[types.Pubkey]struct{}, len(opts.Excluded))
	for _, ex := range opts.Excluded {
		if _, ok := s.programs[ex]; ok {
			return nil, fmt.Errorf("filter: account %s is both monitored and excluded", ex)
		}
		if _, ok := seen[ex]; ok {
			continue
		}
		seen[ex] = struct{}{}
		s.excluded = append(s.excluded, ex)
	}
	return s, nil
}

// NewFromConfig 解析 base58 配置并构造 Spec
func NewFromConfig(c config.FilterConfig) (*Spec, error) {
	var opts Options
	var err error

	if opts.Target, err = types.TryPubkeyFromBase58(c.Target); err != nil {
		return nil, fmt.Errorf("filter: invalid target %q: %w", c.Target, err)
	}
	for i, pc := range c.Programs {
		id, err := types.TryPubkeyFromBase58(pc.ID)
		if err != nil {
			return nil, fmt.Errorf("filter: invalid programs[%d].id %q: %w", i, pc.ID, err)
		}
		kind, err := core.ParseProgram(pc.Kind)
		if err != nil {
			return nil, fmt.Errorf("filter: programs[%d]: %w", i, err)
		}
		opts.Programs = append(opts.Programs, ProgramEntry{ID: id, Program: kind})
	}
	if opts.Excluded, err = types.TryPubkeysFromBase58(c.ExcludedAccounts); err != nil {
		return nil, fmt.Errorf("filter: invalid excluded_accounts: %w", err)
	}
	if opts.Commitment, err = ParseCommitment(c.Commitment); err != nil {
		return nil, fmt.Errorf("filter: %w", err)
	}
	if c.SentinelMint != "" {
		if opts.SentinelMint, err = types.TryPubkeyFromBase58(c.SentinelMint); err != nil {
			return nil, fmt.Errorf("filter: invalid sentinel_mint %q: %w", c.SentinelMint, err)
		}
	}
	opts.IncludeFailed = c.IncludeFailed

	return New(opts)
}

// MonitoredPrograms 按配置顺序返回被监控的 program id
func (s *Spec) MonitoredPrograms() []types.Pubkey {
	out := make([]types.Pubkey, len(s.programOrder))
	copy(out, s.programOrder)
	return out
}

// ProgramFor 返回 program id 对应的解码器种类
func (s *Spec) ProgramFor(id types.Pubkey) (core.Program, bool) {
	p, ok := s.programs[id]
	return p, ok
}

func (s *Spec) Excluded() []types.Pubkey {
	out := make([]types.Pubkey, len(s.excluded))
	copy(out, s.excluded)
	return out
}

func (s *Spec) Target() types.Pubkey       { return s.target }
func (s *Spec) Commitment() Commitment     { return s.commitment }
func (s *Spec) SentinelMint() types.Pubkey { return s.sentinelMint }
func (s *Spec) IncludeFailed() bool        { return s.includeFailed }
