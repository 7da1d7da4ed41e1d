package router

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"swap-monitor-sol/internal/consts"
	"swap-monitor-sol/internal/logic/core"
	"swap-monitor-sol/internal/logic/eventparser"
	"swap-monitor-sol/internal/logic/eventparser/common"
	"swap-monitor-sol/internal/logic/filter"
	"swap-monitor-sol/internal/sink"
	"swap-monitor-sol/internal/stat"
	"swap-monitor-sol/internal/types"
	"swap-monitor-sol/pkg/logger"
)

// DecoderLookup 按 program id 查找解码器，*eventparser.Registry 实现该接口
type DecoderLookup interface {
	Lookup(programID types.Pubkey) (common.SwapDecoder, bool)
}

// Router 按签名者过滤交易，并把命中的 program 分发给对应解码器
type Router struct {
	spec     *filter.Spec
	decoders DecoderLookup
	sink     sink.EventSink
	stats    Stats
}

func NewRouter(spec *filter.Spec, decoders DecoderLookup, s sink.EventSink) *Router {
	return &Router{spec: spec, decoders: decoders, sink: s}
}

func (r *Router) Stats() StatsSnapshot {
	return r.stats.Snapshot()
}

// Run 按到达顺序处理交易，直到 ctx 取消（返回 nil）或订阅流出错（返回该错误）
func (r *Router) Run(ctx context.Context, stream core.EnvelopeStream) error {
	for {
		if ctx.Err() != nil {
			return nil
		}
		env, err := stream.Recv()
		if ctx.Err() != nil {
			return nil
		}
		if err != nil {
			return err
		}
		r.Route(ctx, env)
	}
}

// Route 处理单笔交易，返回解码成功的事件；所有可恢复错误只记录日志与计数
func (r *Router) Route(ctx context.Context, env *core.Envelope) []*core.SwapEvent {
	r.stats.envelopes.Add(1)
	r.stats.lastSlot.Store(env.Slot)

	// 1. 签名者为 account_keys[0]
	if len(env.AccountKeys) == 0 {
		r.reportInvalidSigner(env, &core.ParseError{Field: "account_keys", Err: errors.New("empty account keys")})
		return nil
	}
	signer, err := types.PubkeyFromBytes(env.AccountKeys[0])
	if err != nil {
		r.reportInvalidSigner(env, &core.ParseError{Field: "account_keys[0]", Err: err})
		return nil
	}
	target := r.spec.Target()
	if signer != target {
		r.stats.skippedSigner.Add(1)
		stat.EnvelopesTotal.Inc("skipped_signer")
		return nil
	}
	stat.EnvelopesTotal.Inc("routed")
	stat.LastSlot.Set(float64(env.Slot), "router")

	// 2. 解析所有账户，非法地址用 InvalidAddress 占位，保证下标与余额数组对齐
	tx := &core.Tx{
		Slot:        env.Slot,
		Signature:   env.Signature,
		AccountKeys: make([]types.Pubkey, len(env.AccountKeys)),
		Meta:        env.Meta,
	}
	tx.AccountKeys[0] = signer
	for i := 1; i < len(env.AccountKeys); i++ {
		key, err := types.PubkeyFromBytes(env.AccountKeys[i])
		if err != nil {
			r.stats.parseErrors.Add(1)
			stat.DecodeFailuresTotal.Inc("router", "parse")
			logger.Warnf("[Router] %v, slot=%d, tx=%s", &core.ParseError{Field: "account_keys[" + strconv.Itoa(i) + "]", Err: err}, env.Slot, env.Signature)
			key = consts.InvalidAddress
		}
		tx.AccountKeys[i] = key
	}
	if tx.Meta == nil {
		tx.Meta = &core.TransactionMeta{}
	}

	// 3. 按账户顺序分发，同一 program 在一笔交易中只解码一次
	var (
		events     []*core.SwapEvent
		dispatched []types.Pubkey
	)
	for _, key := range tx.AccountKeys {
		decoder, ok := r.decoders.Lookup(key)
		if !ok || containsKey(dispatched, key) {
			continue
		}
		dispatched = append(dispatched, key)

		event, err := eventparser.Decode(decoder, tx, target)
		if err != nil {
			kind := core.ErrorKind(err)
			r.stats.countFailure(kind)
			stat.DecodeFailuresTotal.Inc(decoder.Program().String(), kind)
			logger.Warnf("[Router] %s decode failed (%s): %v, slot=%d, tx=%s",
				decoder.Program(), kind, err, env.Slot, env.Signature)
			continue
		}

		r.stats.swaps.Add(1)
		stat.SwapsTotal.Inc(event.Program.String(), event.Direction.String())
		events = append(events, event)

		if err := r.sink.Emit(ctx, event); err != nil {
			r.stats.sinkErrors.Add(1)
			stat.SinkErrorsTotal.Inc("router")
			logger.Errorf("[Router] sink emit failed: %v, tx=%s", err, env.Signature)
		}
	}
	return events
}

func (r *Router) reportInvalidSigner(env *core.Envelope, err error) {
	r.stats.invalidSigner.Add(1)
	r.stats.parseErrors.Add(1)
	stat.EnvelopesTotal.Inc("invalid_signer")
	logger.Warnf("[Router] skip envelope: %v, slot=%d, tx=%s", err, env.Slot, env.Signature)
}

// containsKey 单笔交易中命中的 program 很少，线性查找即可
func containsKey(keys []types.Pubkey, key types.Pubkey) bool {
	for _, k := range keys {
		if k == key {
			return true
		}
	}
	return false
}

func (r *Router) String() string {
	return fmt.Sprintf("Router{target=%s, programs=%d}", r.spec.Target(), len(r.spec.MonitoredPrograms()))
}
