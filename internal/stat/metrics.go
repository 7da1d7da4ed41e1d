package stat

import "github.com/zeromicro/go-zero/core/metric"

const namespace = "swap_monitor"

// 未启用 prometheus 时 go-zero 的 metric 为空操作
var (
	EnvelopesTotal = metric.NewCounterVec(&metric.CounterVecOpts{
		Namespace: namespace,
		Subsystem: "router",
		Name:      "envelopes_total",
		Help:      "envelopes received from the feed, by outcome",
		Labels:    []string{"outcome"}, // routed | skipped_signer | invalid_signer
	})

	DecodeFailuresTotal = metric.NewCounterVec(&metric.CounterVecOpts{
		Namespace: namespace,
		Subsystem: "router",
		Name:      "decode_failures_total",
		Help:      "decoder failures by program and error kind",
		Labels:    []string{"program", "kind"},
	})

	SwapsTotal = metric.NewCounterVec(&metric.CounterVecOpts{
		Namespace: namespace,
		Subsystem: "router",
		Name:      "swaps_total",
		Help:      "decoded swap events by program and direction",
		Labels:    []string{"program", "direction"},
	})

	SinkErrorsTotal = metric.NewCounterVec(&metric.CounterVecOpts{
		Namespace: namespace,
		Subsystem: "sink",
		Name:      "errors_total",
		Help:      "event sink failures by sink",
		Labels:    []string{"sink"},
	})

	FeedSkippedTotal = metric.NewCounterVec(&metric.CounterVecOpts{
		Namespace: namespace,
		Subsystem: "feed",
		Name:      "skipped_total",
		Help:      "feed updates dropped before routing, by reason",
		Labels:    []string{"reason"}, // vote | failed | invalid
	})

	ReconnectsTotal = metric.NewCounterVec(&metric.CounterVecOpts{
		Namespace: namespace,
		Subsystem: "feed",
		Name:      "reconnects_total",
		Help:      "feed resubscribe attempts by result",
		Labels:    []string{"result"}, // ok | error
	})

	LastSlot = metric.NewGaugeVec(&metric.GaugeVecOpts{
		Namespace: namespace,
		Subsystem: "feed",
		Name:      "last_slot",
		Help:      "latest slot seen by the router and by the rpc tip check",
		Labels:    []string{"source"}, // router | rpc
	})
)
