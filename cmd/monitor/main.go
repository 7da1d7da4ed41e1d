package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"swap-monitor-sol/internal/config"
	"swap-monitor-sol/internal/service"
	"swap-monitor-sol/internal/svc"
	"swap-monitor-sol/pkg/logger"

	"github.com/zeromicro/go-zero/core/conf"
	"github.com/zeromicro/go-zero/core/logx"
	"github.com/zeromicro/go-zero/core/prometheus"
	zerosvc "github.com/zeromicro/go-zero/core/service"
)

var (
	configFile = flag.String("f", "etc/monitor.yaml", "the config file")
	endpoint   = flag.String("endpoint", "", "override grpc.endpoint in the config file")
)

func main() {
	os.Exit(run())
}

func run() (code int) {
	defer func() {
		if r := recover(); r != nil {
			logger.Errorf("panic: %+v\nstack: %s", r, debug.Stack())
			code = 2
		}
		logger.Sync()
	}()

	flag.Parse()

	var c config.MonitorConfig
	conf.MustLoad(*configFile, &c, conf.UseEnv())
	if *endpoint != "" {
		c.Grpc.Endpoint = *endpoint
	}

	if err := logger.Init(c.LogConf.ToLogOption()); err != nil {
		fmt.Fprintf(os.Stderr, "logger init failed: %v\n", err)
		return 1
	}
	logx.DisableStat()
	prometheus.StartAgent(c.Prometheus)

	serviceContext, err := svc.NewServiceContext(c)
	if err != nil {
		logger.Errorf("[Main] 初始化失败: %v", err)
		return 1
	}
	defer serviceContext.Close()

	healthCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	serviceContext.Subscriber.HealthCheck(healthCtx)
	cancel()

	monitor := service.NewMonitorService(serviceContext.Spec, serviceContext.Subscriber, serviceContext.Router, c.Reconnect)

	sg := zerosvc.NewServiceGroup()
	sg.Add(monitor)
	if serviceContext.RpcClient != nil {
		sg.Add(service.NewSlotLagService(c.Rpc, serviceContext.RpcClient, serviceContext.Spec.Commitment(), func() uint64 {
			return serviceContext.Router.Stats().LastSlot
		}))
	}

	logger.Infof("[Main] starting swap monitor, endpoint=%s", serviceContext.Subscriber.Endpoint())
	go sg.Start()

	// 等待退出信号或监控服务自行退出（致命错误）
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	select {
	case s := <-sig:
		logger.Infof("[Main] received %s, shutting down...", s)
	case <-monitor.Done():
	}

	sg.Stop()
	select {
	case <-monitor.Done():
	case <-time.After(5 * time.Second):
		logger.Warnf("[Main] monitor did not stop within 5s")
	}

	if err := monitor.Err(); err != nil {
		logger.Errorf("[Main] exit: %v", err)
		return 1
	}
	return 0
}
