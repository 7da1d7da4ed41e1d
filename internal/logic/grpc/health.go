package grpc

import (
	"context"

	"swap-monitor-sol/pkg/logger"

	pb "github.com/rpcpool/yellowstone-grpc/examples/golang/proto"
	"google.golang.org/grpc/health/grpc_health_v1"
)

// HealthCheck 打印服务端健康状态与 Geyser 版本，失败只告警，不影响订阅
func (s *GrpcSubscriber) HealthCheck(ctx context.Context) {
	ctx = s.withToken(ctx)

	health, err := grpc_health_v1.NewHealthClient(s.conn).Check(ctx, &grpc_health_v1.HealthCheckRequest{})
	if err != nil {
		logger.Warnf("[GrpcSubscriber] health check failed: %v", err)
	} else {
		logger.Infof("[GrpcSubscriber] health: %s", health.GetStatus())
	}

	version, err := s.client.GetVersion(ctx, &pb.GetVersionRequest{})
	if err != nil {
		logger.Warnf("[GrpcSubscriber] get version failed: %v", err)
		return
	}
	logger.Infof("[GrpcSubscriber] geyser version: %s", version.GetVersion())
}
