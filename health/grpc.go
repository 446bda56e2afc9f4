package health

import (
	"context"
	"net"

	"go.uber.org/zap/zapcore"
	"google.golang.org/grpc"
	grpchealth "google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"dailydsa/logger"
)

// ServiceName is the name reported by the gRPC health service.
const ServiceName = "dailydsa.Bot"

// GRPCServer exposes the standard gRPC health protocol.
type GRPCServer struct {
	addr   string
	srv    *grpc.Server
	health *grpchealth.Server
	logger *logger.Logger
}

func NewGRPCServer(port string, log *logger.Logger) *GRPCServer {
	hs := grpchealth.NewServer()
	hs.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	hs.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_SERVING)

	srv := grpc.NewServer()
	healthpb.RegisterHealthServer(srv, hs)
	return &GRPCServer{addr: ":" + port, srv: srv, health: hs, logger: log}
}

// SetServing flips the reported status, e.g. while the catalog is missing.
func (g *GRPCServer) SetServing(serving bool) {
	status := healthpb.HealthCheckResponse_NOT_SERVING
	if serving {
		status = healthpb.HealthCheckResponse_SERVING
	}
	g.health.SetServingStatus(ServiceName, status)
}

func (g *GRPCServer) Serve(ctx context.Context) error {
	lis, err := net.Listen("tcp", g.addr)
	if err != nil {
		return err
	}
	return g.ServeListener(ctx, lis)
}

// ServeListener serves on lis until ctx is done.
func (g *GRPCServer) ServeListener(ctx context.Context, lis net.Listener) error {
	go func() {
		<-ctx.Done()
		g.health.Shutdown()
		g.srv.GracefulStop()
	}()

	g.logger.Log(zapcore.InfoLevel, "", "gRPC health server running", map[string]any{"addr": lis.Addr().String()}, component, nil)
	return g.srv.Serve(lis)
}
