package server

import (
	"fmt"
	"net"
	"time"

	"github.com/sirupsen/logrus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/keepalive"
	"google.golang.org/grpc/reflection"
)

// GatewayService is the health service name that tracks the chat connection.
const GatewayService = "kotoba.Gateway"

// GRPCServer serves the standard gRPC health protocol. The overall status
// and GatewayService follow the chat gateway connection.
type GRPCServer struct {
	server *grpc.Server
	health *health.Server
	port   int
	logger *logrus.Logger
}

// NewGRPCServer creates a gRPC health server. Both statuses start NOT_SERVING.
func NewGRPCServer(port int, logger *logrus.Logger) *GRPCServer {
	if logger == nil {
		logger = logrus.New()
	}

	opts := []grpc.ServerOption{
		grpc.Creds(insecure.NewCredentials()),
		grpc.KeepaliveEnforcementPolicy(keepalive.EnforcementPolicy{
			MinTime:             15 * time.Second,
			PermitWithoutStream: true,
		}),
		grpc.KeepaliveParams(keepalive.ServerParameters{
			MaxConnectionIdle: 5 * time.Minute,
			Time:              30 * time.Second,
			Timeout:           10 * time.Second,
		}),
	}

	s := grpc.NewServer(opts...)
	healthServer := health.NewServer()
	grpc_health_v1.RegisterHealthServer(s, healthServer)
	reflection.Register(s)

	g := &GRPCServer{server: s, health: healthServer, port: port, logger: logger}
	g.SetGatewayStatus(false)
	return g
}

// SetGatewayStatus records whether the chat gateway is connected.
func (g *GRPCServer) SetGatewayStatus(connected bool) {
	status := grpc_health_v1.HealthCheckResponse_NOT_SERVING
	if connected {
		status = grpc_health_v1.HealthCheckResponse_SERVING
	}
	g.health.SetServingStatus("", status)
	g.health.SetServingStatus(GatewayService, status)

	g.logger.WithFields(logrus.Fields{
		"service": GatewayService,
		"status":  status.String(),
	}).Debug("Updated gRPC health status")
}

// Start listens on the configured port and serves until Stop.
func (g *GRPCServer) Start() error {
	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", g.port))
	if err != nil {
		return fmt.Errorf("listen on port %d: %w", g.port, err)
	}
	return g.Serve(lis)
}

// Serve serves on an existing listener.
func (g *GRPCServer) Serve(lis net.Listener) error {
	g.logger.WithFields(logrus.Fields{
		"addr": lis.Addr().String(),
	}).Info("gRPC health server listening")
	if err := g.server.Serve(lis); err != nil && err != grpc.ErrServerStopped {
		return fmt.Errorf("failed to serve: %w", err)
	}
	return nil
}

// Stop marks everything NOT_SERVING and stops gracefully, forcing the stop
// once timeout passes.
func (g *GRPCServer) Stop(timeout time.Duration) {
	g.health.Shutdown()

	stopped := make(chan struct{})
	go func() {
		g.server.GracefulStop()
		close(stopped)
	}()

	select {
	case <-stopped:
		g.logger.Info("gRPC server stopped gracefully")
	case <-time.After(timeout):
		g.logger.Warn("Graceful shutdown timeout, forcing stop...")
		g.server.Stop()
	}
}
