// Package grpchealth exposes the daemon's liveness surface over the
// standard gRPC health-checking protocol. The query/ingest/refresh
// contract itself is a plain Go interface (ports.MatrixCache and
// friends); this package only answers "is the process up" for
// orchestrators that poll a gRPC health endpoint rather than an HTTP
// one.
package grpchealth

import (
	"net"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// Server wraps a grpc.Server registered with the standard health
// service, with Serving/NotServing toggled as the daemon's dependencies
// (database, matrix cache) come up or go down.
type Server struct {
	grpcServer *grpc.Server
	health     *health.Server
}

func New() *Server {
	grpcServer := grpc.NewServer()
	healthServer := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, healthServer)
	return &Server{grpcServer: grpcServer, health: healthServer}
}

// SetServing marks the named service (empty string means the whole
// server) as serving or not, per the health protocol's convention.
func (s *Server) SetServing(service string, serving bool) {
	status := healthpb.HealthCheckResponse_NOT_SERVING
	if serving {
		status = healthpb.HealthCheckResponse_SERVING
	}
	s.health.SetServingStatus(service, status)
}

// Serve blocks accepting health-check connections on lis until the
// server is stopped.
func (s *Server) Serve(lis net.Listener) error {
	return s.grpcServer.Serve(lis)
}

// Stop gracefully shuts the health server down, marking every service
// NOT_SERVING first so in-flight health checks observe the transition.
func (s *Server) Stop() {
	s.health.Shutdown()
	s.grpcServer.GracefulStop()
}
