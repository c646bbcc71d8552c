// Package health exposes the standard gRPC health service for load balancers
// and orchestrators. The "stripe" service reports NOT_SERVING when no
// secret key is configured, so probes can tell a degraded deploy apart.
package health

import (
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

// StripeService is the health service name for checkout payments.
const StripeService = "stripe"

// Server wraps the grpc health server with the intake service names.
type Server struct {
	hs *health.Server
}

// New returns a health server reporting SERVING overall and the given
// Stripe state.
func New(stripeConfigured bool) *Server {
	s := &Server{hs: health.NewServer()}
	s.hs.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	s.SetStripe(stripeConfigured)
	return s
}

func (s *Server) SetStripe(configured bool) {
	status := healthpb.HealthCheckResponse_NOT_SERVING
	if configured {
		status = healthpb.HealthCheckResponse_SERVING
	}
	s.hs.SetServingStatus(StripeService, status)
}

// Shutdown flips every service to NOT_SERVING ahead of a graceful stop.
func (s *Server) Shutdown() { s.hs.Shutdown() }

// NewGRPCServer returns a grpc server with health and reflection registered.
func NewGRPCServer(s *Server, opts ...grpc.ServerOption) *grpc.Server {
	gs := grpc.NewServer(opts...)
	healthpb.RegisterHealthServer(gs, s.hs)
	reflection.Register(gs)
	return gs
}
