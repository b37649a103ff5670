package client

import (
	"context"
	"fmt"
	"net/http"

	"google.golang.org/grpc/codes"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
)

// Ping reports whether the server is reachable and serving.
func (c *HTTPClient) Ping(ctx context.Context) error {
	if c.health == nil {
		return c.pingHTTP(ctx)
	}

	resp, err := c.health.Check(ctx, &healthpb.HealthCheckRequest{})
	if err != nil {
		return mapGRPCError(err)
	}
	if resp.GetStatus() != healthpb.HealthCheckResponse_SERVING {
		return fmt.Errorf("%w: health status %s", ErrUnavailable, resp.GetStatus())
	}
	return nil
}

func (c *HTTPClient) pingHTTP(ctx context.Context) error {
	var res struct {
		Status string `json:"status"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/health", nil, &res); err != nil {
		return err
	}
	if res.Status != "healthy" {
		return fmt.Errorf("%w: health status %q", ErrUnavailable, res.Status)
	}
	return nil
}

func mapGRPCError(err error) error {
	if err == nil {
		return nil
	}
	st, _ := status.FromError(err)
	switch st.Code() {
	case codes.Unauthenticated, codes.PermissionDenied:
		return ErrUnauthorized
	case codes.Canceled:
		return context.Canceled
	case codes.Unavailable, codes.DeadlineExceeded, codes.Unimplemented, codes.NotFound:
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	default:
		return fmt.Errorf("rpc error: %w", err)
	}
}
