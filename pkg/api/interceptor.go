package api

import (
	"context"
	"strings"

	"google.golang.org/grpc"
	"google.golang.org/grpc/status"

	"github.com/baysao/massbitprotocol/pkg/log"
	"github.com/baysao/massbitprotocol/pkg/metrics"
)

// LoggingInterceptor creates a gRPC unary interceptor that logs each
// request and records request metrics by method and status code.
func LoggingInterceptor() grpc.UnaryServerInterceptor {
	return func(
		ctx context.Context,
		req interface{},
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (interface{}, error) {
		timer := metrics.NewTimer()
		resp, err := handler(ctx, req)

		method := methodName(info.FullMethod)
		code := status.Code(err)
		metrics.APIRequestsTotal.WithLabelValues(method, code.String()).Inc()

		logger := log.WithComponent("api")
		if err != nil {
			logger.Warn().
				Str("method", method).
				Str("code", code.String()).
				Dur("duration", timer.Duration()).
				Err(err).
				Msg("Request failed")
		} else {
			logger.Debug().
				Str("method", method).
				Dur("duration", timer.Duration()).
				Msg("Request handled")
		}
		return resp, err
	}
}

// methodName extracts the method from a full path
// (e.g. "/chaindata.Streamout/SayHello" -> "SayHello")
func methodName(fullMethod string) string {
	parts := strings.Split(fullMethod, "/")
	return parts[len(parts)-1]
}
