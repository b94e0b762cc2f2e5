package grpc

import (
	"context"

	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/dmitrijs2005/accountkeeper/internal/logging"
)

// requestIDMetadataKey mirrors the X-Request-ID HTTP header.
const requestIDMetadataKey = "x-request-id"

// requestLogInterceptor tags the call with a request id, taken from metadata
// when the client sent one, and logs the outcome at Debug level.
func (s *GRPCServer) requestLogInterceptor(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
	var id string
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if values := md.Get(requestIDMetadataKey); len(values) > 0 {
			id = values[0]
		}
	}
	if id == "" {
		id = uuid.NewString()
	}
	ctx = logging.WithRequestID(ctx, id)

	resp, err := handler(ctx, req)

	s.logger.Debug(ctx, "gRPC call", "method", info.FullMethod, "code", status.Code(err).String())
	return resp, err
}
