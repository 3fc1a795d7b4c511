package api

import (
	"context"
	"errors"
	"fmt"
	"net"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/baysao/massbitprotocol/api/proto"
	"github.com/baysao/massbitprotocol/pkg/hub"
	"github.com/baysao/massbitprotocol/pkg/log"
	"github.com/baysao/massbitprotocol/pkg/metrics"
	"github.com/baysao/massbitprotocol/pkg/types"
)

// QueueBuffer is the per-subscriber outgoing queue depth.
const QueueBuffer = 1024

// Server exposes the Streamout service over gRPC.
type Server struct {
	proto.UnimplementedStreamoutServer
	hub  *hub.Hub
	grpc *grpc.Server
}

// NewServer creates the API server over a hub.
func NewServer(h *hub.Hub) *Server {
	s := &Server{hub: h}
	s.grpc = grpc.NewServer(
		grpc.UnaryInterceptor(LoggingInterceptor()),
	)
	proto.RegisterStreamoutServer(s.grpc, s)
	return s
}

// Start starts serving on addr and blocks until Stop.
func (s *Server) Start(addr string) error {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}
	log.WithComponent("api").Info().Str("addr", addr).Msg("gRPC API listening")
	return s.grpc.Serve(lis)
}

// Stop gracefully stops the gRPC server
func (s *Server) Stop() {
	if s.grpc != nil {
		s.grpc.GracefulStop()
	}
}

// SayHello is the liveness probe.
func (s *Server) SayHello(ctx context.Context, req *proto.HelloRequest) (*proto.HelloReply, error) {
	return &proto.HelloReply{
		Message: fmt.Sprintf("Hello %s!", req.GetName()),
	}, nil
}

// ListBlocks subscribes the caller to one chain key's envelope stream,
// starting from the requested block.
func (s *Server) ListBlocks(req *proto.GetBlocksRequest, stream proto.Streamout_ListBlocksServer) error {
	key := types.ChainKey{Chain: req.GetChainType(), Network: req.GetNetwork()}
	logger := log.WithChain(key.Chain.String(), key.Network)

	sub, err := s.hub.Subscribe(key)
	if err != nil {
		if errors.Is(err, hub.ErrNoSuchChain) {
			return status.Errorf(codes.Unavailable, "no ingestor for chain %s", key)
		}
		return status.Errorf(codes.Internal, "subscribe: %v", err)
	}

	logger.Info().
		Uint64("start_block", req.GetStartBlockNumber()).
		Uint64("end_block", req.GetEndBlockNumber()).
		Msg("Subscriber connected")
	metrics.ActiveSubscribers.WithLabelValues(key.Chain.String(), key.Network).Inc()
	defer metrics.ActiveSubscribers.WithLabelValues(key.Chain.String(), key.Network).Dec()

	// Decouple hub receive from the gRPC send so a slow client
	// backpressures its own queue, never the ingestor.
	ctx, cancel := context.WithCancel(stream.Context())
	defer cancel()

	queue := make(chan *proto.GenericDataProto, QueueBuffer)
	errCh := make(chan error, 1)
	go func() {
		defer close(queue)
		for {
			msg, err := sub.Recv(ctx)
			if err != nil {
				errCh <- err
				return
			}
			if msg.GetBlockNumber() < req.GetStartBlockNumber() {
				continue
			}
			select {
			case queue <- msg:
			case <-ctx.Done():
				return
			}
		}
	}()

	for msg := range queue {
		if err := stream.Send(msg); err != nil {
			// Client went away; the forwarder observes the cancelled
			// context on its next receive.
			logger.Debug().Err(err).Msg("Subscriber send failed")
			return nil
		}
		metrics.EnvelopesSent.WithLabelValues(key.Chain.String(), key.Network).Inc()

		end := req.GetEndBlockNumber()
		if end != 0 && msg.GetBlockNumber() >= end && msg.GetDataType() == proto.DataType_Block {
			logger.Info().Uint64("end_block", end).Msg("Subscriber reached end block")
			return nil
		}
	}

	err = <-errCh
	var lagged hub.Lagged
	switch {
	case errors.As(err, &lagged):
		metrics.SubscribersLagged.WithLabelValues(key.Chain.String(), key.Network).Inc()
		logger.Warn().Uint64("missed", lagged.Missed).Msg("Subscriber lagged behind ring, dropping")
		return status.Errorf(codes.ResourceExhausted, "subscriber lagged, missed %d envelopes", lagged.Missed)
	case errors.Is(err, hub.ErrClosed):
		logger.Info().Msg("Ingestor closed topic, ending stream")
		return nil
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, "server shutting down")
	default:
		return status.Errorf(codes.Internal, "stream receive: %v", err)
	}
}
