package daemon

import (
	"context"
	"sync"

	"procview/internal/collector"
	"procview/internal/monitor"
	"procview/internal/table"

	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// service keeps a collector warm and serves its latest snapshot.
type service struct {
	mon    *monitor.Monitor
	logger *zap.Logger

	mu     sync.RWMutex
	latest collector.Snapshot
	ready  bool
}

func newService(source monitor.Source, opts Options) *service {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	// The daemon only needs snapshots; an empty view keeps ticks cheap.
	mon := monitor.New(source, table.Options{Limit: -1},
		monitor.WithInterval(opts.Interval),
		monitor.WithLogger(logger),
	)
	return &service{mon: mon, logger: logger}
}

// run samples until ctx is cancelled.
func (s *service) run(ctx context.Context) error {
	return s.mon.Run(ctx, func(f monitor.Frame) error {
		s.store(f.Snapshot)
		return nil
	})
}

func (s *service) store(snap collector.Snapshot) {
	s.mu.Lock()
	s.latest = snap
	s.ready = true
	s.mu.Unlock()
	s.logger.Debug("snapshot sampled", zap.Int("records", snap.Len()))
}

func (s *service) Ping(context.Context, *emptypb.Empty) (*wrapperspb.StringValue, error) {
	return wrapperspb.String("pong"), nil
}

func (s *service) Collect(context.Context, *emptypb.Empty) (*structpb.Struct, error) {
	s.mu.RLock()
	snap, ready := s.latest, s.ready
	s.mu.RUnlock()
	if !ready {
		return nil, status.Error(codes.Unavailable, "no snapshot sampled yet")
	}
	out, err := EncodeSnapshot(snap)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encode snapshot: %v", err)
	}
	return out, nil
}
