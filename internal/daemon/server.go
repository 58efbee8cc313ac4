package daemon

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"syscall"
	"time"

	"procview/internal/collector"
	"procview/internal/monitor"
	"procview/internal/proctable"

	"go.uber.org/zap"
	"google.golang.org/grpc"
)

// Options configures a daemon instance.
type Options struct {
	Interval time.Duration
	Logger   *zap.Logger
	// Table defaults to the live OS process table.
	Table proctable.Table
}

// Server wraps the gRPC server and the sampler.
type Server struct {
	grpc   *grpc.Server
	path   string
	cancel context.CancelFunc
	done   chan struct{}
}

// Close stops sampling and serving, then unlinks the socket and pid file.
func (s *Server) Close() error {
	s.cancel()
	<-s.done
	s.grpc.GracefulStop()
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return RemovePID()
}

// StartDaemon binds the UNIX socket, starts sampling and serves the
// Snapshots service.
func StartDaemon(opts Options) (*Server, error) {
	if err := EnsureRuntimeDir(); err != nil {
		return nil, err
	}
	path := SocketPath()

	// A socket file left behind by a crashed daemon.
	if _, err := os.Stat(path); err == nil && !IsRunning() {
		if err := os.Remove(path); err != nil {
			return nil, err
		}
	}

	ln, err := net.Listen("unix", path)
	if err != nil {
		return nil, err
	}
	if err := os.Chmod(path, 0o600); err != nil {
		ln.Close()
		return nil, err
	}
	if err := WritePID(os.Getpid()); err != nil {
		ln.Close()
		_ = os.Remove(path)
		return nil, err
	}

	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	opts.Logger = logger
	table := opts.Table
	if table == nil {
		table = proctable.NewSystem()
	}
	if opts.Interval <= 0 {
		opts.Interval = monitor.DefaultInterval
	}

	svc := newService(collector.New(table, collector.WithLogger(logger)), opts)
	gs := grpc.NewServer()
	RegisterSnapshotsServer(gs, svc)

	ctx, cancel := context.WithCancel(context.Background())
	s := &Server{grpc: gs, path: path, cancel: cancel, done: make(chan struct{})}

	go func() {
		defer close(s.done)
		if err := svc.run(ctx); err != nil {
			logger.Error("sampler stopped", zap.Error(err))
		}
	}()
	go func() {
		if err := gs.Serve(ln); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			logger.Error("grpc server stopped", zap.Error(err))
		}
	}()

	logger.Info("daemon listening", zap.String("socket", path), zap.Duration("interval", opts.Interval))
	return s, nil
}

// StopRunningDaemon sends a termination signal to the currently running daemon if any.
func StopRunningDaemon(force bool) error {
	pid, err := RunningPID()
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			if IsRunning() {
				return fmt.Errorf("daemon is running but PID file %q is missing; stop it manually", PIDPath())
			}
			return nil
		}
		return fmt.Errorf("unable to read daemon PID: %w", err)
	}
	if pid == os.Getpid() {
		return errors.New("refusing to stop current process")
	}
	proc, err := os.FindProcess(pid)
	if err != nil {
		return err
	}
	if err := sendSignal(proc, syscall.SIGTERM); err != nil {
		return err
	}
	if waitForShutdown(3 * time.Second) {
		return nil
	}
	if !force {
		return fmt.Errorf("daemon process %d did not exit after SIGTERM", pid)
	}
	if err := sendSignal(proc, syscall.SIGKILL); err != nil {
		return err
	}
	if waitForShutdown(2 * time.Second) {
		return nil
	}
	return fmt.Errorf("daemon process %d did not exit after SIGKILL", pid)
}

func sendSignal(proc *os.Process, sig syscall.Signal) error {
	if err := proc.Signal(sig); err != nil {
		if errors.Is(err, os.ErrProcessDone) {
			_ = RemovePID()
			return nil
		}
		return err
	}
	return nil
}

func waitForShutdown(timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for {
		if !IsRunning() {
			_ = RemovePID()
			return true
		}
		if time.Now().After(deadline) {
			return false
		}
		time.Sleep(100 * time.Millisecond)
	}
}
