package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"google.golang.org/grpc"

	bootstrap "github.com/tbeaudouin05/otmens-intake/api/bootstrap"
	config "github.com/tbeaudouin05/otmens-intake/api/config"
	"github.com/tbeaudouin05/otmens-intake/api/database"
	"github.com/tbeaudouin05/otmens-intake/api/health"
	"github.com/tbeaudouin05/otmens-intake/api/ratelimit"
	"github.com/tbeaudouin05/otmens-intake/api/router"
)

var (
	serveHTTPAddr   string
	serveGRPCAddr   string
	shutdownTimeout time.Duration
	janitorInterval time.Duration
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API and the gRPC health server",
	Long: `Run the HTTP API and the gRPC health server until SIGINT or SIGTERM.

Addresses default to :$PORT and :$GRPC_PORT.

Examples:
  intake-api serve
  intake-api serve --http :9090 --grpc ""`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveHTTPAddr, "http", "", "HTTP listen address (default :$PORT)")
	serveCmd.Flags().StringVar(&serveGRPCAddr, "grpc", "", "gRPC health listen address (default :$GRPC_PORT, empty string via flag disables)")
	serveCmd.Flags().DurationVar(&shutdownTimeout, "shutdown-timeout", 15*time.Second, "graceful shutdown deadline")
	serveCmd.Flags().DurationVar(&janitorInterval, "janitor-interval", time.Minute, "how often expired rate limit windows are purged")
}

func runServe(cmd *cobra.Command, args []string) error {
	if err := bootstrap.Ensure(); err != nil {
		return err
	}
	cfg := config.AppConfig
	if !cmd.Flags().Changed("http") {
		serveHTTPAddr = ":" + cfg.HTTPPort
	}
	if !cmd.Flags().Changed("grpc") {
		serveGRPCAddr = ":" + cfg.GRPCPort
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go runJanitor(ctx, janitorInterval)

	httpSrv := &http.Server{
		Addr:              serveHTTPAddr,
		Handler:           router.NewRouter(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 2)
	go func() {
		slog.Info("http server listening", "addr", serveHTTPAddr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	hs := health.New(bootstrap.StripeConfigured())
	grpcSrv := health.NewGRPCServer(hs)
	if serveGRPCAddr != "" {
		serveGRPC(grpcSrv, serveGRPCAddr, errCh)
	}

	var runErr error
	select {
	case <-ctx.Done():
		slog.Info("shutting down")
	case runErr = <-errCh:
		slog.Error("server failed", "err", runErr)
	}

	hs.Shutdown()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		slog.Error("http shutdown", "err", err)
	}
	grpcSrv.GracefulStop()
	if l := bootstrap.GetAuditLogger(); l != nil {
		if err := l.Close(shutdownCtx); err != nil {
			slog.Error("audit flush on shutdown", "err", err)
		}
	}
	if db := database.GetDB(); db != nil {
		db.Close()
	}
	return runErr
}

// serveGRPC starts srv on addr in the background. Listen and serve
// failures both land on errCh so the caller shuts everything down.
func serveGRPC(srv *grpc.Server, addr string, errCh chan<- error) {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		errCh <- fmt.Errorf("listen grpc: %w", err)
		return
	}
	go func() {
		slog.Info("grpc health server listening", "addr", lis.Addr().String())
		if err := srv.Serve(lis); err != nil {
			errCh <- fmt.Errorf("grpc server: %w", err)
		}
	}()
}

// runJanitor purges expired rate limit windows from whichever store is active.
func runJanitor(ctx context.Context, interval time.Duration) {
	if mem := bootstrap.GetMemoryStore(); mem != nil {
		mem.RunJanitor(ctx, interval)
		return
	}
	db := database.GetDB()
	if db == nil {
		return
	}
	store := ratelimit.SQLStore{DB: db}
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			if n, err := store.Cleanup(ctx, now); err != nil {
				slog.Warn("rate limit cleanup failed", "err", err)
			} else if n > 0 {
				slog.Debug("rate limit windows purged", "count", n)
			}
		}
	}
}
