package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/aretw0/tropelink"
	"github.com/aretw0/tropelink/internal/cli"
	httpAdapter "github.com/aretw0/tropelink/pkg/adapters/http"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long: `Starts a JSON API answering GET /connection?source=...&target=...
Discovered neighbor sets are shared across requests through the configured cache.`,
	Run: func(cmd *cobra.Command, args []string) {
		opts, err := optionsFromFlags(cmd)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		ctx := cli.NewSignalContext(cmd.Context())
		defer ctx.Cancel()

		stack, cfg, err := cli.Open(ctx, opts)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error initializing tropelink: %v\n", err)
			os.Exit(1)
		}
		defer stack.Close()

		addr := cfg.Server.Addr
		if cmd.Flags().Changed("addr") {
			addr, _ = cmd.Flags().GetString("addr")
		}
		timeout, _ := cmd.Flags().GetDuration("timeout")

		handler := httpAdapter.NewHandler(stack.Connector,
			httpAdapter.WithNames(stack.Connector.Names()),
			httpAdapter.WithMetrics(stack.Metrics.Handler()),
			httpAdapter.WithVersion(tropelink.Version),
			httpAdapter.WithTimeout(timeout),
			httpAdapter.WithLogger(stack.Logger),
		)

		srv := &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		}

		// Channel to listen for errors coming from the listener.
		serverErrors := make(chan error, 1)

		go func() {
			stack.Logger.Info("Starting tropelink server", "address", srv.Addr, "policy", stack.Connector.Policy())
			serverErrors <- srv.ListenAndServe()
		}()

		// Blocking main and waiting for shutdown.
		select {
		case err := <-serverErrors:
			if !errors.Is(err, http.ErrServerClosed) {
				stack.Logger.Error("Server error", "error", err)
				stack.Close()
				os.Exit(1)
			}

		case <-ctx.Done():
			stack.Logger.Info("Start shutdown", "signal", ctx.Signal())

			// Give outstanding requests a deadline for completion.
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if err := srv.Shutdown(shutdownCtx); err != nil {
				stack.Logger.Error("Graceful shutdown did not complete", "timeout", 5*time.Second, "error", err)
				if err := srv.Close(); err != nil {
					stack.Logger.Error("Error killing server", "error", err)
				}
			}
			stack.Logger.Info("tropelink server stopped gracefully")
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("addr", ":8080", "Address to listen on (overrides server.addr)")
	serveCmd.Flags().Duration("timeout", 2*time.Minute, "Upper bound for a single search (0 = none)")
}
