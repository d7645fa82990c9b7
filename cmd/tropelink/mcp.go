package main

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/tropelink"
	"github.com/aretw0/tropelink/internal/cli"
	"github.com/aretw0/tropelink/pkg/adapters/mcp"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the Model Context Protocol (MCP) server",
	Long: `Exposes the find_connection tool to MCP clients.

Supported Transports:
- stdio (default): Uses Standard Input/Output. Ideal for local process integration.
- sse: Uses Server-Sent Events over HTTP. Ideal for remote agents or debuggers.`,
	Run: func(cmd *cobra.Command, args []string) {
		transport, _ := cmd.Flags().GetString("transport")
		port, _ := cmd.Flags().GetInt("port")

		opts, err := optionsFromFlags(cmd)
		if err != nil {
			log.Fatalf("Error: %v", err)
		}

		ctx := cli.NewSignalContext(cmd.Context())
		defer ctx.Cancel()

		stack, _, err := cli.Open(ctx, opts)
		if err != nil {
			log.Fatalf("Error initializing tropelink: %v", err)
		}
		defer stack.Close()

		srv := mcp.NewServer(stack.Connector, tropelink.Version,
			mcp.WithNames(stack.Connector.Names()),
			mcp.WithLogger(stack.Logger),
		)

		switch transport {
		case "stdio":
			// Ensure logs don't corrupt JSON-RPC on Stdout
			log.SetOutput(os.Stderr)
			stack.Logger.Info("Starting tropelink MCP Server (Stdio)")
			if err := srv.ServeStdio(); err != nil {
				stack.Logger.Error("MCP Server execution failed", "error", err)
				stack.Close()
				os.Exit(1)
			}
		case "sse":
			stack.Logger.Info("Starting tropelink MCP Server (SSE)", "port", port)
			if err := srv.ServeSSE(ctx, port); err != nil && !errors.Is(err, http.ErrServerClosed) {
				stack.Logger.Error("MCP Server execution failed", "error", err)
				stack.Close()
				os.Exit(1)
			}
			stack.Logger.Info("MCP Server stopped gracefully")
		default:
			fmt.Fprintf(os.Stderr, "Unknown transport: %s. Supported: stdio, sse\n", transport)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)

	mcpCmd.Flags().String("transport", "stdio", "Transport protocol to use: 'stdio' or 'sse'")
	mcpCmd.Flags().Int("port", 8080, "Port to listen on (only for SSE)")
}
