package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/leengari/synthtab/internal/network"
)

var serveFlags struct {
	port int
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the JSON-over-TCP generation server",
	Long: `Serve listens for newline-delimited JSON requests and answers each
with a generated dataset. One request per message, many messages per
connection.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVarP(&serveFlags.port, "port", "p", 4455, "TCP port to listen on")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return network.Start(ctx, serveFlags.port, logger)
}
