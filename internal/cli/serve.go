package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/aryy8/yatriguard/internal/mockpeer"
)

var (
	serveHost  string
	servePort  int
	serveDrain time.Duration
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run a local mock analysis service",
	Long: `Starts a local stand-in for the YatriGuard analysis service. It accepts
websocket sessions on /ws/{userId}, scores incoming locations against a
built-in map of restricted zones, classifies sensor samples for falls and
crashes, and pushes safety_analysis, trip_status, safety_alert and
battery_update frames back to connected clients.

Useful for developing and demoing the monitor without a real backend:
  yatriguard serve --port 8000
  yatriguard monitor --server ws://localhost:8000`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveHost, "host", "localhost", "Host to bind to")
	serveCmd.Flags().IntVar(&servePort, "port", 8000, "Port to listen on")
	serveCmd.Flags().DurationVar(&serveDrain, "battery-drain", 0, "Simulate battery drain by pushing battery_update at this interval (0 disables)")
}

func runServe(cmd *cobra.Command, args []string) error {
	server := mockpeer.NewServer(mockpeer.Config{
		Host:         serveHost,
		Port:         servePort,
		BatteryDrain: serveDrain,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Println("\nShutting down")
		cancel()
	}()

	fmt.Printf("Websocket endpoint: %s/ws/{userId}\n", server.Address())
	fmt.Println("Press Ctrl+C to stop")

	// Blocks until the context is cancelled; Start shuts the server down
	// itself on cancellation.
	if err := server.Start(ctx); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	stats := server.GetStats()
	fmt.Printf("%d frame(s) received, %d alert(s) sent\n",
		stats.FramesReceived, stats.AlertsSent)
	return nil
}
