package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/aryy8/yatriguard/internal/recorder"
	"github.com/aryy8/yatriguard/internal/score"
	"github.com/aryy8/yatriguard/internal/session"
	"github.com/aryy8/yatriguard/internal/simulator"
)

var (
	monitorServer   string
	monitorUser     string
	monitorScenario string
	monitorSeed     int64
	monitorRate     time.Duration
	monitorFixRate  time.Duration
	monitorOut      string
	monitorNoTrip   bool
)

var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Run a live monitoring session against the analysis service",
	Long: `Connects to the YatriGuard analysis service, starts a trip, and plays a
simulated journey scenario into the session while rendering the safety
score and trip state the service pushes back.

Examples:
  yatriguard monitor
  yatriguard monitor --scenario restricted-trek --server ws://localhost:8000
  yatriguard monitor --scenario evening-commute --record trip.ndjson`,
	RunE: runMonitor,
}

func init() {
	monitorCmd.Flags().StringVar(&monitorServer, "server", serverURLFromEnv(), "Analysis service base URL")
	monitorCmd.Flags().StringVar(&monitorUser, "user", userIDFromEnv(), "User identifier announced to the service")
	monitorCmd.Flags().StringVar(&monitorScenario, "scenario", "city-walk", "Journey scenario to simulate")
	monitorCmd.Flags().Int64Var(&monitorSeed, "seed", time.Now().UnixNano(), "Random seed for deterministic sensor output")
	monitorCmd.Flags().DurationVar(&monitorRate, "sample-every", 500*time.Millisecond, "IMU sample interval")
	monitorCmd.Flags().DurationVar(&monitorFixRate, "fix-every", 2*time.Second, "Location fix interval")
	monitorCmd.Flags().StringVar(&monitorOut, "record", "", "Record inbound frames to an NDJSON file")
	monitorCmd.Flags().BoolVar(&monitorNoTrip, "no-trip", false, "Do not start a trip, just stream data")
}

func runMonitor(cmd *cobra.Command, args []string) error {
	registry, err := loadScenarios()
	if err != nil {
		return fmt.Errorf("failed to load scenarios: %w", err)
	}
	scen, err := registry.Get(monitorScenario)
	if err != nil {
		return err
	}

	sess := session.New(session.Config{ServerURL: monitorServer, UserID: monitorUser})
	defer sess.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		logrus.Info("Received interrupt signal, shutting down")
		cancel()
	}()

	if monitorOut != "" {
		rec, err := recorder.NewRecorder(monitorOut)
		if err != nil {
			return err
		}
		recDone := make(chan error, 1)
		go func() {
			recDone <- rec.RecordFromChannel(ctx, sess.Frames())
		}()
		// Join before returning so the buffered tail reaches the file.
		defer func() {
			cancel()
			if err := <-recDone; err != nil {
				logrus.Warnf("Failed to finalize recording: %v", err)
			}
		}()
		fmt.Printf("Recording inbound frames to %s\n", monitorOut)
	}

	fmt.Printf("YatriGuard Monitor\n\n")
	fmt.Printf("Service:   %s\n", sess.URL())
	fmt.Printf("User:      %s\n", monitorUser)
	fmt.Printf("Scenario:  %s (%s)\n\n", scen.Name, scen.TotalDuration())

	sess.Connect()
	if !waitConnected(ctx, sess, 30*time.Second) {
		return fmt.Errorf("could not reach %s: %s", sess.URL(), sess.Snapshot().LastError)
	}

	if !monitorNoTrip {
		sess.StartTrip()
		defer sess.StopTrip()
	}

	go renderLoop(ctx, sess)

	sim := simulator.New(scen, simulator.Config{
		Seed:             monitorSeed,
		SampleInterval:   monitorRate,
		LocationInterval: monitorFixRate,
	})
	if err := sim.Run(ctx, sess); err != nil && err != context.Canceled {
		return fmt.Errorf("simulator error: %w", err)
	}

	fmt.Println("\nScenario complete")
	return nil
}

// waitConnected blocks until the session connects, fails terminally, or the
// timeout passes. Transient retrying states keep the wait alive.
func waitConnected(ctx context.Context, sess *session.Session, timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		select {
		case <-ctx.Done():
			return false
		case <-time.After(50 * time.Millisecond):
		}
		switch sess.Snapshot().Connection.Phase {
		case session.PhaseConnected:
			return true
		case session.PhaseFailed:
			return false
		}
	}
	return false
}

// renderLoop prints one status line per second from the session snapshot.
func renderLoop(ctx context.Context, sess *session.Session) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			printStatus(sess.Snapshot())
		}
	}
}

func printStatus(snap session.Snapshot) {
	s := score.Score(snap.Analysis)
	line := fmt.Sprintf("[%s] %s %3.0f %s",
		snap.Connection.Phase, renderScoreBar(s, 20), s, score.BandLabel(s))

	if snap.Analysis != nil {
		line += fmt.Sprintf(" | %s", score.RiskLabel(snap.Analysis.RiskLevel))
	}
	if snap.Trip != nil {
		unacked := 0
		for _, event := range snap.Trip.SafetyEvents {
			if !event.Acknowledged {
				unacked++
			}
		}
		line += fmt.Sprintf(" | battery %d%% (%s)", snap.Trip.BatteryLevel, snap.Trip.ProcessingMode)
		if unacked > 0 {
			line += fmt.Sprintf(" | %d unacknowledged alert(s)", unacked)
		}
	}
	if snap.LastError != "" {
		line += fmt.Sprintf(" | %s", snap.LastError)
	}
	fmt.Println(line)
}
