package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/aryy8/yatriguard/internal/recorder"
	"github.com/aryy8/yatriguard/internal/score"
	"github.com/aryy8/yatriguard/internal/session"
)

var (
	replayIn    string
	replayEvery time.Duration
	replayLoop  bool
)

var replayCmd = &cobra.Command{
	Use:   "replay",
	Short: "Replay a recorded frame stream through the session state machine",
	Long: `Reads frames recorded with 'monitor --record' and feeds them through the
same router the live session uses, printing the safety score after each
frame. Handy for reproducing how a past trip unfolded without a server.

Examples:
  yatriguard replay --in trip.ndjson
  yatriguard replay --in trip.ndjson --every 200ms --loop`,
	RunE: runReplay,
}

func init() {
	replayCmd.Flags().StringVar(&replayIn, "in", "", "NDJSON recording to replay (required)")
	replayCmd.Flags().DurationVar(&replayEvery, "every", 100*time.Millisecond, "Delay between frames")
	replayCmd.Flags().BoolVar(&replayLoop, "loop", false, "Restart from the beginning when the recording ends")
	replayCmd.MarkFlagRequired("in")
}

func runReplay(cmd *cobra.Command, args []string) error {
	replayer := recorder.NewReplayer(replayIn, replayEvery, replayLoop)

	count, err := replayer.FrameCount()
	if err != nil {
		return fmt.Errorf("failed to read recording: %w", err)
	}
	fmt.Printf("Replaying %d frame(s) from %s\n\n", count, replayIn)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	store := session.NewStore()
	router := session.NewRouter(store)

	frameNum := 0
	err = replayer.Replay(ctx, func(frame []byte) {
		frameNum++
		router.Handle(frame)
		printReplayStatus(frameNum, store.Snapshot())
	})
	if err != nil && err != context.Canceled {
		return fmt.Errorf("replay error: %w", err)
	}
	return nil
}

func printReplayStatus(frameNum int, snap session.Snapshot) {
	s := score.Score(snap.Analysis)
	line := fmt.Sprintf("#%04d %s %3.0f %s", frameNum, renderScoreBar(s, 20), s, score.BandLabel(s))
	if snap.Trip != nil {
		line += fmt.Sprintf(" | battery %d%% | %d event(s)", snap.Trip.BatteryLevel, len(snap.Trip.SafetyEvents))
	}
	fmt.Println(line)
}
