package recorder

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"time"
)

// Replayer reads a recorded frame stream and hands it back out at a fixed
// cadence, optionally looping.
type Replayer struct {
	filename string
	interval time.Duration
	loop     bool
}

// NewReplayer creates a replayer for a recording file.
func NewReplayer(filename string, interval time.Duration, loop bool) *Replayer {
	if interval <= 0 {
		interval = 500 * time.Millisecond
	}
	return &Replayer{
		filename: filename,
		interval: interval,
		loop:     loop,
	}
}

// FrameCount counts frames in the recording without replaying them.
func (r *Replayer) FrameCount() (int, error) {
	file, err := os.Open(r.filename)
	if err != nil {
		return 0, fmt.Errorf("failed to open recording file: %w", err)
	}
	defer file.Close()

	count := 0
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		if len(scanner.Bytes()) > 0 {
			count++
		}
	}
	if err := scanner.Err(); err != nil {
		return 0, fmt.Errorf("error reading recording: %w", err)
	}
	return count, nil
}

// Replay feeds each frame to handle in order. With loop set it starts over
// whenever it reaches the end, until ctx is cancelled.
func (r *Replayer) Replay(ctx context.Context, handle func(frame []byte)) error {
	for {
		if err := r.replayOnce(ctx, handle); err != nil {
			return err
		}
		if !r.loop {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
	}
}

func (r *Replayer) replayOnce(ctx context.Context, handle func(frame []byte)) error {
	file, err := os.Open(r.filename)
	if err != nil {
		return fmt.Errorf("failed to open recording file: %w", err)
	}
	defer file.Close()

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		// Scanner reuses its buffer; hand out a copy.
		frame := append([]byte(nil), line...)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			handle(frame)
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("error reading recording: %w", err)
	}
	return nil
}
