// Package recorder captures the inbound frame stream of a session to an
// NDJSON file and plays it back later, so server pushes can be inspected and
// re-run without a live connection.
package recorder

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"sync"
)

// Recorder appends raw frames to an NDJSON file.
type Recorder struct {
	file   *os.File
	writer *bufio.Writer
	mu     sync.Mutex
	count  int
}

// NewRecorder creates the output file, truncating any previous recording.
func NewRecorder(filename string) (*Recorder, error) {
	file, err := os.Create(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to create recording file: %w", err)
	}
	return &Recorder{
		file:   file,
		writer: bufio.NewWriter(file),
	}, nil
}

// Record writes one frame followed by a newline.
func (r *Recorder) Record(frame []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, err := r.writer.Write(frame); err != nil {
		return fmt.Errorf("failed to write frame: %w", err)
	}
	if err := r.writer.WriteByte('\n'); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}
	r.count++
	return nil
}

// RecordFromChannel drains frames into the file until the channel closes or
// ctx is cancelled, then closes the recorder.
func (r *Recorder) RecordFromChannel(ctx context.Context, frames <-chan []byte) error {
	for {
		select {
		case <-ctx.Done():
			return r.Close()
		case frame, ok := <-frames:
			if !ok {
				return r.Close()
			}
			if err := r.Record(frame); err != nil {
				return err
			}
		}
	}
}

// Count returns the number of frames written so far.
func (r *Recorder) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.count
}

// Close flushes and closes the file.
func (r *Recorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.writer.Flush(); err != nil {
		r.file.Close()
		return fmt.Errorf("failed to flush recording: %w", err)
	}
	if err := r.file.Close(); err != nil {
		return fmt.Errorf("failed to close recording: %w", err)
	}
	return nil
}
