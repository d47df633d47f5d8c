package recorder

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestRecorder_WritesNDJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.ndjson")

	rec, err := NewRecorder(path)
	if err != nil {
		t.Fatalf("failed to create recorder: %v", err)
	}

	frames := []string{
		`{"type":"trip_status","payload":{"trip_id":"u1"}}`,
		`{"type":"battery_update","payload":{"level":40,"mode":"low"}}`,
	}
	for _, f := range frames {
		if err := rec.Record([]byte(f)); err != nil {
			t.Fatalf("record failed: %v", err)
		}
	}
	if rec.Count() != 2 {
		t.Errorf("expected count 2, got %d", rec.Count())
	}
	if err := rec.Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	if lines[0] != frames[0] || lines[1] != frames[1] {
		t.Error("recorded lines do not match input frames")
	}
}

func TestRecorder_FromChannel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.ndjson")

	rec, err := NewRecorder(path)
	if err != nil {
		t.Fatal(err)
	}

	frames := make(chan []byte, 3)
	frames <- []byte(`{"type":"a"}`)
	frames <- []byte(`{"type":"b"}`)
	close(frames)

	if err := rec.RecordFromChannel(context.Background(), frames); err != nil {
		t.Fatalf("record from channel failed: %v", err)
	}

	count, err := NewReplayer(path, time.Millisecond, false).FrameCount()
	if err != nil {
		t.Fatal(err)
	}
	if count != 2 {
		t.Errorf("expected 2 frames, got %d", count)
	}
}

func TestReplayer_ReplaysInOrder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.ndjson")
	content := "{\"type\":\"first\"}\n{\"type\":\"second\"}\n{\"type\":\"third\"}\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	var got []string
	rep := NewReplayer(path, time.Millisecond, false)
	err := rep.Replay(context.Background(), func(frame []byte) {
		got = append(got, string(frame))
	})
	if err != nil {
		t.Fatalf("replay failed: %v", err)
	}

	want := []string{`{"type":"first"}`, `{"type":"second"}`, `{"type":"third"}`}
	if len(got) != len(want) {
		t.Fatalf("expected %d frames, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("frame %d: expected %s, got %s", i, want[i], got[i])
		}
	}
}

func TestReplayer_LoopStopsOnCancel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.ndjson")
	if err := os.WriteFile(path, []byte("{\"type\":\"only\"}\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	count := 0
	rep := NewReplayer(path, time.Millisecond, true)
	err := rep.Replay(ctx, func([]byte) {
		count++
		if count >= 3 {
			cancel()
		}
	})
	if err != context.Canceled {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if count < 3 {
		t.Errorf("expected at least 3 replayed frames, got %d", count)
	}
}

func TestRecorder_CancelFlushesBufferedTail(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.ndjson")

	rec, err := NewRecorder(path)
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	frames := make(chan []byte)
	done := make(chan error, 1)
	go func() { done <- rec.RecordFromChannel(ctx, frames) }()

	// Small frames sit in the bufio buffer until a flush.
	frames <- []byte(`{"type":"trip_status"}`)
	frames <- []byte(`{"type":"battery_update"}`)

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("record from channel failed: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("RecordFromChannel did not return after cancel")
	}

	count, err := NewReplayer(path, time.Millisecond, false).FrameCount()
	if err != nil {
		t.Fatal(err)
	}
	if count != 2 {
		t.Errorf("expected both frames on disk after cancel, got %d", count)
	}
}
