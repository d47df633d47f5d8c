package session

import (
	"sync"
	"sync/atomic"

	"github.com/sirupsen/logrus"
)

// FrameTap copies raw inbound frames to observers such as the recorder or a
// live UI. When an observer's buffer is full the frame is dropped for that
// observer rather than blocking the read loop; drops are counted and logged.
type FrameTap struct {
	mu           sync.Mutex
	subscribers  []chan []byte
	bufferSize   int
	closed       bool
	droppedTotal int64 // atomic
}

// NewFrameTap creates a tap whose subscriber channels hold bufferSize frames.
func NewFrameTap(bufferSize int) *FrameTap {
	return &FrameTap{bufferSize: bufferSize}
}

// Subscribe returns a channel receiving a copy of every inbound frame.
// Subscribers should be registered before the session connects to observe
// the full stream.
func (t *FrameTap) Subscribe() <-chan []byte {
	ch := make(chan []byte, t.bufferSize)
	t.mu.Lock()
	if t.closed {
		close(ch)
	} else {
		t.subscribers = append(t.subscribers, ch)
	}
	t.mu.Unlock()
	return ch
}

// DroppedCount returns the total number of frames dropped because a
// subscriber buffer was full.
func (t *FrameTap) DroppedCount() int64 {
	return atomic.LoadInt64(&t.droppedTotal)
}

// Offer hands one frame to all subscribers without blocking.
func (t *FrameTap) Offer(data []byte) {
	t.mu.Lock()
	subs := t.subscribers
	t.mu.Unlock()

	dropped := 0
	for _, sub := range subs {
		select {
		case sub <- data:
		default:
			dropped++
			atomic.AddInt64(&t.droppedTotal, 1)
		}
	}

	if dropped > 0 {
		logrus.Debugf("Frame tap: dropped frame for %d subscriber(s) (buffer full)", dropped)
	}
}

// Close closes all subscriber channels.
func (t *FrameTap) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return
	}
	t.closed = true
	for _, sub := range t.subscribers {
		close(sub)
	}
	t.subscribers = nil
}
