package session

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/aryy8/yatriguard/internal/models"
)

const (
	// Retry schedule: baseRetryDelay << attempt for attempts 0..maxRetries-1
	// (1s, 2s, 4s, 8s, 16s), then terminal failure.
	maxRetries     = 5
	baseRetryDelay = time.Second

	writeWait   = 10 * time.Second
	dialTimeout = 10 * time.Second
)

// failedMessage is surfaced once retries are exhausted; recovery needs an
// explicit Reconnect call.
const failedMessage = "Connection failed after repeated attempts. Reconnect manually to resume monitoring."

// Client owns the single logical websocket connection to the analysis
// service and the disconnected/connecting/connected/retrying/failed state
// machine around it. Each connection attempt carries a generation number;
// callbacks from superseded attempts are discarded so a late open or close
// can never resurrect state after a manual disconnect.
type Client struct {
	url    string
	userID string
	store  *Store
	router *Router
	tap    *FrameTap
	dialer *websocket.Dialer

	// retryBase is baseRetryDelay except in tests, which shrink it.
	retryBase time.Duration

	// mu guards the lifecycle state; writeMu serializes socket writes so
	// command senders and the close handshake never interleave.
	mu         sync.Mutex
	conn       *websocket.Conn
	generation uint64
	retryCount int
	retryTimer *time.Timer

	writeMu sync.Mutex
}

// NewClient creates a client for the peer at serverURL, connecting as
// userID. The websocket endpoint is derived as <serverURL>/ws/<userID>.
func NewClient(serverURL, userID string, store *Store, router *Router, tap *FrameTap) *Client {
	return &Client{
		url:       fmt.Sprintf("%s/ws/%s", strings.TrimRight(serverURL, "/"), userID),
		userID:    userID,
		store:     store,
		router:    router,
		tap:       tap,
		dialer:    &websocket.Dialer{HandshakeTimeout: dialTimeout},
		retryBase: baseRetryDelay,
	}
}

// retryDelay is the backoff before retry attempt n: base doubled per attempt.
func (c *Client) retryDelay(attempt int) time.Duration {
	return c.retryBase << attempt
}

// URL returns the derived websocket endpoint.
func (c *Client) URL() string {
	return c.url
}

// Connect opens the channel. It is idempotent: while a connection is open or
// an attempt is in flight it does nothing.
func (c *Client) Connect() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.connectLocked()
}

func (c *Client) connectLocked() {
	phase := c.store.Connection().Phase
	if phase == PhaseConnecting || phase == PhaseConnected {
		return
	}

	c.generation++
	gen := c.generation
	c.store.SetConnection(ConnectionState{Phase: PhaseConnecting})
	logrus.Infof("Connecting to %s (attempt %d)", c.url, c.retryCount+1)
	go c.dial(gen)
}

// dial performs one connection attempt. Runs off the lock; re-checks the
// generation before touching state.
func (c *Client) dial(gen uint64) {
	conn, _, err := c.dialer.Dial(c.url, nil)

	c.mu.Lock()
	if gen != c.generation {
		// Superseded by a manual disconnect or a newer attempt.
		c.mu.Unlock()
		if conn != nil {
			conn.Close()
		}
		return
	}

	if err != nil {
		logrus.Warnf("Connection to %s failed: %v", c.url, err)
		c.scheduleRetryLocked()
		c.mu.Unlock()
		return
	}

	c.conn = conn
	c.retryCount = 0
	c.stopRetryTimerLocked()
	c.store.SetConnection(ConnectionState{Phase: PhaseConnected})
	c.store.SetError("")
	c.mu.Unlock()

	logrus.Infof("Connected to %s", c.url)
	c.announce()
	go c.readLoop(gen, conn)
}

// announce sends the session-announce frame right after the channel opens.
func (c *Client) announce() {
	c.Send(models.ConnectFrame{
		Type:      models.TypeConnect,
		UserID:    c.userID,
		Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
	})
}

// readLoop drains inbound frames until the connection dies. Frames are
// handled one at a time; the router never sees two frames concurrently.
func (c *Client) readLoop(gen uint64, conn *websocket.Conn) {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			c.handleClose(gen, err)
			return
		}
		c.router.Handle(data)
		if c.tap != nil {
			c.tap.Offer(data)
		}
	}
}

// handleClose reacts to a non-manual closure. Manual disconnects bump the
// generation first, so they never reach the retry path through here.
func (c *Client) handleClose(gen uint64, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.generation {
		return
	}
	c.conn = nil

	if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
		logrus.Warnf("Connection closed unexpectedly: %v", err)
	} else {
		logrus.Infof("Connection closed: %v", err)
	}
	c.scheduleRetryLocked()
}

// scheduleRetryLocked arms the single-shot backoff timer, or gives up and
// enters the terminal failed phase once the attempt budget is spent.
func (c *Client) scheduleRetryLocked() {
	if c.retryCount >= maxRetries {
		c.store.SetConnection(ConnectionState{Phase: PhaseFailed})
		c.store.SetError(failedMessage)
		logrus.Errorf("Giving up after %d reconnect attempts", maxRetries)
		return
	}

	attempt := c.retryCount
	delay := c.retryDelay(attempt)
	gen := c.generation

	c.store.SetConnection(ConnectionState{Phase: PhaseRetrying, Attempt: attempt, NextDelay: delay})
	c.store.SetError(fmt.Sprintf("Connection lost. Retrying in %s...", delay))
	logrus.Infof("Scheduling reconnect attempt %d in %s", attempt+1, delay)

	c.stopRetryTimerLocked()
	c.retryTimer = time.AfterFunc(delay, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if gen != c.generation {
			return
		}
		c.retryCount++
		c.connectLocked()
	})
}

func (c *Client) stopRetryTimerLocked() {
	if c.retryTimer != nil {
		c.retryTimer.Stop()
		c.retryTimer = nil
	}
}

// Disconnect closes the channel with a normal-closure code and clears the
// mirrored state. It cancels any pending retry and must never trigger the
// retry path itself.
func (c *Client) Disconnect() {
	c.mu.Lock()
	c.generation++ // invalidate in-flight attempts and pending callbacks
	c.stopRetryTimerLocked()
	c.retryCount = 0
	conn := c.conn
	c.conn = nil
	c.store.SetConnection(ConnectionState{Phase: PhaseDisconnected})
	c.store.Clear()
	c.mu.Unlock()

	if conn != nil {
		c.writeMu.Lock()
		conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(writeWait))
		c.writeMu.Unlock()
		conn.Close()
		logrus.Info("Disconnected")
	}
}

// Reconnect is the explicit recovery entry point. It resets the retry budget
// and connects, which also lifts the terminal failed phase.
func (c *Client) Reconnect() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopRetryTimerLocked()
	c.retryCount = 0
	c.connectLocked()
}

// Send transmits one frame if the session is connected; otherwise the frame
// is silently dropped. Senders are expected to re-derive fresh values once
// connectivity resumes rather than queueing stale ones.
func (c *Client) Send(v interface{}) bool {
	c.mu.Lock()
	conn := c.conn
	gen := c.generation
	c.mu.Unlock()

	if conn == nil {
		logrus.Debugf("Dropping outbound %T: not connected", v)
		return false
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := conn.WriteJSON(v); err != nil {
		// A write failure is surfaced locally; actual closure is detected
		// by the read loop.
		logrus.Warnf("Failed to send %T: %v", v, err)
		c.reportSendFailure(gen, err)
		return false
	}
	return true
}

// reportSendFailure surfaces a write error unless the connection it happened
// on has been superseded, so a failing write racing a Disconnect cannot
// leave an error on the freshly cleared state.
func (c *Client) reportSendFailure(gen uint64, err error) {
	c.mu.Lock()
	stale := gen != c.generation
	c.mu.Unlock()
	if stale {
		return
	}
	c.store.SetError(fmt.Sprintf("Send failed: %v", err))
}
