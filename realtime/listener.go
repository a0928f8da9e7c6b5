package realtime

import (
	"encoding/json"
	"errors"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/MrEthical07/goSession/session"
)

// Change-feed event names sent by the identity service.
const (
	EventSignedIn       = "SIGNED_IN"
	EventSignedOut      = "SIGNED_OUT"
	EventTokenRefreshed = "TOKEN_REFRESHED"
	EventUserUpdated    = "USER_UPDATED"
)

// ErrListenerClosed is returned when Listen is called on an unsubscribed listener.
var ErrListenerClosed = errors.New("realtime: listener closed")

// Frame is one message on the change-notification stream. Session is null
// for SIGNED_OUT.
type Frame struct {
	Event   string           `json:"event"`
	Session *session.Session `json:"session"`
}

// Dialer abstracts websocket.DefaultDialer for tests.
type Dialer interface {
	Dial(urlStr string, requestHeader http.Header) (*websocket.Conn, error)
}

type defaultDialer struct{}

func (defaultDialer) Dial(urlStr string, requestHeader http.Header) (*websocket.Conn, error) {
	conn, _, err := websocket.DefaultDialer.Dial(urlStr, requestHeader)
	return conn, err
}

// Listener holds one websocket connection to the identity service's change
// feed and relays decoded frames to a callback. One connection per
// registration; Unsubscribe closes it and stops delivery.
type Listener struct {
	id       string
	conn     *websocket.Conn
	callback func(*session.Session)

	mu     sync.Mutex
	closed bool
	done   chan struct{}
}

// Subscribe dials the change feed and starts relaying frames to callback.
// The callback receives the full new session on every change, or nil when
// the service reports no active session. Malformed frames are skipped.
func Subscribe(feedURL string, callback func(*session.Session)) (*Listener, error) {
	return subscribe(defaultDialer{}, feedURL, nil, callback)
}

// SubscribeWithHeader dials the change feed with extra headers (API keys,
// bearer tokens).
func SubscribeWithHeader(feedURL string, header http.Header, callback func(*session.Session)) (*Listener, error) {
	return subscribe(defaultDialer{}, feedURL, header, callback)
}

func subscribe(d Dialer, feedURL string, header http.Header, callback func(*session.Session)) (*Listener, error) {
	if callback == nil {
		return nil, errors.New("realtime: nil callback")
	}

	conn, err := d.Dial(feedURL, header)
	if err != nil {
		return nil, err
	}

	l := &Listener{
		id:       uuid.NewString(),
		conn:     conn,
		callback: callback,
		done:     make(chan struct{}),
	}
	go l.readLoop()
	return l, nil
}

// ID returns the registration identifier assigned to this listener.
func (l *Listener) ID() string {
	return l.id
}

func (l *Listener) readLoop() {
	defer close(l.done)

	for {
		_, raw, err := l.conn.ReadMessage()
		if err != nil {
			// Connection gone: either Unsubscribe closed it or the server
			// went away. No reconnect here; the store reconciles through
			// its authoritative fetch on next start.
			return
		}

		var frame Frame
		if err := json.Unmarshal(raw, &frame); err != nil {
			continue
		}

		l.mu.Lock()
		closed := l.closed
		l.mu.Unlock()
		if closed {
			return
		}

		if frame.Event == EventSignedOut {
			l.callback(nil)
			continue
		}
		l.callback(frame.Session)
	}
}

// Unsubscribe closes the connection and waits for the read loop to stop, so
// no callback fires after it returns. Idempotent.
func (l *Listener) Unsubscribe() {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return
	}
	l.closed = true
	l.mu.Unlock()

	_ = l.conn.Close()
	<-l.done
}
