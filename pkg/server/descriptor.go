package server

import (
	"bufio"
	"fmt"
	"net"
	"strings"
	"sync"
	"time"

	"github.com/ember-mush/goembermud/pkg/events"
	"github.com/ember-mush/goembermud/pkg/worlddb"
)

// TransportType identifies the kind of transport a Descriptor uses.
type TransportType int

const (
	TransportTCP       TransportType = iota // Traditional telnet/TCP
	TransportWebSocket                      // WebSocket (JSON events)
)

// ConnState tracks the state of a connection.
type ConnState int

const (
	ConnLogin     ConnState = iota // Pre-login: awaiting a character name
	ConnConnected                  // Playing
)

// Descriptor represents a single client connection.
// It implements events.Subscriber so it can receive events from the bus.
type Descriptor struct {
	ID        int
	Conn      net.Conn
	Reader    *bufio.Reader
	State     ConnState
	Character worlddb.ID
	Addr      string
	ConnTime  time.Time
	LastCmd   time.Time
	CmdCount  int
	Transport TransportType

	// SendFunc overrides the default Send behavior (used by the
	// WebSocket transport). If nil, the default TCP Send is used.
	SendFunc func(msg string)
	// ReceiveFunc overrides the default Receive behavior (used by the
	// WebSocket transport). If nil, events render to text via Send.
	ReceiveFunc func(ev events.Event)

	mu     sync.Mutex
	closed bool
}

// NewDescriptor wraps a net.Conn into a Descriptor.
func NewDescriptor(id int, conn net.Conn) *Descriptor {
	now := time.Now()
	return &Descriptor{
		ID:        id,
		Conn:      conn,
		Reader:    bufio.NewReaderSize(conn, 4096),
		State:     ConnLogin,
		Character: worlddb.Nothing,
		Addr:      conn.RemoteAddr().String(),
		ConnTime:  now,
		LastCmd:   now,
	}
}

// Send writes a string to the client connection.
func (d *Descriptor) Send(msg string) {
	if d.SendFunc != nil {
		d.SendFunc(msg)
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}
	// Ensure lines end with \r\n for telnet
	if !strings.HasSuffix(msg, "\n") {
		msg += "\r\n"
	}
	d.Conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
	d.Conn.Write([]byte(msg))
}

// Sendf formats and sends.
func (d *Descriptor) Sendf(format string, args ...any) {
	d.Send(fmt.Sprintf(format, args...))
}

// Close shuts down the connection.
func (d *Descriptor) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.closed {
		d.closed = true
		if d.Conn != nil {
			d.Conn.Close()
		}
	}
}

// IsClosed returns whether the connection has been closed.
func (d *Descriptor) IsClosed() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.closed
}

// Receive implements events.Subscriber, delivering an event to the
// client in the encoding this transport uses.
func (d *Descriptor) Receive(ev events.Event) {
	if d.ReceiveFunc != nil {
		d.ReceiveFunc(ev)
		return
	}
	if ev.Text != "" {
		d.Send(ev.Text)
	}
}

// Closed implements events.Subscriber.
func (d *Descriptor) Closed() bool {
	return d.IsClosed()
}

var _ events.Subscriber = (*Descriptor)(nil)

// ConnManager tracks all active connections.
type ConnManager struct {
	mu          sync.RWMutex
	descriptors map[int]*Descriptor
	nextID      int
	byCharacter map[worlddb.ID][]*Descriptor
	EventBus    *events.Bus
}

// NewConnManager creates a new connection manager.
func NewConnManager() *ConnManager {
	return &ConnManager{
		descriptors: make(map[int]*Descriptor),
		byCharacter: make(map[worlddb.ID][]*Descriptor),
		nextID:      1,
	}
}

// Add registers a new descriptor.
func (cm *ConnManager) Add(d *Descriptor) {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	cm.descriptors[d.ID] = d
}

// Remove unregisters a descriptor and unsubscribes it from the event bus.
func (cm *ConnManager) Remove(d *Descriptor) {
	if cm.EventBus != nil && d.Character != worlddb.Nothing {
		cm.EventBus.Unsubscribe(d.Character, d)
	}

	cm.mu.Lock()
	defer cm.mu.Unlock()
	delete(cm.descriptors, d.ID)
	if d.Character != worlddb.Nothing {
		descs := cm.byCharacter[d.Character]
		for i, dd := range descs {
			if dd.ID == d.ID {
				cm.byCharacter[d.Character] = append(descs[:i], descs[i+1:]...)
				break
			}
		}
		if len(cm.byCharacter[d.Character]) == 0 {
			delete(cm.byCharacter, d.Character)
		}
	}
}

// Login associates a descriptor with a character and subscribes it to
// the event bus.
func (cm *ConnManager) Login(d *Descriptor, ch worlddb.ID) {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	d.State = ConnConnected
	d.Character = ch
	cm.byCharacter[ch] = append(cm.byCharacter[ch], d)

	if cm.EventBus != nil {
		cm.EventBus.Subscribe(ch, d)
	}
}

// NextID returns the next descriptor ID.
func (cm *ConnManager) NextID() int {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	id := cm.nextID
	cm.nextID++
	return id
}

// GetByCharacter returns all descriptors for a character.
func (cm *ConnManager) GetByCharacter(ch worlddb.ID) []*Descriptor {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	return cm.byCharacter[ch]
}

// IsConnected reports whether the character has at least one active
// connection.
func (cm *ConnManager) IsConnected(ch worlddb.ID) bool {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	return len(cm.byCharacter[ch]) > 0
}

// ConnectedCharacters returns all currently connected character IDs.
func (cm *ConnManager) ConnectedCharacters() []worlddb.ID {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	chars := make([]worlddb.ID, 0, len(cm.byCharacter))
	for ch := range cm.byCharacter {
		chars = append(chars, ch)
	}
	return chars
}

// Count returns the number of active connections.
func (cm *ConnManager) Count() int {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	return len(cm.descriptors)
}

// FormatIdleTime formats a duration as a human-readable idle time.
func FormatIdleTime(d time.Duration) string {
	secs := int(d.Seconds())
	if secs < 60 {
		return fmt.Sprintf("%ds", secs)
	}
	if secs < 3600 {
		return fmt.Sprintf("%dm", secs/60)
	}
	if secs < 86400 {
		return fmt.Sprintf("%dh", secs/3600)
	}
	return fmt.Sprintf("%dd", secs/86400)
}
