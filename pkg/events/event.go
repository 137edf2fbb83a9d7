package events

import "github.com/ember-mush/goembermud/pkg/worlddb"

// EventType classifies events for transport-specific encoding.
type EventType int

const (
	EvText       EventType = iota // Raw text (universal fallback)
	EvSay                         // Speech
	EvAct                         // Rendered action narration
	EvRoom                        // Room description
	EvMove                        // Arrive/depart
	EvConnect                     // Player connected
	EvDisconnect                  // Player disconnected
	EvPrompt                      // Prompt/status update
)

// String returns a human-readable name for the event type.
func (t EventType) String() string {
	switch t {
	case EvText:
		return "text"
	case EvSay:
		return "say"
	case EvAct:
		return "act"
	case EvRoom:
		return "room"
	case EvMove:
		return "move"
	case EvConnect:
		return "connect"
	case EvDisconnect:
		return "disconnect"
	case EvPrompt:
		return "prompt"
	default:
		return "unknown"
	}
}

// Event is a structured game event that flows through the event bus.
// Transports decide how to encode each event: telnet uses Text,
// WebSocket clients get the structured data as JSON.
type Event struct {
	Type      EventType
	Character worlddb.ID     // Recipient (Nothing for broadcast)
	Source    worlddb.ID     // Who generated the event
	Room      worlddb.ID     // Room context
	Text      string         // Pre-formatted text (telnet uses this)
	Data      map[string]any // Structured data for JSON clients
}
