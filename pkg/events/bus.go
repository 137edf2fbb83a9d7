package events

import (
	"sync"

	"github.com/ember-mush/goembermud/pkg/worlddb"
)

// Subscriber receives events from the bus.
type Subscriber interface {
	Receive(ev Event)
	Closed() bool
}

// Bus is a per-character pub/sub event bus with support for global
// subscribers. Game code emits structured events; each subscriber
// (Descriptor, logger, etc.) encodes them per-transport.
type Bus struct {
	mu          sync.RWMutex
	subscribers map[worlddb.ID][]Subscriber
	global      []Subscriber
}

// NewBus creates a new event bus.
func NewBus() *Bus {
	return &Bus{
		subscribers: make(map[worlddb.ID][]Subscriber),
	}
}

// Subscribe registers a subscriber for a specific character's events.
func (b *Bus) Subscribe(ch worlddb.ID, sub Subscriber) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subscribers[ch] = append(b.subscribers[ch], sub)
}

// Unsubscribe removes a subscriber for a specific character.
func (b *Bus) Unsubscribe(ch worlddb.ID, sub Subscriber) {
	b.mu.Lock()
	defer b.mu.Unlock()
	subs := b.subscribers[ch]
	for i, s := range subs {
		if s == sub {
			b.subscribers[ch] = append(subs[:i], subs[i+1:]...)
			break
		}
	}
	if len(b.subscribers[ch]) == 0 {
		delete(b.subscribers, ch)
	}
}

// SubscribeGlobal registers a subscriber that receives all events.
func (b *Bus) SubscribeGlobal(sub Subscriber) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.global = append(b.global, sub)
}

// Emit sends an event to the character named in ev.Character and all
// global subscribers.
func (b *Bus) Emit(ev Event) {
	b.mu.RLock()
	subs := b.subscribers[ev.Character]
	globals := b.global
	b.mu.RUnlock()

	for _, s := range subs {
		if !s.Closed() {
			s.Receive(ev)
		}
	}
	for _, s := range globals {
		if !s.Closed() {
			s.Receive(ev)
		}
	}
}

// EmitTo sends an event to a specific character (overriding ev.Character).
func (b *Bus) EmitTo(ch worlddb.ID, ev Event) {
	ev.Character = ch
	b.Emit(ev)
}

// EmitToRoom sends an event to every character in a room, in the
// room's contents order.
func (b *Bus) EmitToRoom(w *worlddb.World, room *worlddb.Entity, ev Event) {
	b.emitToRoomExcept(w, room, worlddb.Nothing, ev)
}

// EmitToRoomExcept sends an event to every character in a room except
// one (usually the acting character, who gets separate narration).
func (b *Bus) EmitToRoomExcept(w *worlddb.World, room *worlddb.Entity, except worlddb.ID, ev Event) {
	b.emitToRoomExcept(w, room, except, ev)
}

func (b *Bus) emitToRoomExcept(w *worlddb.World, room *worlddb.Entity, except worlddb.ID, ev Event) {
	if room == nil {
		return
	}
	for _, occupant := range w.ContentsOf(room) {
		if occupant.Type != worlddb.TypeCharacter || occupant.ID == except {
			continue
		}
		charEv := ev
		charEv.Character = occupant.ID
		charEv.Room = room.ID

		b.mu.RLock()
		subs := b.subscribers[occupant.ID]
		b.mu.RUnlock()

		for _, s := range subs {
			if !s.Closed() {
				s.Receive(charEv)
			}
		}
	}

	ev.Room = room.ID
	b.mu.RLock()
	globals := b.global
	b.mu.RUnlock()
	for _, s := range globals {
		if !s.Closed() {
			s.Receive(ev)
		}
	}
}

// Subscribers returns the number of subscribers for a character.
func (b *Bus) Subscribers(ch worlddb.ID) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers[ch])
}

// Cleanup removes closed subscribers from all lists.
func (b *Bus) Cleanup() {
	b.mu.Lock()
	defer b.mu.Unlock()

	for ch, subs := range b.subscribers {
		var active []Subscriber
		for _, s := range subs {
			if !s.Closed() {
				active = append(active, s)
			}
		}
		if len(active) == 0 {
			delete(b.subscribers, ch)
		} else {
			b.subscribers[ch] = active
		}
	}

	var activeGlobal []Subscriber
	for _, s := range b.global {
		if !s.Closed() {
			activeGlobal = append(activeGlobal, s)
		}
	}
	b.global = activeGlobal
}
