package physics

import (
	"cmp"
	"maps"
	"slices"

	"github.com/torkelz/havenborough/physics/actor"
)

type EventType uint8

const (
	TRIGGER_ENTER EventType = iota
	COLLISION_ENTER
	TRIGGER_STAY
	COLLISION_STAY
	TRIGGER_EXIT
	COLLISION_EXIT
	ON_LANDED
)

// Event is delivered to the listeners subscribed to its Type
type Event interface {
	Type() EventType
}

type EventListener func(event Event)

// Trigger events report contacts where at least one volume has its collision
// response disabled. Nothing was pushed out.
type TriggerEnterEvent struct {
	BodyA, BodyB actor.Handle
	Hit          HitData
}

type TriggerStayEvent struct {
	BodyA, BodyB actor.Handle
	Hit          HitData
}

type TriggerExitEvent struct {
	BodyA, BodyB actor.Handle
}

// Collision events report contacts that were resolved
type CollisionEnterEvent struct {
	BodyA, BodyB actor.Handle
	Hit          HitData
}

type CollisionStayEvent struct {
	BodyA, BodyB actor.Handle
	Hit          HitData
}

type CollisionExitEvent struct {
	BodyA, BodyB actor.Handle
}

// LandedEvent is raised when a body goes from in the air to resting on something
type LandedEvent struct {
	Body actor.Handle
}

func (TriggerEnterEvent) Type() EventType   { return TRIGGER_ENTER }
func (TriggerStayEvent) Type() EventType    { return TRIGGER_STAY }
func (TriggerExitEvent) Type() EventType    { return TRIGGER_EXIT }
func (CollisionEnterEvent) Type() EventType { return COLLISION_ENTER }
func (CollisionStayEvent) Type() EventType  { return COLLISION_STAY }
func (CollisionExitEvent) Type() EventType  { return COLLISION_EXIT }
func (LandedEvent) Type() EventType         { return ON_LANDED }

// pairKey identifies two touching bodies, lowest handle first
type pairKey struct {
	bodyA actor.Handle
	bodyB actor.Handle
}

func makePairKey(a, b actor.Handle) pairKey {
	return pairKey{bodyA: min(a, b), bodyB: max(a, b)}
}

func (p pairKey) involves(handle actor.Handle) bool {
	return p.bodyA == handle || p.bodyB == handle
}

func comparePairKeys(a, b pairKey) int {
	return cmp.Or(cmp.Compare(a.bodyA, b.bodyA), cmp.Compare(a.bodyB, b.bodyB))
}

// contact is the state of a pair of bodies during one tick
type contact struct {
	hit       HitData
	isTrigger bool
}

// Events collects contacts during the sub-steps of an Update and turns them
// into enter, stay and exit notifications when the Update ends.
type Events struct {
	listeners map[EventType][]EventListener
	pending   []Event

	// contacts of the previous and of the running tick
	previous map[pairKey]contact
	current  map[pairKey]contact

	scratch []pairKey
}

func NewEvents() Events {
	return Events{
		listeners: make(map[EventType][]EventListener),
		pending:   make([]Event, 0, 64),
		previous:  make(map[pairKey]contact),
		current:   make(map[pairKey]contact),
	}
}

// Subscribe registers listener for every event of eventType.
// Listeners run synchronously at the end of World.Update.
func (e *Events) Subscribe(eventType EventType, listener EventListener) {
	e.listeners[eventType] = append(e.listeners[eventType], listener)
}

// recordHit notes a contact found during a sub-step. The first hit of a pair
// within a tick is the one reported, and a resolved contact turns the whole
// pair into a collision.
func (e *Events) recordHit(hit HitData, isTrigger bool) {
	key := makePairKey(hit.Collider, hit.Victim)
	if c, ok := e.current[key]; ok {
		c.isTrigger = c.isTrigger && isTrigger
		e.current[key] = c
		return
	}

	e.current[key] = contact{hit: hit, isTrigger: isTrigger}
}

func (e *Events) emitLanded(body actor.Handle) {
	e.pending = append(e.pending, LandedEvent{Body: body})
}

// forget drops the contacts of a released body. No exit is reported for them.
func (e *Events) forget(body actor.Handle) {
	maps.DeleteFunc(e.previous, func(key pairKey, _ contact) bool { return key.involves(body) })
	maps.DeleteFunc(e.current, func(key pairKey, _ contact) bool { return key.involves(body) })
}

func (e *Events) reset() {
	clear(e.previous)
	clear(e.current)
	e.pending = e.pending[:0]
}

// sortedKeys fills the scratch buffer with the keys of m accepted by keep, in handle order
func (e *Events) sortedKeys(m map[pairKey]contact, keep func(pairKey) bool) []pairKey {
	e.scratch = e.scratch[:0]
	for key := range m {
		if keep(key) {
			e.scratch = append(e.scratch, key)
		}
	}
	slices.SortFunc(e.scratch, comparePairKeys)

	return e.scratch
}

func contactEvent(key pairKey, c contact, stay bool) Event {
	switch {
	case c.isTrigger && stay:
		return TriggerStayEvent{BodyA: key.bodyA, BodyB: key.bodyB, Hit: c.hit}
	case c.isTrigger:
		return TriggerEnterEvent{BodyA: key.bodyA, BodyB: key.bodyB, Hit: c.hit}
	case stay:
		return CollisionStayEvent{BodyA: key.bodyA, BodyB: key.bodyB, Hit: c.hit}
	default:
		return CollisionEnterEvent{BodyA: key.bodyA, BodyB: key.bodyB, Hit: c.hit}
	}
}

func exitEvent(key pairKey, c contact) Event {
	if c.isTrigger {
		return TriggerExitEvent{BodyA: key.bodyA, BodyB: key.bodyB}
	}
	return CollisionExitEvent{BodyA: key.bodyA, BodyB: key.bodyB}
}

// diffContacts queues an enter or stay event for every contact of the tick,
// then an exit event for every contact of the previous tick that is gone.
func (e *Events) diffContacts() {
	for _, key := range e.sortedKeys(e.current, func(pairKey) bool { return true }) {
		_, stay := e.previous[key]
		e.pending = append(e.pending, contactEvent(key, e.current[key], stay))
	}

	gone := func(key pairKey) bool {
		_, ok := e.current[key]
		return !ok
	}
	for _, key := range e.sortedKeys(e.previous, gone) {
		e.pending = append(e.pending, exitEvent(key, e.previous[key]))
	}

	e.previous, e.current = e.current, e.previous
	clear(e.current)
}

// flush ends the tick and delivers every pending event
func (e *Events) flush() {
	e.diffContacts()

	for _, event := range e.pending {
		for _, listener := range e.listeners[event.Type()] {
			listener(event)
		}
	}
	e.pending = e.pending[:0]
}
