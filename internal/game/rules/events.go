package rules

// Listener defines a callback that reacts to a published event.
type Listener[E any] func(E)

type subscription[E any] struct {
	handle   int
	filter   func(E) bool
	callback Listener[E]
}

// EventBus is a synchronous publish/subscribe bus used by external
// observers. Listeners are called in subscription order. The bus is not
// safe for concurrent use; a match is driven from one goroutine.
type EventBus[E any] struct {
	subs       []subscription[E]
	nextHandle int
}

// NewEventBus constructs a fresh event bus instance.
func NewEventBus[E any]() *EventBus[E] {
	return &EventBus[E]{}
}

// Subscribe registers a listener for all events and returns a handle.
func (bus *EventBus[E]) Subscribe(listener Listener[E]) int {
	return bus.SubscribeFiltered(nil, listener)
}

// SubscribeFiltered registers a listener that only sees events accepted
// by filter. A nil filter accepts everything.
func (bus *EventBus[E]) SubscribeFiltered(filter func(E) bool, listener Listener[E]) int {
	if listener == nil {
		return -1
	}
	handle := bus.nextHandle
	bus.nextHandle++
	bus.subs = append(bus.subs, subscription[E]{
		handle:   handle,
		filter:   filter,
		callback: listener,
	})
	return handle
}

// Unsubscribe removes the listener identified by the provided handle.
func (bus *EventBus[E]) Unsubscribe(handle int) {
	for i := range bus.subs {
		if bus.subs[i].handle == handle {
			bus.subs = append(bus.subs[:i], bus.subs[i+1:]...)
			return
		}
	}
}

// Len returns the number of registered listeners.
func (bus *EventBus[E]) Len() int {
	return len(bus.subs)
}

// Publish delivers the event to all registered listeners synchronously.
func (bus *EventBus[E]) Publish(event E) {
	for _, sub := range bus.subs {
		if sub.filter != nil && !sub.filter(event) {
			continue
		}
		sub.callback(event)
	}
}
