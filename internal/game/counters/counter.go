package counters

import "sort"

// Well-known counter names used across content.
const (
	// UsedThisRound marks a once-per-round effect as spent.
	UsedThisRound = "used_this_round"
	// RoundsRemaining counts down a duration in rounds.
	RoundsRemaining = "rounds_remaining"
	// TriggeredThisRound counts triggers of a per-round limited effect.
	TriggeredThisRound = "triggered_this_round"
)

// Counters is the private memory of a game object: named non-negative
// integers. The zero value is ready to use.
type Counters struct {
	Values map[string]int `json:"values,omitempty"`
}

// NewCounters creates a collection with the given initial values.
func NewCounters(initial map[string]int) Counters {
	c := Counters{}
	for name, value := range initial {
		c.Set(name, value)
	}
	return c
}

// Get returns the value of a counter, zero when absent.
func (c *Counters) Get(name string) int {
	return c.Values[name]
}

// Has reports whether the counter is positive.
func (c *Counters) Has(name string) bool {
	return c.Get(name) > 0
}

// Set stores value, clamped at zero. Zero values are deleted.
func (c *Counters) Set(name string, value int) {
	if value <= 0 {
		delete(c.Values, name)
		return
	}
	if c.Values == nil {
		c.Values = make(map[string]int)
	}
	c.Values[name] = value
}

// Add adds delta and returns the new value.
func (c *Counters) Add(name string, delta int) int {
	c.Set(name, c.Get(name)+delta)
	return c.Get(name)
}

// Reset clears the named counters, or every counter when none are named.
func (c *Counters) Reset(names ...string) {
	if len(names) == 0 {
		c.Values = nil
		return
	}
	for _, name := range names {
		delete(c.Values, name)
	}
}

// Names returns the names of all positive counters in sorted order.
func (c *Counters) Names() []string {
	names := make([]string, 0, len(c.Values))
	for name := range c.Values {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Clone returns an independent copy.
func (c Counters) Clone() Counters {
	return NewCounters(c.Values)
}
