package shared

import "fmt"

// Health represents an immutable hull condition
type Health struct {
	Current int
	Max     int
}

// NewHealth creates a new health value object with validation
func NewHealth(current, max int) (*Health, error) {
	if max <= 0 {
		return nil, fmt.Errorf("max health must be positive")
	}
	if current < 0 || current > max {
		return nil, fmt.Errorf("health %d outside [0, %d]", current, max)
	}
	return &Health{Current: current, Max: max}, nil
}

// Missing returns the points needed to reach full health
func (h *Health) Missing() int {
	return h.Max - h.Current
}

// IsFull reports whether no repair is possible
func (h *Health) IsFull() bool {
	return h.Current >= h.Max
}

// Restore returns new Health raised by amount, clamped at max
func (h *Health) Restore(amount int) *Health {
	next := h.Current + amount
	if next > h.Max {
		next = h.Max
	}
	if next < 0 {
		next = 0
	}
	return &Health{Current: next, Max: h.Max}
}

func (h *Health) String() string {
	return fmt.Sprintf("Health(%d/%d)", h.Current, h.Max)
}
