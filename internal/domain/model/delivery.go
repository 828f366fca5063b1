package model

// DeliveryStatus tracks notification delivery reported by the messaging provider.
type DeliveryStatus string

const (
	DeliveryStatusPending   DeliveryStatus = "pending"
	DeliveryStatusSent      DeliveryStatus = "sent"
	DeliveryStatusDelivered DeliveryStatus = "delivered"
	DeliveryStatusRead      DeliveryStatus = "read"
	DeliveryStatusFailed    DeliveryStatus = "failed"
)

// Rank orders statuses along pending < sent < delivered < read.
// Failed ranks -1 and unknown values rank -2.
func (s DeliveryStatus) Rank() int {
	switch s {
	case DeliveryStatusPending:
		return 0
	case DeliveryStatusSent:
		return 1
	case DeliveryStatusDelivered:
		return 2
	case DeliveryStatusRead:
		return 3
	case DeliveryStatusFailed:
		return -1
	default:
		return -2
	}
}

// Valid reports whether s is one of the known statuses.
func (s DeliveryStatus) Valid() bool {
	return s.Rank() != -2
}

// Terminal reports whether no further transition may leave s.
func (s DeliveryStatus) Terminal() bool {
	return s == DeliveryStatusFailed
}

// Advance returns the status after observing next. Failed absorbs everything,
// an incoming failed always wins, otherwise the higher rank is kept.
func (s DeliveryStatus) Advance(next DeliveryStatus) DeliveryStatus {
	if !next.Valid() {
		return s
	}
	if s.Terminal() {
		return s
	}
	if next == DeliveryStatusFailed {
		return DeliveryStatusFailed
	}
	if next.Rank() > s.Rank() {
		return next
	}
	return s
}

// ParseDeliveryStatus maps a provider status string onto the lattice.
func ParseDeliveryStatus(raw string) (DeliveryStatus, bool) {
	s := DeliveryStatus(raw)
	if !s.Valid() {
		return "", false
	}
	return s, true
}
