package shared

// MessageType represents the kind of a subscriber message.
type MessageType int

const (
	WelcomeMessage MessageType = iota
	MarketUpdateMessage
	AlertsMessage
	NewsMessage
)

// String stringifies the provided message type.
func (m MessageType) String() string {
	switch m {
	case WelcomeMessage:
		return "WELCOME"
	case MarketUpdateMessage:
		return "MARKET_UPDATE"
	case AlertsMessage:
		return "ALERTS"
	case NewsMessage:
		return "NEWS"
	default:
		return "unknown"
	}
}

// MarshalText encodes the message type for json payloads.
func (m MessageType) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// Message represents a single frame published to subscribers.
type Message struct {
	// Type is the message kind.
	Type MessageType `json:"type"`
	// Data is the message payload.
	Data any `json:"data,omitempty"`
}

// InstrumentUpdate represents the per-instrument entry of a market update
// batch.
type InstrumentUpdate struct {
	// Quote is the live quote for the instrument.
	Quote Quote `json:"quote"`
	// Snapshot is the derived indicator state, nil when the instrument's
	// history is too short to compute one.
	Snapshot *IndicatorSnapshot `json:"technical,omitempty"`
}
