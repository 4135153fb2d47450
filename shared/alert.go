package shared

import (
	"fmt"
	"time"
)

// AlertType represents the category of an alert event.
type AlertType int

const (
	TechnicalAlert AlertType = iota
	VolatilityAlert
	SentimentAlert
)

// String stringifies the provided alert type.
func (t AlertType) String() string {
	switch t {
	case TechnicalAlert:
		return "TECHNICAL"
	case VolatilityAlert:
		return "VOLATILITY"
	case SentimentAlert:
		return "SENTIMENT"
	default:
		return "unknown"
	}
}

// MarshalText encodes the alert type for json payloads.
func (t AlertType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText decodes the alert type from json payloads.
func (t *AlertType) UnmarshalText(text []byte) error {
	switch string(text) {
	case "TECHNICAL":
		*t = TechnicalAlert
	case "VOLATILITY":
		*t = VolatilityAlert
	case "SENTIMENT":
		*t = SentimentAlert
	default:
		return fmt.Errorf("unknown alert type: %s", text)
	}

	return nil
}

// AlertSeverity represents the severity of an alert event.
type AlertSeverity int

const (
	Info AlertSeverity = iota
	Opportunity
	Warning
	Danger
	Success
)

// String stringifies the provided alert severity.
func (s AlertSeverity) String() string {
	switch s {
	case Info:
		return "info"
	case Opportunity:
		return "opportunity"
	case Warning:
		return "warning"
	case Danger:
		return "danger"
	case Success:
		return "success"
	default:
		return "unknown"
	}
}

// MarshalText encodes the alert severity for json payloads.
func (s AlertSeverity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText decodes the alert severity from json payloads.
func (s *AlertSeverity) UnmarshalText(text []byte) error {
	switch string(text) {
	case "info":
		*s = Info
	case "opportunity":
		*s = Opportunity
	case "warning":
		*s = Warning
	case "danger":
		*s = Danger
	case "success":
		*s = Success
	default:
		return fmt.Errorf("unknown alert severity: %s", text)
	}

	return nil
}

// AlertEvent represents a single triggered alert. Events are immutable once
// created.
type AlertEvent struct {
	// ID uniquely identifies the event.
	ID string `json:"id"`
	// Type is the alert category.
	Type AlertType `json:"type"`
	// Severity is the alert severity.
	Severity AlertSeverity `json:"severity"`
	// Symbol is the local symbol of the affected instrument.
	Symbol string `json:"symbol"`
	// Message is the human readable alert description.
	Message string `json:"message"`
	// EmittedAt is the observation time of the quote that triggered the event.
	EmittedAt time.Time `json:"emittedAt"`
}
