package risk

import (
	"encoding/json"
	"fmt"
	"time"
)

type EventType string

const (
	EventWarning70            EventType = "warning_70"
	EventWarning90            EventType = "warning_90"
	EventLimitReached         EventType = "limit_reached"
	EventTradingDisabled      EventType = "trading_disabled"
	EventTradingEnabled       EventType = "trading_enabled"
	EventPositionLimitWarning EventType = "position_limit_warning"
	EventCorrelationWarning   EventType = "correlation_warning"
)

// EventTypes lists every event type.
var EventTypes = []EventType{
	EventWarning70,
	EventWarning90,
	EventLimitReached,
	EventTradingDisabled,
	EventTradingEnabled,
	EventPositionLimitWarning,
	EventCorrelationWarning,
}

func (t EventType) Valid() bool {
	for _, et := range EventTypes {
		if et == t {
			return true
		}
	}
	return false
}

// RiskEvent is an append-only log entry. At most one event per
// (UserID, Type, EventDate) is stored.
type RiskEvent struct {
	ID             string        `json:"id"`
	UserID         string        `json:"user_id"`
	Type           EventType     `json:"event_type"`
	EventDate      string        `json:"event_date"`
	TriggerValue   float64       `json:"trigger_value"`
	ThresholdValue float64       `json:"threshold_value"`
	Message        string        `json:"message"`
	Metadata       EventMetadata `json:"-"`
	CreatedAt      time.Time     `json:"created_at"`
}

// EventMetadata is the closed set of metadata payloads an event may carry.
type EventMetadata interface {
	Kind() string
	isEventMetadata()
}

// MetadataVersion is written into every encoded payload.
const MetadataVersion = 1

type LossLimitMeta struct {
	CurrentPnl           float64 `json:"current_pnl"`
	StartingBalance      float64 `json:"starting_balance"`
	DailyLossLimit       float64 `json:"daily_loss_limit"`
	LossLimitUsedPercent float64 `json:"loss_limit_used_percent"`
}

type PositionLimitMeta struct {
	OpenPositions          int `json:"open_positions"`
	MaxConcurrentPositions int `json:"max_concurrent_positions"`
}

type CorrelationMeta struct {
	Bucket      string  `json:"bucket"`
	Exposure    float64 `json:"exposure"`
	MaxExposure float64 `json:"max_exposure"`
}

func (LossLimitMeta) Kind() string     { return "loss_limit" }
func (PositionLimitMeta) Kind() string { return "position_limit" }
func (CorrelationMeta) Kind() string   { return "correlation" }

func (LossLimitMeta) isEventMetadata()     {}
func (PositionLimitMeta) isEventMetadata() {}
func (CorrelationMeta) isEventMetadata()   {}

type metadataEnvelope struct {
	Kind    string          `json:"kind"`
	Version int             `json:"version"`
	Data    json.RawMessage `json:"data"`
}

// MarshalMetadata encodes m with its kind and version. A nil m encodes as "null".
func MarshalMetadata(m EventMetadata) ([]byte, error) {
	if m == nil {
		return []byte("null"), nil
	}
	data, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	return json.Marshal(metadataEnvelope{Kind: m.Kind(), Version: MetadataVersion, Data: data})
}

// UnmarshalMetadata decodes a payload written by MarshalMetadata.
func UnmarshalMetadata(b []byte) (EventMetadata, error) {
	if len(b) == 0 || string(b) == "null" {
		return nil, nil
	}
	var env metadataEnvelope
	if err := json.Unmarshal(b, &env); err != nil {
		return nil, fmt.Errorf("decode metadata envelope: %w", err)
	}
	if env.Version != MetadataVersion {
		return nil, fmt.Errorf("unsupported metadata version %d", env.Version)
	}

	var (
		m   EventMetadata
		err error
	)
	switch env.Kind {
	case LossLimitMeta{}.Kind():
		var v LossLimitMeta
		err = json.Unmarshal(env.Data, &v)
		m = v
	case PositionLimitMeta{}.Kind():
		var v PositionLimitMeta
		err = json.Unmarshal(env.Data, &v)
		m = v
	case CorrelationMeta{}.Kind():
		var v CorrelationMeta
		err = json.Unmarshal(env.Data, &v)
		m = v
	default:
		return nil, fmt.Errorf("unknown metadata kind %q", env.Kind)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s metadata: %w", env.Kind, err)
	}
	return m, nil
}
