package monitor

import "time"

// Event kinds reported to the monitor.
const (
	KindCall   = "CALL"
	KindResult = "RESULT"
	KindError  = "ERROR"
)

// MonitorMessage represents one observed tool-traffic event.
type MonitorMessage struct {
	Timestamp time.Time
	Kind      string // KindCall, KindResult or KindError
	ChannelID string
	Tool      string
	Detail    string
}

// Monitor defines the behavior of a traffic monitor.
type Monitor interface {
	// Start starts the monitor
	Start() error

	// Stop stops the monitor
	Stop() error

	// OnMessage receives and displays a monitoring message
	OnMessage(msg MonitorMessage)
}
