package monitor

import (
	"fmt"
	"io"
	"os"
)

// CLIMonitor implements the Monitor interface, providing a direct
// terminal-based visualization of tool calls flowing through all channels.
type CLIMonitor struct {
	writer io.Writer // The output destination, typically os.Stderr.
}

// NewCLIMonitor creates a new CLI monitor. Output goes to stderr so it never
// interferes with protocol traffic on stdout.
func NewCLIMonitor() *CLIMonitor {
	return &CLIMonitor{
		writer: os.Stderr,
	}
}

// Start starts the CLI monitor
func (m *CLIMonitor) Start() error {
	fmt.Fprintln(m.writer, "----------------------------------------------------------------")
	fmt.Fprintln(m.writer, "🔍 CLI Monitor Active - All tool traffic will appear here")
	fmt.Fprintln(m.writer, "----------------------------------------------------------------")
	return nil
}

// Stop stops the CLI monitor
func (m *CLIMonitor) Stop() error {
	return nil
}

// OnMessage receives and displays a monitoring message
func (m *CLIMonitor) OnMessage(msg MonitorMessage) {
	timestamp := msg.Timestamp.Format("2006-01-02 15:04:05")

	var displayMsg string
	switch msg.Kind {
	case KindCall:
		displayMsg = fmt.Sprintf("[%s] -> %s %s", msg.ChannelID, msg.Tool, msg.Detail)
	case KindError:
		displayMsg = fmt.Sprintf("[%s] !! %s %s", msg.ChannelID, msg.Tool, msg.Detail)
	default:
		displayMsg = fmt.Sprintf("[%s] <- %s %s", msg.ChannelID, msg.Tool, msg.Detail)
	}

	// Use gray color for timestamp
	fmt.Fprintf(m.writer, "\033[90m[%s]\033[0m %s\n", timestamp, displayMsg)
}
