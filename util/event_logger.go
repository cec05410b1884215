package util

import (
	"fmt"
	"log"
	"os"
	"sort"
	"strings"
	"sync"
)

// EventType names an operational event worth a log line.
type EventType string

const (
	EventEndpointCall      EventType = "ENDPOINT_CALL"
	EventAccountCreated    EventType = "ACCOUNT_CREATED"
	EventAccountSkipped    EventType = "ACCOUNT_SKIPPED"
	EventPasswordReset     EventType = "PASSWORD_RESET"
	EventPatientDeleted    EventType = "PATIENT_DELETED"
	EventRateLimitExceeded EventType = "RATE_LIMIT_EXCEEDED"
)

// Event is a single structured log entry.
type Event struct {
	Type      EventType
	IP        string
	UserAgent string
	Message   string
	Details   map[string]interface{}
}

var (
	eventLogger   = log.New(os.Stdout, "[EVENT] ", log.LstdFlags|log.Lmsgprefix)
	eventLoggerMu sync.RWMutex
)

// sanitizeLogValue removes newlines and other characters that could break log parsing
func sanitizeLogValue(value string) string {
	value = strings.ReplaceAll(value, "\n", " ")
	value = strings.ReplaceAll(value, "\r", " ")
	value = strings.ReplaceAll(value, "\t", " ")
	// Truncate very long values to prevent log flooding
	if len(value) > 200 {
		value = value[:200] + "..."
	}
	return value
}

// formatEvent renders an event as a single key=value line with details sorted by key.
func formatEvent(event Event) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Event=%s", sanitizeLogValue(string(event.Type)))
	if event.IP != "" {
		fmt.Fprintf(&b, " IP=%s", sanitizeLogValue(event.IP))
	}
	if event.UserAgent != "" {
		fmt.Fprintf(&b, " UserAgent=%q", sanitizeLogValue(event.UserAgent))
	}
	fmt.Fprintf(&b, " Message=%q", sanitizeLogValue(event.Message))

	keys := make([]string, 0, len(event.Details))
	for k := range event.Details {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, " %s=%s", sanitizeLogValue(k), sanitizeLogValue(fmt.Sprint(event.Details[k])))
	}
	return b.String()
}

// LogEvent writes an event to the event logger.
func LogEvent(event Event) {
	eventLoggerMu.RLock()
	logger := eventLogger
	eventLoggerMu.RUnlock()
	logger.Println(formatEvent(event))
}

// SetEventLogger replaces the destination of LogEvent. It returns the previous logger.
func SetEventLogger(logger *log.Logger) *log.Logger {
	eventLoggerMu.Lock()
	defer eventLoggerMu.Unlock()
	prev := eventLogger
	eventLogger = logger
	return prev
}
