package mock

import (
	"strings"

	"cosmossdk.io/log"
)

var _ log.Logger = (*MockLogger)(nil)

// MockLogger implements the Logger interface and records every entry.
type MockLogger struct {
	DebugLogs  []LogEntry
	InfoLogs   []LogEntry
	WarnLogs   []LogEntry
	ErrorLogs  []LogEntry
	WithRecord []any
}

// LogEntry is a struct that contains the message and params passed to the logger
type LogEntry struct {
	Message string
	Params  []any
}

// NewMockLogger returns a new MockLogger
func NewMockLogger() *MockLogger {
	return &MockLogger{}
}

// Debug records a debug entry.
func (l *MockLogger) Debug(msg string, params ...any) {
	l.DebugLogs = append(l.DebugLogs, LogEntry{Message: msg, Params: params})
}

// Info records an info entry.
func (l *MockLogger) Info(msg string, params ...any) {
	l.InfoLogs = append(l.InfoLogs, LogEntry{Message: msg, Params: params})
}

// Warn records a warning entry.
func (l *MockLogger) Warn(msg string, params ...any) {
	l.WarnLogs = append(l.WarnLogs, LogEntry{Message: msg, Params: params})
}

// Error records an error entry.
func (l *MockLogger) Error(msg string, params ...any) {
	l.ErrorLogs = append(l.ErrorLogs, LogEntry{Message: msg, Params: params})
}

// With returns the logger with the params
func (l *MockLogger) With(params ...any) log.Logger {
	l.WithRecord = params
	return l
}

// Impl returns the logger itself.
func (l *MockLogger) Impl() any {
	return l
}

// InfoMessagesWithPrefix returns the info messages starting with prefix.
func (l *MockLogger) InfoMessagesWithPrefix(prefix string) []string {
	var msgs []string
	for _, entry := range l.InfoLogs {
		if strings.HasPrefix(entry.Message, prefix) {
			msgs = append(msgs, entry.Message)
		}
	}
	return msgs
}
