package audit

import (
	"encoding/json"
	"io"
	"sync"
	"time"
)

var jsonMarshal = json.Marshal

// Event records one emitted envelope. Paged operations produce one event per page.
type Event struct {
	Timestamp time.Time      `json:"timestamp"`
	UserID    string         `json:"userId"`
	Tool      string         `json:"tool"`
	Toolset   string         `json:"toolset"`
	Resource  string         `json:"resource,omitempty"`
	Page      int            `json:"page,omitempty"`
	Items     int            `json:"items,omitempty"`
	Outcome   string         `json:"outcome"`
	FaultKind string         `json:"faultKind,omitempty"`
	FaultCode string         `json:"faultCode,omitempty"`
	Error     string         `json:"error,omitempty"`
	Notes     map[string]any `json:"notes,omitempty"`
}

const (
	OutcomeSuccess  = "success"
	OutcomeError    = "error"
	OutcomeDeclined = "declined"
)

type Logger struct {
	out io.Writer
	mu  sync.Mutex
}

func NewLogger(out io.Writer) *Logger {
	if out == nil {
		out = io.Discard
	}
	return &Logger{out: out}
}

func (l *Logger) Log(event Event) {
	if l == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	data, err := jsonMarshal(event)
	if err != nil {
		return
	}
	_, _ = l.out.Write(append(data, '\n'))
}
