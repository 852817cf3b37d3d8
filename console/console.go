// Package console holds the playground's message log: an append-only,
// ordered list of typed, timestamped messages that only Clear empties.
package console

import (
	"sync"
	"time"
)

// Kind classifies a console message.
type Kind string

const (
	KindOutput Kind = "output"
	KindError  Kind = "error"
	KindInfo   Kind = "info"
	KindQuery  Kind = "query"
)

// Message is immutable once appended.
type Message struct {
	Kind      Kind      `json:"kind"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// Sink is safe for concurrent use.
type Sink struct {
	mu       sync.RWMutex
	messages []Message
	now      func() time.Time
}

// NewSink creates an empty sink stamping messages with the wall clock.
func NewSink() *Sink {
	return &Sink{now: time.Now}
}

// NewSinkWithClock creates an empty sink with a custom clock.
func NewSinkWithClock(now func() time.Time) *Sink {
	return &Sink{now: now}
}

// Append records a message at the end of the log and returns it.
func (s *Sink) Append(kind Kind, text string) Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	msg := Message{Kind: kind, Text: text, Timestamp: s.now()}
	s.messages = append(s.messages, msg)
	return msg
}

// Clear empties the log.
func (s *Sink) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = nil
}

// Messages returns a copy of the log in append order.
func (s *Sink) Messages() []Message {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Message, len(s.messages))
	copy(out, s.messages)
	return out
}

// Len returns the number of messages.
func (s *Sink) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.messages)
}
