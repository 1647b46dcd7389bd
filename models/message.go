package models

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

type MessageType string

const (
	MessageTypeEmail  MessageType = "email"
	MessageTypeSMS    MessageType = "sms"
	MessageTypeSocial MessageType = "social"
)

type MessageUser struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}

// Message is one scanned communication as reported by the scanning backend.
// The dashboard only ever reads it.
type Message struct {
	ID         int         `json:"id"`
	User       MessageUser `json:"user"`
	Content    string      `json:"content"`
	Type       MessageType `json:"type"`
	IsSpam     bool        `json:"isSpam"`
	Confidence float64     `json:"confidence"`
	CreatedAt  time.Time   `json:"createdAt"`
}

// messageWire accepts both the documented camelCase fields and the
// snake_case columns the backend emits when it serialises rows directly.
type messageWire struct {
	ID          int         `json:"id"`
	User        MessageUser `json:"user"`
	Content     string      `json:"content"`
	Type        MessageType `json:"type"`
	IsSpam      *bool       `json:"isSpam"`
	IsSpamSnake *bool       `json:"is_spam"`
	Confidence  float64     `json:"confidence"`
	CreatedAt   string      `json:"createdAt"`
	CreatedAtDB string      `json:"created_at"`
}

func (m *Message) UnmarshalJSON(data []byte) error {
	var w messageWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	*m = Message{
		ID:         w.ID,
		User:       w.User,
		Content:    w.Content,
		Type:       w.Type,
		Confidence: w.Confidence,
	}

	switch {
	case w.IsSpam != nil:
		m.IsSpam = *w.IsSpam
	case w.IsSpamSnake != nil:
		m.IsSpam = *w.IsSpamSnake
	}

	raw := w.CreatedAt
	if raw == "" {
		raw = w.CreatedAtDB
	}
	if raw != "" {
		ts, err := ParseTimestamp(raw)
		if err != nil {
			return fmt.Errorf("message %d: %w", w.ID, err)
		}
		m.CreatedAt = ts
	}
	return nil
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	http.TimeFormat,
	time.RFC1123,
	"2006-01-02T15:04:05.999999",
	"2006-01-02 15:04:05.999999",
}

// ParseTimestamp parses the serialised creation time. Timestamps without a
// zone are taken as UTC.
func ParseTimestamp(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, raw); err == nil {
			return ts.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised timestamp %q", raw)
}
