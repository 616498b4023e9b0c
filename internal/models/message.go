package models

import "time"

// MessageKind distinguishes success and error notices.
type MessageKind string

const (
	MessageSuccess MessageKind = "success"
	MessageError   MessageKind = "error"
)

// Message is a transient notice shown to the operator.
type Message struct {
	Kind      MessageKind `json:"kind"`
	Text      string      `json:"text"`
	ExpiresAt time.Time   `json:"expiresAt"`
}
