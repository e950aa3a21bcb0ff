package websocket

import (
	"encoding/json"
	"time"
)

type MessageType string

const (
	TypeRecordChanged MessageType = "record_changed"
	TypeRecordDeleted MessageType = "record_deleted"
	TypePing          MessageType = "ping"
	TypePong          MessageType = "pong"
)

type Message struct {
	Type      MessageType     `json:"type"`
	Timestamp time.Time       `json:"timestamp"`
	Payload   json.RawMessage `json:"payload,omitempty"`
}

// ChangePayload describes one mutation in the per-user change feed. Data holds
// the full record for changes and is omitted for deletions.
type ChangePayload struct {
	Record     string          `json:"record"`
	RecordID   string          `json:"record_id"`
	ParentID   string          `json:"parent_id,omitempty"`
	OccurredAt time.Time       `json:"occurred_at"`
	Data       json.RawMessage `json:"data,omitempty"`
}

func NewMessage(msgType MessageType, payload interface{}) (*Message, error) {
	var payloadBytes json.RawMessage
	if payload != nil {
		bytes, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		payloadBytes = bytes
	}

	return &Message{
		Type:      msgType,
		Timestamp: time.Now(),
		Payload:   payloadBytes,
	}, nil
}

func (m *Message) UnmarshalPayload(v interface{}) error {
	if m.Payload == nil {
		return nil
	}
	return json.Unmarshal(m.Payload, v)
}
