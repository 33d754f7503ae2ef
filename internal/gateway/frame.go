package gateway

import (
	"encoding/json"

	"chatrelay/internal/domain"
)

// Frame is the JSON envelope for every websocket message in either
// direction. ID correlates an inbound submission with its ack.
type Frame struct {
	Type    string          `json:"type"`
	ID      string          `json:"id,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Frame types.
const (
	FrameChatMessage = "chat message"
	FrameChatHistory = "chat history"
	FrameAck         = "ack"
)

// ChatMessagePayload is the inbound submission body. The sender identity is
// never part of the payload; it is bound to the connection at handshake.
type ChatMessagePayload struct {
	Text       string `json:"text" validate:"required"`
	ReceiverID int64  `json:"receiverId" validate:"required,gt=0"`
}

// AckPayload reports the outcome of a submission. An empty Error means
// success.
type AckPayload struct {
	Error string `json:"error,omitempty"`
}

func encodeAck(id, errMsg string) []byte {
	payload, _ := json.Marshal(AckPayload{Error: errMsg})
	frame, _ := json.Marshal(Frame{Type: FrameAck, ID: id, Payload: payload})
	return frame
}

func encodeChatMessage(record json.RawMessage) []byte {
	frame, _ := json.Marshal(Frame{Type: FrameChatMessage, Payload: record})
	return frame
}

func encodeChatHistory(messages []domain.Message) []byte {
	payload, _ := json.Marshal(messages)
	frame, _ := json.Marshal(Frame{Type: FrameChatHistory, Payload: payload})
	return frame
}
