// Package event defines the JSON frames exchanged over the realtime relay.
// The socket controller and the background delivery task share these shapes
// so live and queued fan-out emit identical payloads.
package event

import (
	"encoding/json"
	"time"
)

// Client -> server frame types.
const (
	TypeJoinConversation  = "join_conversation"
	TypeLeaveConversation = "leave_conversation"
	TypeTypingStart       = "typing_start"
	TypeTypingStop        = "typing_stop"
	TypeSendMessage       = "send_message"
)

// Server -> client frame types.
const (
	TypeConnected              = "connected"
	TypeJoined                 = "joined"
	TypeLeft                   = "left"
	TypeReceiveMessage         = "receive_message"
	TypeNewMessageNotification = "new_message_notification"
	TypeUserTyping             = "user_typing"
	TypeMessageError           = "message_error"
)

// Inbound is the decoded client frame. Fields are populated per frame type.
type Inbound struct {
	Type           string `json:"type"`
	ConversationID string `json:"conversation_id,omitempty"`
	ReceiverID     string `json:"receiver_id,omitempty"`
	Content        string `json:"content,omitempty"`
}

// Sender is the display metadata attached to fanned-out messages.
type Sender struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}

// Message is the wire shape of a persisted message.
type Message struct {
	ID             string    `json:"id"`
	ConversationID string    `json:"conversation_id"`
	SenderID       string    `json:"sender_id"`
	ReceiverID     string    `json:"receiver_id"`
	Content        string    `json:"content"`
	Read           bool      `json:"read"`
	CreatedAt      time.Time `json:"created_at"`
}

// ReceiveMessage is broadcast on the conversation channel after a send.
type ReceiveMessage struct {
	Type           string  `json:"type"`
	ConversationID string  `json:"conversation_id"`
	Message        Message `json:"message"`
	Sender         Sender  `json:"sender"`
}

func NewReceiveMessage(conversationID string, msg Message, sender Sender) ReceiveMessage {
	return ReceiveMessage{
		Type:           TypeReceiveMessage,
		ConversationID: conversationID,
		Message:        msg,
		Sender:         sender,
	}
}

// NewMessageNotification goes to the receiver's personal channel so the badge
// updates even when they are not viewing the conversation.
type NewMessageNotification struct {
	Type           string `json:"type"`
	ConversationID string `json:"conversation_id"`
	Preview        string `json:"preview"`
	Sender         Sender `json:"sender"`
}

func NewNotification(conversationID, preview string, sender Sender) NewMessageNotification {
	return NewMessageNotification{
		Type:           TypeNewMessageNotification,
		ConversationID: conversationID,
		Preview:        preview,
		Sender:         sender,
	}
}

// UserTyping relays typing state to everyone in the channel except the
// originator.
type UserTyping struct {
	Type           string `json:"type"`
	ConversationID string `json:"conversation_id"`
	UserID         string `json:"user_id"`
	Typing         bool   `json:"typing"`
}

// Ack confirms connection/join/leave transitions.
type Ack struct {
	Type           string `json:"type"`
	ConversationID string `json:"conversation_id,omitempty"`
}

// Error reports a failed client frame without closing the socket.
type Error struct {
	Type  string `json:"type"`
	Code  string `json:"code"`
	Error string `json:"error"`
}

// Marshal encodes any frame, swallowing the (practically impossible) encode
// error into an empty payload the relay will skip.
func Marshal(v any) []byte {
	payload, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	return payload
}
