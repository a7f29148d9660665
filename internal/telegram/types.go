// Package telegram provides the Bot API surface the assistant touches: the
// inbound update envelope and a minimal outbound client with retry logic.
package telegram

// Update is one inbound message-delivery event from Telegram. The envelope
// is read-only: it is decoded once from the webhook body and never mutated.
// UpdateID is the external idempotency key; Telegram may omit it in tests
// and local tooling, in which case deduplication is skipped.
type Update struct {
	UpdateID      int64    `json:"update_id"`
	Message       *Message `json:"message,omitempty"`
	EditedMessage *Message `json:"edited_message,omitempty"`
}

// Incoming returns the message carried by the update, preferring the
// original over an edit, or nil when the update carries neither.
func (u *Update) Incoming() *Message {
	if u.Message != nil {
		return u.Message
	}
	return u.EditedMessage
}

// Message is a user utterance inside a chat.
type Message struct {
	MessageID int64     `json:"message_id"`
	From      *User     `json:"from,omitempty"`
	Chat      Chat      `json:"chat"`
	Text      string    `json:"text,omitempty"`
	Location  *Location `json:"location,omitempty"`
	Date      int64     `json:"date"`
}

// Chat identifies the conversation the message belongs to.
type Chat struct {
	ID int64 `json:"id"`
}

// User identifies the message author.
type User struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name,omitempty"`
	Username  string `json:"username,omitempty"`
}

// Location is an optional shared position attached to a message.
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}
