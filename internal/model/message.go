package model

import "time"

// Message is a single directed message about an item. Rows are append-only:
// messages are never edited or deleted.
type Message struct {
	ID         int64     `json:"id"`
	ItemID     int64     `json:"item_id"`
	SenderID   int64     `json:"sender_id"`
	ReceiverID int64     `json:"receiver_id"`
	Body       string    `json:"body"`
	SenderName string    `json:"sender_name,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// Conversation summarizes a message thread with one counterpart about one
// item, represented by its newest message.
type Conversation struct {
	ItemID          int64     `json:"item_id"`
	ItemTitle       string    `json:"item_title"`
	CounterpartID   int64     `json:"counterpart_id"`
	CounterpartName string    `json:"counterpart_name"`
	LastMessage     string    `json:"last_message"`
	LastMessageTime time.Time `json:"last_message_time"`
}
