package domain

import "time"

// Message is one entry of a ticket thread. Sender is the role of the author.
type Message struct {
	ID         string      `json:"id"`
	Sender     UserRole    `json:"sender"`
	SenderName string      `json:"senderName,omitempty"`
	Text       string      `json:"text"`
	Attachment *Attachment `json:"attachment,omitempty"`
	Timestamp  time.Time   `json:"timestamp"`
}

// Attachment carries a file inline. URL is a self-contained encoded payload
// (typically a data URL) and is never inspected here.
type Attachment struct {
	Name string `json:"name"`
	Type string `json:"type"`
	URL  string `json:"url"`
}
