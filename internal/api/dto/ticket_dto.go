package dto

import "time"

// CreateTicketRequest payload.
type CreateTicketRequest struct {
	Title       string `json:"title" validate:"required,max=200"`
	Description string `json:"description" validate:"required"`
	UnitID      string `json:"unit_id" validate:"required"`
}

// AttachmentRequest is a file reference sent with a reply.
type AttachmentRequest struct {
	Name string `json:"name" validate:"required"`
	Type string `json:"type"`
	URL  string `json:"url" validate:"required"`
}

// CreateMessageRequest payload. Either text or an attachment must be present.
type CreateMessageRequest struct {
	Text       string             `json:"text" validate:"required_without=Attachment"`
	Attachment *AttachmentRequest `json:"attachment"`
}

// TicketSummary response.
type TicketSummary struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Status        string    `json:"status"`
	UnitID        string    `json:"unit_id"`
	UserUsername  string    `json:"user_username"`
	CreatedAt     time.Time `json:"created_at"`
	LastUpdate    time.Time `json:"last_update"`
	LastUpdateAgo string    `json:"last_update_ago"`
	MessageCount  int       `json:"message_count"`
	SLALimitHours int       `json:"sla_limit_hours"`
}

// TicketDetailResponse provides full ticket info.
type TicketDetailResponse struct {
	TicketSummary
	Description string            `json:"description"`
	Messages    []MessageResponse `json:"messages"`
}

// AttachmentResponse describes a stored attachment.
type AttachmentResponse struct {
	Name string `json:"name"`
	Type string `json:"type"`
	URL  string `json:"url"`
}

// MessageResponse represents thread message.
type MessageResponse struct {
	ID         string              `json:"id"`
	Sender     string              `json:"sender"`
	SenderName string              `json:"sender_name,omitempty"`
	Text       string              `json:"text"`
	Attachment *AttachmentResponse `json:"attachment,omitempty"`
	Timestamp  time.Time           `json:"timestamp"`
}
