package domain

import "errors"

var (
	// ErrTicketClosed is returned when a message targets a closed ticket.
	ErrTicketClosed = errors.New("ticket is closed")
	// ErrEmptyMessage is returned when a message has neither text nor attachment.
	ErrEmptyMessage = errors.New("message requires text or an attachment")
)
