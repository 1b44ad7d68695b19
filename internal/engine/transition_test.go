package engine

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/spec-kit/swift-ticket/internal/domain"
)

var t0 = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func TestNewTicket(t *testing.T) {
	alice := domain.AuthState{IsLoggedIn: true, Username: "alice", Name: "Alice", Role: domain.RoleUser}
	ticket := NewTicket(NewTicketInput{
		ID: "t1", MessageID: "m1", Title: "T", Description: "D", UnitID: "u1", SLALimitHours: 24,
	}, alice, t0)

	if ticket.Status != domain.TicketStatusOpen {
		t.Fatalf("status = %s", ticket.Status)
	}
	if ticket.UserUsername != "alice" {
		t.Fatalf("userUsername = %q", ticket.UserUsername)
	}
	if !ticket.CreatedAt.Equal(t0) || !ticket.LastUpdate.Equal(t0) {
		t.Fatalf("timestamps = %v / %v", ticket.CreatedAt, ticket.LastUpdate)
	}
	if len(ticket.Messages) != 1 {
		t.Fatalf("messages = %d", len(ticket.Messages))
	}
	first := ticket.Messages[0]
	if first.Text != "D" || first.Sender != domain.RoleUser || first.SenderName != "Alice" {
		t.Fatalf("unexpected seed message: %+v", first)
	}
	if ticket.SLALimitHours != 24 || ticket.UnitID != "u1" || ticket.Title != "T" {
		t.Fatalf("unexpected ticket: %+v", ticket)
	}
}

func TestAppendMessageStatusRule(t *testing.T) {
	cases := []struct {
		sender domain.UserRole
		from   domain.TicketStatus
		want   domain.TicketStatus
	}{
		{domain.RoleUser, domain.TicketStatusOpen, domain.TicketStatusPending},
		{domain.RoleUser, domain.TicketStatusPending, domain.TicketStatusPending},
		{domain.RoleExpert, domain.TicketStatusPending, domain.TicketStatusOpen},
		{domain.RoleExpert, domain.TicketStatusOpen, domain.TicketStatusOpen},
		{domain.RoleAdmin, domain.TicketStatusPending, domain.TicketStatusOpen},
	}
	for _, tc := range cases {
		t.Run(string(tc.sender)+"_from_"+string(tc.from), func(t *testing.T) {
			ticket := domain.Ticket{
				ID:         "t1",
				Status:     tc.from,
				LastUpdate: t0,
				Messages:   []domain.Message{{ID: "m1", Sender: domain.RoleUser, Text: "D", Timestamp: t0}},
			}
			before := append([]domain.Message(nil), ticket.Messages...)
			now := t0.Add(time.Hour)

			got, err := AppendMessage(ticket, domain.Message{ID: "m2", Sender: tc.sender, SenderName: "X", Text: "hi"}, now)
			if err != nil {
				t.Fatalf("AppendMessage: %v", err)
			}
			if got.Status != tc.want {
				t.Fatalf("status = %s, want %s", got.Status, tc.want)
			}
			if !got.LastUpdate.Equal(now) {
				t.Fatalf("lastUpdate = %v", got.LastUpdate)
			}
			if len(got.Messages) != 2 || got.Messages[1].ID != "m2" || !got.Messages[1].Timestamp.Equal(now) {
				t.Fatalf("unexpected messages: %+v", got.Messages)
			}
			if !reflect.DeepEqual(got.Messages[:1], before) {
				t.Fatalf("prior messages changed")
			}
			if len(ticket.Messages) != 1 {
				t.Fatalf("input ticket mutated")
			}
		})
	}
}

func TestAppendMessageToClosedTicket(t *testing.T) {
	ticket := domain.Ticket{ID: "t1", Status: domain.TicketStatusClosed, LastUpdate: t0, Messages: []domain.Message{{ID: "m1"}}}
	got, err := AppendMessage(ticket, domain.Message{Sender: domain.RoleUser, Text: "again"}, t0.Add(time.Minute))
	if !errors.Is(err, domain.ErrTicketClosed) {
		t.Fatalf("expected ErrTicketClosed, got %v", err)
	}
	if got.Status != domain.TicketStatusClosed || len(got.Messages) != 1 || !got.LastUpdate.Equal(t0) {
		t.Fatalf("closed ticket changed: %+v", got)
	}
}

func TestAppendMessageRequiresContent(t *testing.T) {
	ticket := domain.Ticket{ID: "t1", Status: domain.TicketStatusOpen, Messages: []domain.Message{{ID: "m1"}}}
	if _, err := AppendMessage(ticket, domain.Message{Sender: domain.RoleUser, Text: "  "}, t0); !errors.Is(err, domain.ErrEmptyMessage) {
		t.Fatalf("expected ErrEmptyMessage, got %v", err)
	}
	withFile := domain.Message{Sender: domain.RoleUser, Attachment: &domain.Attachment{Name: "a.png", Type: "image/png", URL: "data:image/png;base64,AA=="}}
	got, err := AppendMessage(ticket, withFile, t0)
	if err != nil {
		t.Fatalf("attachment-only message rejected: %v", err)
	}
	if got.Messages[1].Attachment == nil || got.Messages[1].Attachment.Name != "a.png" {
		t.Fatalf("attachment lost: %+v", got.Messages[1])
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	ticket := domain.Ticket{ID: "t1", Status: domain.TicketStatusPending, LastUpdate: t0, Messages: []domain.Message{{ID: "m1"}}}
	once := Close(ticket)
	if once.Status != domain.TicketStatusClosed {
		t.Fatalf("status = %s", once.Status)
	}
	if !once.LastUpdate.Equal(t0) {
		t.Fatalf("close touched lastUpdate")
	}
	twice := Close(once)
	if !reflect.DeepEqual(once, twice) {
		t.Fatalf("second close changed the ticket: %+v vs %+v", once, twice)
	}
}

func TestStatusAfterMessageIsTotal(t *testing.T) {
	if got := StatusAfterMessage(domain.UserRole("")); got != domain.TicketStatusOpen {
		t.Fatalf("unknown sender -> %s", got)
	}
}
