package service

import (
	"context"
	"testing"
	"time"

	"github.com/spec-kit/swift-ticket/internal/domain"
	"github.com/spec-kit/swift-ticket/internal/events"
)

func mustCreate(t *testing.T, f *fixture, identity domain.AuthState, title, unitID string) domain.Ticket {
	t.Helper()
	ticket, err := f.tickets.CreateTicket(context.Background(), identity, TicketCreateInput{Title: title, Description: title + " details", UnitID: unitID})
	if err != nil {
		t.Fatalf("CreateTicket(%s): %v", title, err)
	}
	return ticket
}

func TestCreateTicketShape(t *testing.T) {
	f := newFixture(t)
	alice := userIdentity("alice")

	ticket, err := f.tickets.CreateTicket(context.Background(), alice, TicketCreateInput{Title: "T", Description: "D", UnitID: "u1"})
	if err != nil {
		t.Fatalf("CreateTicket: %v", err)
	}
	if ticket.Status != domain.TicketStatusOpen || ticket.UserUsername != "alice" || ticket.SLALimitHours != 24 {
		t.Fatalf("ticket = %+v", ticket)
	}
	if len(ticket.Messages) != 1 || ticket.Messages[0].Text != "D" || ticket.Messages[0].Sender != domain.RoleUser {
		t.Fatalf("messages = %+v", ticket.Messages)
	}
	if !ticket.CreatedAt.Equal(fixedNow) || !ticket.LastUpdate.Equal(fixedNow) {
		t.Fatalf("timestamps = %v / %v", ticket.CreatedAt, ticket.LastUpdate)
	}
	if got := f.eventTypes(); len(got) != 1 || got[0] != events.EventTicketCreated {
		t.Fatalf("events = %v", got)
	}
}

func TestCreateTicketPrepends(t *testing.T) {
	f := newFixture(t)
	alice := userIdentity("alice")
	first := mustCreate(t, f, alice, "first", "u1")
	second := mustCreate(t, f, alice, "second", "u2")

	list := f.tickets.ListVisible(alice, nil)
	if len(list) != 2 || list[0].ID != second.ID || list[1].ID != first.ID {
		t.Fatalf("order = %+v", list)
	}
}

func TestCreateTicketValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := userIdentity("alice")
	admin := adminIdentity()
	customer, err := f.directory.CreateUnit(ctx, admin, "Key Accounts", domain.UnitTypeCustomer)
	if err != nil {
		t.Fatalf("CreateUnit: %v", err)
	}

	cases := []struct {
		name  string
		input TicketCreateInput
	}{
		{"blank title", TicketCreateInput{Title: "  ", Description: "D", UnitID: "u1"}},
		{"blank description", TicketCreateInput{Title: "T", Description: "", UnitID: "u1"}},
		{"unknown unit", TicketCreateInput{Title: "T", Description: "D", UnitID: "nope"}},
		{"customer unit", TicketCreateInput{Title: "T", Description: "D", UnitID: customer.ID}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := f.tickets.CreateTicket(ctx, alice, tc.input); errorCode(err) != "VALIDATION_FAILED" {
				t.Fatalf("expected VALIDATION_FAILED, got %v", err)
			}
		})
	}
}

func TestListVisibleByRoleAndStatus(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice, bob := userIdentity("alice"), userIdentity("bob")
	a1 := mustCreate(t, f, alice, "a1", "u1")
	b1 := mustCreate(t, f, bob, "b1", "u2")
	if _, err := f.tickets.AddMessage(ctx, bob, b1.ID, MessageInput{Text: "ping"}); err != nil {
		t.Fatalf("AddMessage: %v", err)
	}

	if got := f.tickets.ListVisible(alice, nil); len(got) != 1 || got[0].ID != a1.ID {
		t.Fatalf("alice sees %+v", got)
	}
	if got := f.tickets.ListVisible(expertIdentity("x", "u2"), nil); len(got) != 1 || got[0].ID != b1.ID {
		t.Fatalf("u2 expert sees %+v", got)
	}
	if got := f.tickets.ListVisible(adminIdentity(), nil); len(got) != 2 {
		t.Fatalf("admin sees %d", len(got))
	}
	pending := domain.TicketStatusPending
	if got := f.tickets.ListVisible(adminIdentity(), &pending); len(got) != 1 || got[0].ID != b1.ID {
		t.Fatalf("pending = %+v", got)
	}
}

func TestGetVisibleHidesOtherTickets(t *testing.T) {
	f := newFixture(t)
	ticket := mustCreate(t, f, userIdentity("alice"), "a1", "u1")

	if _, err := f.tickets.GetVisible(userIdentity("bob"), ticket.ID); errorCode(err) != "NOT_FOUND" {
		t.Fatalf("bob: expected NOT_FOUND, got %v", err)
	}
	if _, err := f.tickets.GetVisible(expertIdentity("x", "u2"), ticket.ID); errorCode(err) != "NOT_FOUND" {
		t.Fatalf("u2 expert: expected NOT_FOUND, got %v", err)
	}
	if _, err := f.tickets.GetVisible(adminIdentity(), "missing"); errorCode(err) != "NOT_FOUND" {
		t.Fatalf("missing: expected NOT_FOUND, got %v", err)
	}
	got, err := f.tickets.GetVisible(expertIdentity("y", "u1"), ticket.ID)
	if err != nil || got.ID != ticket.ID {
		t.Fatalf("u1 expert: %+v, %v", got, err)
	}
}

func TestAddMessageStatusRule(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := userIdentity("alice")
	ticket := mustCreate(t, f, alice, "a1", "u1")

	later := fixedNow.Add(time.Hour)
	f.state.now = func() time.Time { return later }

	afterUser, err := f.tickets.AddMessage(ctx, alice, ticket.ID, MessageInput{Text: " more info "})
	if err != nil {
		t.Fatalf("AddMessage(user): %v", err)
	}
	if afterUser.Status != domain.TicketStatusPending || !afterUser.LastUpdate.Equal(later) {
		t.Fatalf("after user reply: %s %v", afterUser.Status, afterUser.LastUpdate)
	}
	if len(afterUser.Messages) != 2 || afterUser.Messages[0].Text != "a1 details" || afterUser.Messages[1].Text != "more info" {
		t.Fatalf("messages = %+v", afterUser.Messages)
	}

	expert := expertIdentity("ed", "u1")
	expert.Name = "Ed"
	afterExpert, err := f.tickets.AddMessage(ctx, expert, ticket.ID, MessageInput{Attachment: &domain.Attachment{Name: "log.txt", Type: "text/plain", URL: "data:,"}})
	if err != nil {
		t.Fatalf("AddMessage(expert): %v", err)
	}
	last := afterExpert.Messages[len(afterExpert.Messages)-1]
	if afterExpert.Status != domain.TicketStatusOpen || last.Sender != domain.RoleExpert || last.SenderName != "Ed" {
		t.Fatalf("after expert reply: %s %+v", afterExpert.Status, last)
	}

	want := []events.EventType{
		events.EventTicketCreated,
		events.EventTicketMessageAdded, events.EventTicketStatusChanged,
		events.EventTicketMessageAdded, events.EventTicketStatusChanged,
	}
	got := f.eventTypes()
	if len(got) != len(want) {
		t.Fatalf("events = %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("events = %v", got)
		}
	}
}

func TestAddMessageRejections(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := userIdentity("alice")
	ticket := mustCreate(t, f, alice, "a1", "u1")

	if _, err := f.tickets.AddMessage(ctx, alice, ticket.ID, MessageInput{Text: "   "}); errorCode(err) != "VALIDATION_FAILED" {
		t.Fatalf("empty: got %v", err)
	}
	if _, err := f.tickets.AddMessage(ctx, userIdentity("bob"), ticket.ID, MessageInput{Text: "hi"}); errorCode(err) != "NOT_FOUND" {
		t.Fatalf("foreign: got %v", err)
	}
	if _, err := f.tickets.CloseTicket(ctx, adminIdentity(), ticket.ID); err != nil {
		t.Fatalf("CloseTicket: %v", err)
	}
	if _, err := f.tickets.AddMessage(ctx, alice, ticket.ID, MessageInput{Text: "hello?"}); errorCode(err) != "TICKET_CLOSED" {
		t.Fatalf("closed: got %v", err)
	}
	stored, _ := f.tickets.GetVisible(alice, ticket.ID)
	if len(stored.Messages) != 1 || stored.Status != domain.TicketStatusClosed {
		t.Fatalf("closed ticket changed: %+v", stored)
	}
}

func TestCloseTicketIdempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ticket := mustCreate(t, f, userIdentity("alice"), "a1", "u1")
	admin := adminIdentity()

	first, err := f.tickets.CloseTicket(ctx, admin, ticket.ID)
	if err != nil {
		t.Fatalf("CloseTicket: %v", err)
	}
	second, err := f.tickets.CloseTicket(ctx, admin, ticket.ID)
	if err != nil {
		t.Fatalf("second CloseTicket: %v", err)
	}
	if first.Status != domain.TicketStatusClosed || second.Status != domain.TicketStatusClosed {
		t.Fatalf("statuses = %s / %s", first.Status, second.Status)
	}
	if !second.LastUpdate.Equal(ticket.LastUpdate) || len(second.Messages) != 1 {
		t.Fatalf("close touched other fields: %+v", second)
	}
	statusEvents := 0
	for _, e := range f.published {
		if e.Type == events.EventTicketStatusChanged {
			statusEvents++
		}
	}
	if statusEvents != 1 {
		t.Fatalf("status events = %d", statusEvents)
	}
	if _, err := f.tickets.CloseTicket(ctx, expertIdentity("x", "u2"), ticket.ID); errorCode(err) != "NOT_FOUND" {
		t.Fatalf("other unit: got %v", err)
	}
}
