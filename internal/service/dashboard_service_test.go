package service

import (
	"context"
	"testing"
)

func TestDashboardCountsVisibleTickets(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice, bob := userIdentity("alice"), userIdentity("bob")
	a1 := mustCreate(t, f, alice, "a1", "u1")
	mustCreate(t, f, alice, "a2", "u1")
	b1 := mustCreate(t, f, bob, "b1", "u2")
	mustCreate(t, f, bob, "b2", "u2")
	mustCreate(t, f, bob, "b3", "u2")
	f.tickets.AddMessage(ctx, bob, b1.ID, MessageInput{Text: "any news?"})
	f.tickets.CloseTicket(ctx, adminIdentity(), a1.ID)

	all := f.dashboard.Build(adminIdentity())
	if all.Counts.Total != 5 || all.Counts.Open != 3 || all.Counts.Pending != 1 || all.Counts.Closed != 1 {
		t.Fatalf("counts = %+v", all.Counts)
	}
	if len(all.Units) != 2 || all.Units[0].Total != 2 || all.Units[1].Total != 3 || all.Units[1].Pending != 1 {
		t.Fatalf("units = %+v", all.Units)
	}
	if len(all.Recent) != 4 || all.Recent[0].Title != "b3" {
		t.Fatalf("recent = %+v", all.Recent)
	}
	if !all.GeneratedAt.Equal(fixedNow) {
		t.Fatalf("generated at = %v", all.GeneratedAt)
	}

	scoped := f.dashboard.Build(expertIdentity("ed", "u1"))
	if scoped.Counts.Total != 2 || scoped.Units[1].Total != 0 {
		t.Fatalf("scoped = %+v", scoped)
	}
}
