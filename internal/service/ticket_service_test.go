package service

import (
	"context"
	"testing"

	"github.com/spec-kit/provisioning-service/internal/domain"
	"github.com/spec-kit/provisioning-service/internal/repository"
)

func newTicketFixture(t *testing.T) (*TicketService, *domain.SupportTicket) {
	t.Helper()
	svc := NewTicketService(newFakeTicketRepo(), nil)
	ticket, err := svc.Create(context.Background(), "cust-1", TicketCreateInput{
		Subject:     "no signal",
		Description: "link down since morning",
	})
	if err != nil {
		t.Fatalf("seed ticket: %v", err)
	}
	return svc, ticket
}

func statusPtr(s domain.TicketStatus) *domain.TicketStatus { return &s }
func strPtr(s string) *string                              { return &s }

func TestCreateTicketRequiresSubject(t *testing.T) {
	svc := NewTicketService(newFakeTicketRepo(), nil)
	_, err := svc.Create(context.Background(), "cust-1", TicketCreateInput{Subject: "   "})
	if code := errCode(t, err); code != "VALIDATION_FAILED" {
		t.Fatalf("code = %s, want VALIDATION_FAILED", code)
	}
}

func TestSupportMayChangeStatus(t *testing.T) {
	svc, ticket := newTicketFixture(t)

	updated, err := svc.Update(context.Background(), "sup-1", domain.RoleSupport, ticket.ID, TicketUpdateInput{
		Status: statusPtr(domain.TicketStatusInProgress),
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Status != domain.TicketStatusInProgress {
		t.Fatalf("status = %s, want IN_PROGRESS", updated.Status)
	}
}

func TestSupportMayNotAssign(t *testing.T) {
	svc, ticket := newTicketFixture(t)

	_, err := svc.Update(context.Background(), "sup-1", domain.RoleSupport, ticket.ID, TicketUpdateInput{
		AssignedTo: strPtr("tech-1"),
	})
	if code := errCode(t, err); code != "FORBIDDEN" {
		t.Fatalf("code = %s, want FORBIDDEN", code)
	}
}

func TestMixedUpdateDeniedAppliesNothing(t *testing.T) {
	svc, ticket := newTicketFixture(t)

	// status change alone would be allowed for support, assignment is not;
	// the combined update must leave the ticket untouched
	_, err := svc.Update(context.Background(), "sup-1", domain.RoleSupport, ticket.ID, TicketUpdateInput{
		Status:     statusPtr(domain.TicketStatusInProgress),
		AssignedTo: strPtr("tech-1"),
	})
	if code := errCode(t, err); code != "FORBIDDEN" {
		t.Fatalf("code = %s, want FORBIDDEN", code)
	}

	stored, err := svc.GetByID(context.Background(), "mgr-1", domain.RoleManager, ticket.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if stored.Status != domain.TicketStatusNew || stored.AssignedTo != nil {
		t.Fatalf("ticket = %+v, denied update must apply neither change", stored)
	}
}

func TestManagerMayAssignAndClear(t *testing.T) {
	svc, ticket := newTicketFixture(t)

	updated, err := svc.Update(context.Background(), "mgr-1", domain.RoleManager, ticket.ID, TicketUpdateInput{
		AssignedTo: strPtr("tech-1"),
	})
	if err != nil {
		t.Fatalf("assign: %v", err)
	}
	if updated.AssignedTo == nil || *updated.AssignedTo != "tech-1" {
		t.Fatalf("assigned_to = %v, want tech-1", updated.AssignedTo)
	}

	cleared, err := svc.Update(context.Background(), "mgr-1", domain.RoleManager, ticket.ID, TicketUpdateInput{
		AssignedTo: strPtr(""),
	})
	if err != nil {
		t.Fatalf("clear: %v", err)
	}
	if cleared.AssignedTo != nil {
		t.Fatalf("assigned_to = %v, want nil", cleared.AssignedTo)
	}
}

func TestCustomerMayNotChangeStatus(t *testing.T) {
	svc, ticket := newTicketFixture(t)
	_, err := svc.Update(context.Background(), "cust-1", domain.RoleCustomer, ticket.ID, TicketUpdateInput{
		Status: statusPtr(domain.TicketStatusClosed),
	})
	if code := errCode(t, err); code != "FORBIDDEN" {
		t.Fatalf("code = %s, want FORBIDDEN", code)
	}
}

func TestNoOpUpdateReturnsTicket(t *testing.T) {
	svc, ticket := newTicketFixture(t)
	current, err := svc.Update(context.Background(), "mgr-1", domain.RoleManager, ticket.ID, TicketUpdateInput{})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if current.ID != ticket.ID || current.Status != domain.TicketStatusNew {
		t.Fatalf("ticket = %+v", current)
	}
}

func TestTicketTransitions(t *testing.T) {
	cases := []struct {
		from, to domain.TicketStatus
		ok       bool
	}{
		{domain.TicketStatusNew, domain.TicketStatusInProgress, true},
		{domain.TicketStatusNew, domain.TicketStatusResolved, true},
		{domain.TicketStatusNew, domain.TicketStatusClosed, true},
		{domain.TicketStatusInProgress, domain.TicketStatusResolved, true},
		{domain.TicketStatusInProgress, domain.TicketStatusClosed, true},
		{domain.TicketStatusResolved, domain.TicketStatusInProgress, true},
		{domain.TicketStatusResolved, domain.TicketStatusClosed, true},
		{domain.TicketStatusInProgress, domain.TicketStatusNew, false},
		{domain.TicketStatusResolved, domain.TicketStatusNew, false},
		{domain.TicketStatusClosed, domain.TicketStatusInProgress, false},
		{domain.TicketStatusClosed, domain.TicketStatusResolved, false},
		{domain.TicketStatusClosed, domain.TicketStatusNew, false},
	}
	for _, tc := range cases {
		if got := isValidTicketTransition(tc.from, tc.to); got != tc.ok {
			t.Errorf("%s -> %s: got %v, want %v", tc.from, tc.to, got, tc.ok)
		}
	}
}

func TestInvalidTransitionRejected(t *testing.T) {
	svc, ticket := newTicketFixture(t)

	if _, err := svc.Update(context.Background(), "mgr-1", domain.RoleManager, ticket.ID, TicketUpdateInput{
		Status: statusPtr(domain.TicketStatusClosed),
	}); err != nil {
		t.Fatalf("close: %v", err)
	}

	_, err := svc.Update(context.Background(), "mgr-1", domain.RoleManager, ticket.ID, TicketUpdateInput{
		Status: statusPtr(domain.TicketStatusInProgress),
	})
	if code := errCode(t, err); code != "INVALID_TRANSITION" {
		t.Fatalf("code = %s, want INVALID_TRANSITION", code)
	}
}

func TestSameStatusUpdateIsNoOp(t *testing.T) {
	svc, ticket := newTicketFixture(t)
	updated, err := svc.Update(context.Background(), "mgr-1", domain.RoleManager, ticket.ID, TicketUpdateInput{
		Status: statusPtr(domain.TicketStatusNew),
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Status != domain.TicketStatusNew {
		t.Fatalf("status = %s", updated.Status)
	}
}

func TestTicketOwnership(t *testing.T) {
	svc, ticket := newTicketFixture(t)

	if _, err := svc.GetByID(context.Background(), "cust-2", domain.RoleCustomer, ticket.ID); errCode(t, err) != "FORBIDDEN" {
		t.Fatal("customer must not read another customer's ticket")
	}

	mine, err := svc.List(context.Background(), "cust-2", domain.RoleCustomer, repository.TicketFilter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(mine) != 0 {
		t.Fatalf("cust-2 sees %d tickets, want 0", len(mine))
	}
}

func TestUpdateUnknownTicket(t *testing.T) {
	svc := NewTicketService(newFakeTicketRepo(), nil)
	_, err := svc.Update(context.Background(), "mgr-1", domain.RoleManager, "missing", TicketUpdateInput{
		Status: statusPtr(domain.TicketStatusClosed),
	})
	if code := errCode(t, err); code != "NOT_FOUND" {
		t.Fatalf("code = %s, want NOT_FOUND", code)
	}
}
