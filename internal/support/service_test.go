package support

import (
	"context"
	"testing"

	"github.com/pkg/errors"

	"github.com/iamwavecut/chatsyncd/internal/db"
	"github.com/iamwavecut/chatsyncd/internal/db/sqlite"
	apperrors "github.com/iamwavecut/chatsyncd/internal/errors"
)

func newTestService(t *testing.T) (*Service, db.Client) {
	t.Helper()

	client, err := sqlite.NewSQLiteClient(context.Background(), t.TempDir(), "test.db")
	if err != nil {
		t.Fatalf("new sqlite client: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })
	return NewService(client), client
}

func seedUser(t *testing.T, client db.Client, username string, isAdmin bool) *db.User {
	t.Helper()

	user, err := client.CreateUser(context.Background(), &db.User{
		Username:    username,
		DisplayName: username,
		Phone:       "+1000" + username,
		IsAdmin:     isAdmin,
	})
	if err != nil {
		t.Fatalf("seed user %s: %v", username, err)
	}
	return user
}

func TestCreateTicketValidation(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc, client := newTestService(t)
	user := seedUser(t, client, "reporter", false)

	if _, err := svc.CreateTicket(ctx, user.ID, "  ", "body"); !errors.Is(err, apperrors.ErrValidation) {
		t.Fatalf("expected validation error for blank subject, got %v", err)
	}
	if _, err := svc.CreateTicket(ctx, user.ID, "subject", ""); !errors.Is(err, apperrors.ErrValidation) {
		t.Fatalf("expected validation error for blank message, got %v", err)
	}
	if _, err := svc.CreateTicket(ctx, 9999, "subject", "body"); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("expected not-found for missing user, got %v", err)
	}

	ticket, err := svc.CreateTicket(ctx, user.ID, "login broken", "help me")
	if err != nil {
		t.Fatalf("create ticket: %v", err)
	}

	tickets, err := svc.ListTickets(ctx, user.ID, db.TicketStatusOpen)
	if err != nil {
		t.Fatalf("list tickets: %v", err)
	}
	if len(tickets) != 1 || tickets[0].ID != ticket.ID {
		t.Fatalf("expected exactly the created ticket, got %d rows", len(tickets))
	}

	messages, err := svc.ListMessages(ctx, ticket.ID)
	if err != nil {
		t.Fatalf("list messages: %v", err)
	}
	if len(messages) != 1 {
		t.Fatalf("expected 1 message on a fresh ticket, got %d", len(messages))
	}
}

func TestSendMessageToClosedTicketWritesNothing(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc, client := newTestService(t)
	user := seedUser(t, client, "reporter", false)
	admin := seedUser(t, client, "admin", true)

	ticket, err := svc.CreateTicket(ctx, user.ID, "subject", "first")
	if err != nil {
		t.Fatalf("create ticket: %v", err)
	}
	if err := svc.CloseTicket(ctx, admin.ID, ticket.ID); err != nil {
		t.Fatalf("close ticket: %v", err)
	}

	if _, err := svc.SendMessage(ctx, ticket.ID, user.ID, "are you there?", false); !errors.Is(err, apperrors.ErrTicketClosed) {
		t.Fatalf("expected closed-ticket error, got %v", err)
	}

	messages, err := svc.ListMessages(ctx, ticket.ID)
	if err != nil {
		t.Fatalf("list messages: %v", err)
	}
	if len(messages) != 1 {
		t.Fatalf("rejected message must not be written, got %d rows", len(messages))
	}
}

func TestCloseTicketIsAdminOnlyAndIdempotent(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc, client := newTestService(t)
	user := seedUser(t, client, "reporter", false)
	admin := seedUser(t, client, "admin", true)

	ticket, err := svc.CreateTicket(ctx, user.ID, "subject", "first")
	if err != nil {
		t.Fatalf("create ticket: %v", err)
	}

	if err := svc.CloseTicket(ctx, user.ID, ticket.ID); !errors.Is(err, apperrors.ErrUnauthorized) {
		t.Fatalf("expected unauthorized for non-admin, got %v", err)
	}
	if err := svc.CloseTicket(ctx, admin.ID, ticket.ID); err != nil {
		t.Fatalf("close ticket: %v", err)
	}
	// closed is terminal, a second close is a no-op
	if err := svc.CloseTicket(ctx, admin.ID, ticket.ID); err != nil {
		t.Fatalf("re-close ticket: %v", err)
	}

	got, err := client.GetTicket(ctx, ticket.ID)
	if err != nil {
		t.Fatalf("get ticket: %v", err)
	}
	if got.Status != db.TicketStatusClosed {
		t.Fatalf("expected closed status, got %q", got.Status)
	}
}

func TestListTicketsRejectsUnknownStatus(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	if _, err := svc.ListTickets(context.Background(), 0, "pending"); !errors.Is(err, apperrors.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
