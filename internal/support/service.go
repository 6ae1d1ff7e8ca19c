package support

import (
	"context"
	"strings"

	"github.com/iamwavecut/tool"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/iamwavecut/chatsyncd/internal/db"
	apperrors "github.com/iamwavecut/chatsyncd/internal/errors"
	"github.com/iamwavecut/chatsyncd/internal/event"
)

type Store interface {
	GetUser(ctx context.Context, id int64) (*db.User, error)
	CreateTicket(ctx context.Context, ticket *db.SupportTicket, firstMessage string) (*db.SupportTicket, error)
	GetTicket(ctx context.Context, id int64) (*db.SupportTicket, error)
	ListTickets(ctx context.Context, userID int64, status string) ([]*db.SupportTicket, error)
	AddTicketMessage(ctx context.Context, msg *db.SupportMessage) (*db.SupportMessage, error)
	SetTicketStatus(ctx context.Context, ticketID int64, status string) error
	ListTicketMessages(ctx context.Context, ticketID int64) ([]*db.SupportMessage, error)
}

// Service owns the support desk: tickets with a threaded message log and an
// open -> closed lifecycle, independent from chats.
type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// CreateTicket creates the ticket and its first message as one unit; a
// ticket never exists with zero messages.
func (s *Service) CreateTicket(ctx context.Context, userID int64, subject, message string) (*db.SupportTicket, error) {
	subject = strings.TrimSpace(subject)
	message = strings.TrimSpace(message)
	if subject == "" || message == "" {
		return nil, errors.Wrap(apperrors.ErrValidation, "subject and message are required")
	}
	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errors.Wrapf(apperrors.ErrNotFound, "user %d", userID)
	}

	ticket, err := s.store.CreateTicket(ctx, &db.SupportTicket{
		UserID:  userID,
		Subject: subject,
	}, message)
	if err != nil {
		return nil, err
	}
	log.WithField("ticket_id", ticket.ID).WithField("user_id", userID).Debug("ticket created")
	event.Bus.NQ(event.NewTicketLifecycle(event.TypeTicketCreated, ticket.ID))
	return ticket, nil
}

// SendMessage appends a reply to an open ticket. A closed ticket rejects the
// message without writing anything.
func (s *Service) SendMessage(ctx context.Context, ticketID, senderID int64, body string, isAdminReply bool) (*db.SupportMessage, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, errors.Wrap(apperrors.ErrValidation, "message is required")
	}

	ticket, err := s.store.GetTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if ticket == nil {
		return nil, errors.Wrapf(apperrors.ErrNotFound, "ticket %d", ticketID)
	}
	if ticket.Status == db.TicketStatusClosed {
		return nil, errors.Wrapf(apperrors.ErrTicketClosed, "ticket %d", ticketID)
	}

	return s.store.AddTicketMessage(ctx, &db.SupportMessage{
		TicketID:     ticketID,
		SenderID:     senderID,
		Body:         body,
		IsAdminReply: isAdminReply,
	})
}

// CloseTicket transitions open -> closed. The state is terminal; closing an
// already closed ticket is a no-op. Only admins may close.
func (s *Service) CloseTicket(ctx context.Context, adminID, ticketID int64) error {
	admin, err := s.store.GetUser(ctx, adminID)
	if err != nil {
		return err
	}
	if admin == nil || !admin.IsAdmin {
		return errors.Wrapf(apperrors.ErrUnauthorized, "admin %d", adminID)
	}

	ticket, err := s.store.GetTicket(ctx, ticketID)
	if err != nil {
		return err
	}
	if ticket == nil {
		return errors.Wrapf(apperrors.ErrNotFound, "ticket %d", ticketID)
	}
	if ticket.Status == db.TicketStatusClosed {
		return nil
	}

	if err := s.store.SetTicketStatus(ctx, ticketID, db.TicketStatusClosed); err != nil {
		return err
	}
	event.Bus.NQ(event.NewTicketLifecycle(event.TypeTicketClosed, ticketID))
	return nil
}

func (s *Service) ListTickets(ctx context.Context, userID int64, status string) ([]*db.SupportTicket, error) {
	if status != "" && !tool.In(status, db.TicketStatusOpen, db.TicketStatusClosed) {
		return nil, errors.Wrapf(apperrors.ErrValidation, "unknown status %q", status)
	}
	return s.store.ListTickets(ctx, userID, status)
}

func (s *Service) ListMessages(ctx context.Context, ticketID int64) ([]*db.SupportMessage, error) {
	ticket, err := s.store.GetTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if ticket == nil {
		return nil, errors.Wrapf(apperrors.ErrNotFound, "ticket %d", ticketID)
	}
	return s.store.ListTicketMessages(ctx, ticketID)
}
