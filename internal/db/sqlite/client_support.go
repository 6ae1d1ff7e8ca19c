package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/iamwavecut/chatsyncd/internal/db"
	"github.com/pkg/errors"
)

// CreateTicket inserts the ticket and its first message as one transaction.
// A ticket must never exist with zero messages.
func (c *sqliteClient) CreateTicket(ctx context.Context, ticket *db.SupportTicket, firstMessage string) (*db.SupportTicket, error) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	tx, err := c.db.Beginx()
	if err != nil {
		return nil, fmt.Errorf("failed to begin tx: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	ticket.Status = db.TicketStatusOpen
	ticket.CreatedAt = now
	ticket.UpdatedAt = now

	res, err := tx.ExecContext(ctx, `
		INSERT INTO support_tickets (user_id, subject, status, created_at, updated_at) VALUES (?, ?, ?, ?, ?)
	`, ticket.UserID, ticket.Subject, ticket.Status, ticket.CreatedAt, ticket.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create ticket: %w", err)
	}
	ticket.ID, err = res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get ticket id: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO support_messages (ticket_id, sender_id, body, is_admin_reply, created_at) VALUES (?, ?, ?, 0, ?)
	`, ticket.ID, ticket.UserID, firstMessage, now)
	if err != nil {
		return nil, fmt.Errorf("failed to create first message: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit ticket: %w", err)
	}
	return ticket, nil
}

func (c *sqliteClient) GetTicket(ctx context.Context, id int64) (*db.SupportTicket, error) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	ticket := &db.SupportTicket{}
	err := c.db.GetContext(ctx, ticket, `
		SELECT id, user_id, subject, status, '' AS username, '' AS display_name, created_at, updated_at
		FROM support_tickets WHERE id = ?
	`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get ticket: %w", err)
	}
	return ticket, nil
}

// ListTickets filters by owner and/or status; zero userID and empty status
// mean "all". Admin listings join the owner's identity.
func (c *sqliteClient) ListTickets(ctx context.Context, userID int64, status string) ([]*db.SupportTicket, error) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	query := `
		SELECT st.id, st.user_id, st.subject, st.status, u.username, u.display_name, st.created_at, st.updated_at
		FROM support_tickets st
		JOIN users u ON u.id = st.user_id
		WHERE 1 = 1
	`
	args := []any{}
	if userID != 0 {
		query += ` AND st.user_id = ?`
		args = append(args, userID)
	}
	if status != "" {
		query += ` AND st.status = ?`
		args = append(args, status)
	}
	query += ` ORDER BY st.updated_at DESC, st.id DESC`

	var tickets []*db.SupportTicket
	if err := c.db.SelectContext(ctx, &tickets, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list tickets: %w", err)
	}
	return tickets, nil
}

// AddTicketMessage appends a reply and bumps the ticket's updated_at in the
// same transaction.
func (c *sqliteClient) AddTicketMessage(ctx context.Context, msg *db.SupportMessage) (*db.SupportMessage, error) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	tx, err := c.db.Beginx()
	if err != nil {
		return nil, fmt.Errorf("failed to begin tx: %w", err)
	}
	defer tx.Rollback()

	msg.CreatedAt = time.Now().UTC()
	res, err := tx.ExecContext(ctx, `
		INSERT INTO support_messages (ticket_id, sender_id, body, is_admin_reply, created_at) VALUES (?, ?, ?, ?, ?)
	`, msg.TicketID, msg.SenderID, msg.Body, msg.IsAdminReply, msg.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to add ticket message: %w", err)
	}
	msg.ID, err = res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get message id: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `UPDATE support_tickets SET updated_at = ? WHERE id = ?`, msg.CreatedAt, msg.TicketID); err != nil {
		return nil, fmt.Errorf("failed to bump ticket: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit ticket message: %w", err)
	}
	return msg, nil
}

func (c *sqliteClient) SetTicketStatus(ctx context.Context, ticketID int64, status string) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	_, err := c.db.ExecContext(ctx, `
		UPDATE support_tickets SET status = ?, updated_at = ? WHERE id = ?
	`, status, time.Now().UTC(), ticketID)
	if err != nil {
		return fmt.Errorf("failed to set ticket status: %w", err)
	}
	return nil
}

func (c *sqliteClient) ListTicketMessages(ctx context.Context, ticketID int64) ([]*db.SupportMessage, error) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	var messages []*db.SupportMessage
	err := c.db.SelectContext(ctx, &messages, `
		SELECT id, ticket_id, sender_id, body, is_admin_reply, created_at
		FROM support_messages
		WHERE ticket_id = ?
		ORDER BY created_at ASC, id ASC
	`, ticketID)
	if err != nil {
		return nil, fmt.Errorf("failed to list ticket messages: %w", err)
	}
	return messages, nil
}
