package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/iamwavecut/chatsyncd/internal/db"
	"github.com/pkg/errors"
)

func (c *sqliteClient) CreateChat(ctx context.Context, chat *db.Chat, memberIDs []int64) (*db.Chat, error) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	tx, err := c.db.Beginx()
	if err != nil {
		return nil, fmt.Errorf("failed to begin tx: %w", err)
	}
	defer tx.Rollback()

	if chat.CreatedAt.IsZero() {
		chat.CreatedAt = time.Now().UTC()
	}
	res, err := tx.ExecContext(ctx, `
		INSERT INTO chats (type, name, created_by, created_at) VALUES (?, ?, ?, ?)
	`, chat.Type, chat.Name, chat.CreatedBy, chat.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat: %w", err)
	}
	chat.ID, err = res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get chat id: %w", err)
	}

	stmt, err := tx.Preparex(`INSERT OR IGNORE INTO chat_members (chat_id, user_id, role) VALUES (?, ?, ?)`)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare member insert: %w", err)
	}
	defer stmt.Close()

	for _, userID := range memberIDs {
		role := "member"
		if userID == chat.CreatedBy {
			role = "owner"
		}
		if _, err := stmt.ExecContext(ctx, chat.ID, userID, role); err != nil {
			return nil, fmt.Errorf("failed to insert member %d: %w", userID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit chat: %w", err)
	}
	return chat, nil
}

func (c *sqliteClient) GetChat(ctx context.Context, id int64) (*db.Chat, error) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	chat := &db.Chat{}
	err := c.db.GetContext(ctx, chat, `SELECT id, type, name, created_by, created_at FROM chats WHERE id = ?`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get chat: %w", err)
	}
	return chat, nil
}

func (c *sqliteClient) GetMembers(ctx context.Context, chatID int64) ([]*db.User, error) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	return c.getMembersLocked(ctx, chatID)
}

func (c *sqliteClient) IsMember(ctx context.Context, chatID, userID int64) (bool, error) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	var count int
	err := c.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM chat_members WHERE chat_id = ? AND user_id = ?`, chatID, userID)
	if err != nil {
		return false, fmt.Errorf("failed to check membership: %w", err)
	}
	return count > 0, nil
}

// ListChatSummaries returns the user's chats ordered by most recent message
// time descending, messageless chats last. Member lists are filled separately
// because sqlx has no aggregate scan for joined rows.
func (c *sqliteClient) ListChatSummaries(ctx context.Context, userID int64) ([]*db.ChatSummary, error) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	var summaries []*db.ChatSummary
	err := c.db.SelectContext(ctx, &summaries, `
		SELECT
			c.id, c.type, c.name, c.created_by, c.created_at,
			(SELECT m.text FROM messages m WHERE m.chat_id = c.id ORDER BY m.seq DESC LIMIT 1) AS last_message,
			(SELECT m.created_at FROM messages m WHERE m.chat_id = c.id ORDER BY m.seq DESC LIMIT 1) AS last_message_time,
			(SELECT COUNT(*) FROM messages m
				WHERE m.chat_id = c.id
				AND m.seq > COALESCE((SELECT r.last_read_seq FROM read_cursors r WHERE r.chat_id = c.id AND r.user_id = ?), 0)
			) AS unread_count
		FROM chats c
		JOIN chat_members cm ON cm.chat_id = c.id
		WHERE cm.user_id = ?
		ORDER BY last_message_time IS NULL, last_message_time DESC, c.created_at DESC
	`, userID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list chat summaries: %w", err)
	}

	for _, summary := range summaries {
		members, err := c.getMembersLocked(ctx, summary.ID)
		if err != nil {
			return nil, err
		}
		summary.Members = members
	}
	return summaries, nil
}

func (c *sqliteClient) getMembersLocked(ctx context.Context, chatID int64) ([]*db.User, error) {
	var members []*db.User
	err := c.db.SelectContext(ctx, &members, `
		SELECT u.id, u.username, u.display_name, u.phone, u.bio, u.avatar_url, u.is_admin, u.is_blocked,
		       u.blocked_by, u.blocked_at, u.blocked_reason, u.created_at, u.last_active
		FROM chat_members cm
		JOIN users u ON u.id = cm.user_id
		WHERE cm.chat_id = ?
		ORDER BY u.id
	`, chatID)
	if err != nil {
		return nil, fmt.Errorf("failed to get members: %w", err)
	}
	return members, nil
}
