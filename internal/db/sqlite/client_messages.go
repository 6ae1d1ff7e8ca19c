package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/iamwavecut/chatsyncd/internal/db"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
)

// AppendMessage assigns the next per-chat sequence number inside a single
// transaction, so two concurrent appends can never share or skip a sequence.
// The sender's own read cursor advances to the new sequence in the same
// transaction.
func (c *sqliteClient) AppendMessage(ctx context.Context, chatID, senderID int64, text string) (*db.Message, error) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	tx, err := c.db.Beginx()
	if err != nil {
		return nil, fmt.Errorf("failed to begin tx: %w", err)
	}
	defer tx.Rollback()

	var seq int64
	if err := tx.GetContext(ctx, &seq, `SELECT COALESCE(MAX(seq), 0) + 1 FROM messages WHERE chat_id = ?`, chatID); err != nil {
		return nil, fmt.Errorf("failed to allocate sequence: %w", err)
	}

	msg := &db.Message{
		ChatID:    chatID,
		SenderID:  senderID,
		Seq:       seq,
		Text:      text,
		CreatedAt: time.Now().UTC(),
	}
	res, err := tx.ExecContext(ctx, `
		INSERT INTO messages (chat_id, sender_id, seq, text, created_at) VALUES (?, ?, ?, ?, ?)
	`, msg.ChatID, msg.SenderID, msg.Seq, msg.Text, msg.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to append message: %w", err)
	}
	msg.ID, err = res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get message id: %w", err)
	}

	if err := markReadTx(ctx, tx, chatID, senderID, seq); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit message: %w", err)
	}
	return msg, nil
}

func (c *sqliteClient) ListMessagesSince(ctx context.Context, chatID, afterSeq int64) ([]*db.Message, error) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	var messages []*db.Message
	err := c.db.SelectContext(ctx, &messages, `
		SELECT id, chat_id, sender_id, seq, text, created_at
		FROM messages
		WHERE chat_id = ? AND seq > ?
		ORDER BY seq ASC
	`, chatID, afterSeq)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	return messages, nil
}

func (c *sqliteClient) MaxSeq(ctx context.Context, chatID int64) (int64, error) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	var seq int64
	if err := c.db.GetContext(ctx, &seq, `SELECT COALESCE(MAX(seq), 0) FROM messages WHERE chat_id = ?`, chatID); err != nil {
		return 0, fmt.Errorf("failed to get max seq: %w", err)
	}
	return seq, nil
}

// MarkRead is monotonic: a cursor never moves backward, so a stale poll can
// not decrease the unread count.
func (c *sqliteClient) MarkRead(ctx context.Context, chatID, userID, upToSeq int64) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	tx, err := c.db.Beginx()
	if err != nil {
		return fmt.Errorf("failed to begin tx: %w", err)
	}
	defer tx.Rollback()

	if err := markReadTx(ctx, tx, chatID, userID, upToSeq); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit read cursor: %w", err)
	}
	return nil
}

func markReadTx(ctx context.Context, tx *sqlx.Tx, chatID, userID, upToSeq int64) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO read_cursors (chat_id, user_id, last_read_seq, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(chat_id, user_id) DO UPDATE SET
		last_read_seq = MAX(last_read_seq, excluded.last_read_seq),
		updated_at = excluded.updated_at
	`, chatID, userID, upToSeq, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to mark read: %w", err)
	}
	return nil
}

func (c *sqliteClient) GetReadCursor(ctx context.Context, chatID, userID int64) (int64, error) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	var seq int64
	err := c.db.GetContext(ctx, &seq, `
		SELECT last_read_seq FROM read_cursors WHERE chat_id = ? AND user_id = ?
	`, chatID, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to get read cursor: %w", err)
	}
	return seq, nil
}

func (c *sqliteClient) UnreadCount(ctx context.Context, chatID, userID int64) (int64, error) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	var count int64
	err := c.db.GetContext(ctx, &count, `
		SELECT COUNT(*) FROM messages
		WHERE chat_id = ?
		AND seq > COALESCE((SELECT last_read_seq FROM read_cursors WHERE chat_id = ? AND user_id = ?), 0)
	`, chatID, chatID, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to count unread: %w", err)
	}
	return count, nil
}
