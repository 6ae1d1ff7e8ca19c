package sqlite

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/iamwavecut/chatsyncd/internal/db"
)

// SetUserBlocked flips the user's moderation flag and writes the audit row in
// one transaction, so a concurrent read never observes a half-applied block.
func (c *sqliteClient) SetUserBlocked(ctx context.Context, adminID, userID int64, reason string, blocked bool) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	tx, err := c.db.Beginx()
	if err != nil {
		return fmt.Errorf("failed to begin tx: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	actionType := "unblock_user"
	details := ""
	if blocked {
		actionType = "block_user"
		payload, err := json.Marshal(map[string]string{"reason": reason})
		if err != nil {
			return fmt.Errorf("failed to encode details: %w", err)
		}
		details = string(payload)
		_, err = tx.ExecContext(ctx, `
			UPDATE users SET is_blocked = 1, blocked_by = ?, blocked_at = ?, blocked_reason = ? WHERE id = ?
		`, adminID, now, reason, userID)
		if err != nil {
			return fmt.Errorf("failed to block user: %w", err)
		}
	} else {
		_, err = tx.ExecContext(ctx, `
			UPDATE users SET is_blocked = 0, blocked_by = NULL, blocked_at = NULL, blocked_reason = NULL WHERE id = ?
		`, userID)
		if err != nil {
			return fmt.Errorf("failed to unblock user: %w", err)
		}
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO admin_actions (admin_id, action_type, target_user_id, details, created_at) VALUES (?, ?, ?, ?, ?)
	`, adminID, actionType, userID, details, now)
	if err != nil {
		return fmt.Errorf("failed to record admin action: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit user block: %w", err)
	}
	return nil
}

// UpsertIPBlock reactivates and re-stamps an existing block for the same
// address instead of erroring, keeping the block action idempotent.
func (c *sqliteClient) UpsertIPBlock(ctx context.Context, adminID int64, ip, reason string) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	tx, err := c.db.Beginx()
	if err != nil {
		return fmt.Errorf("failed to begin tx: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	_, err = tx.ExecContext(ctx, `
		INSERT INTO ip_blocks (ip_address, blocked_by, reason, is_active, blocked_at)
		VALUES (?, ?, ?, 1, ?)
		ON CONFLICT(ip_address) DO UPDATE SET
		blocked_by = excluded.blocked_by,
		reason = excluded.reason,
		is_active = 1,
		blocked_at = excluded.blocked_at
	`, ip, adminID, reason, now)
	if err != nil {
		return fmt.Errorf("failed to upsert ip block: %w", err)
	}

	payload, err := json.Marshal(map[string]string{"reason": reason})
	if err != nil {
		return fmt.Errorf("failed to encode details: %w", err)
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO admin_actions (admin_id, action_type, target_ip, details, created_at) VALUES (?, 'block_ip', ?, ?, ?)
	`, adminID, ip, string(payload), now)
	if err != nil {
		return fmt.Errorf("failed to record admin action: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit ip block: %w", err)
	}
	return nil
}

func (c *sqliteClient) DeactivateIPBlock(ctx context.Context, adminID int64, ip string) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	tx, err := c.db.Beginx()
	if err != nil {
		return fmt.Errorf("failed to begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `UPDATE ip_blocks SET is_active = 0 WHERE ip_address = ?`, ip); err != nil {
		return fmt.Errorf("failed to deactivate ip block: %w", err)
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO admin_actions (admin_id, action_type, target_ip, created_at) VALUES (?, 'unblock_ip', ?, ?)
	`, adminID, ip, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to record admin action: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit ip unblock: %w", err)
	}
	return nil
}

func (c *sqliteClient) ListIPBlocks(ctx context.Context) ([]*db.IPBlock, error) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	var blocks []*db.IPBlock
	err := c.db.SelectContext(ctx, &blocks, `
		SELECT ib.id, ib.ip_address, ib.blocked_by, u.username AS blocked_by_username, ib.reason, ib.is_active, ib.blocked_at
		FROM ip_blocks ib
		JOIN users u ON u.id = ib.blocked_by
		WHERE ib.is_active = 1
		ORDER BY ib.blocked_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list ip blocks: %w", err)
	}
	return blocks, nil
}

func (c *sqliteClient) ListAdminActions(ctx context.Context, limit int) ([]*db.AdminAction, error) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	var actions []*db.AdminAction
	err := c.db.SelectContext(ctx, &actions, `
		SELECT aa.id, aa.admin_id, u.username AS admin_username, aa.action_type, aa.target_user_id, aa.target_ip, aa.details, aa.created_at
		FROM admin_actions aa
		JOIN users u ON u.id = aa.admin_id
		ORDER BY aa.created_at DESC, aa.id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list admin actions: %w", err)
	}
	return actions, nil
}
