package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/iamwavecut/chatsyncd/internal/db"
	"github.com/pkg/errors"
)

const userColumns = `id, username, display_name, phone, bio, avatar_url, is_admin, is_blocked, blocked_by, blocked_at, blocked_reason, created_at, last_active`

func (c *sqliteClient) CreateUser(ctx context.Context, user *db.User) (*db.User, error) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}
	res, err := c.db.ExecContext(ctx, `
		INSERT INTO users (username, display_name, phone, bio, avatar_url, is_admin, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, user.Username, user.DisplayName, user.Phone, user.Bio, user.AvatarURL, user.IsAdmin, user.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	user.ID, err = res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get user id: %w", err)
	}
	return user, nil
}

func (c *sqliteClient) GetUser(ctx context.Context, id int64) (*db.User, error) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	user := &db.User{}
	err := c.db.GetContext(ctx, user, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

func (c *sqliteClient) GetUserByLogin(ctx context.Context, username, phone string) (*db.User, error) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	user := &db.User{}
	err := c.db.GetContext(ctx, user, `
		SELECT `+userColumns+` FROM users WHERE username = ? OR phone = ?
	`, username, phone)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user by login: %w", err)
	}
	return user, nil
}

func (c *sqliteClient) SearchUsers(ctx context.Context, query string, limit int) ([]*db.User, error) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	pattern := "%" + query + "%"
	var users []*db.User
	err := c.db.SelectContext(ctx, &users, `
		SELECT `+userColumns+` FROM users
		WHERE username LIKE ? COLLATE NOCASE OR display_name LIKE ? COLLATE NOCASE
		ORDER BY username
		LIMIT ?
	`, pattern, pattern, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search users: %w", err)
	}
	return users, nil
}

func (c *sqliteClient) ListUsers(ctx context.Context) ([]*db.User, error) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	var users []*db.User
	err := c.db.SelectContext(ctx, &users, `SELECT `+userColumns+` FROM users ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

func (c *sqliteClient) TouchLastActive(ctx context.Context, userID int64, at time.Time) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	_, err := c.db.ExecContext(ctx, `UPDATE users SET last_active = ? WHERE id = ?`, at, userID)
	if err != nil {
		return fmt.Errorf("failed to touch last_active: %w", err)
	}
	return nil
}
