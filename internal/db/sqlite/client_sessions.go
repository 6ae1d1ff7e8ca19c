package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/iamwavecut/chatsyncd/internal/db"
	"github.com/pkg/errors"
)

func (c *sqliteClient) CreateSession(ctx context.Context, session *db.Session) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	_, err := c.db.ExecContext(ctx, `
		INSERT INTO sessions (token, user_id, created_at, expires_at) VALUES (?, ?, ?, ?)
	`, session.Token, session.UserID, session.CreatedAt, session.ExpiresAt)
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	return nil
}

func (c *sqliteClient) GetSession(ctx context.Context, token string) (*db.Session, error) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	session := &db.Session{}
	err := c.db.GetContext(ctx, session, `
		SELECT token, user_id, created_at, expires_at FROM sessions WHERE token = ?
	`, token)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return session, nil
}
