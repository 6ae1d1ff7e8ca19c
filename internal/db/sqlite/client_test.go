package sqlite

import (
	"context"
	"testing"

	"github.com/iamwavecut/chatsyncd/internal/db"
)

func newTestClient(t *testing.T) *sqliteClient {
	t.Helper()

	client, err := NewSQLiteClient(context.Background(), t.TempDir(), "test.db")
	if err != nil {
		t.Fatalf("new sqlite client: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func seedUser(t *testing.T, client *sqliteClient, username string, isAdmin bool) *db.User {
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

func seedChat(t *testing.T, client *sqliteClient, chatType string, members ...*db.User) *db.Chat {
	t.Helper()

	ids := make([]int64, 0, len(members))
	for _, m := range members {
		ids = append(ids, m.ID)
	}
	chat, err := client.CreateChat(context.Background(), &db.Chat{
		Type:      chatType,
		CreatedBy: members[0].ID,
	}, ids)
	if err != nil {
		t.Fatalf("seed chat: %v", err)
	}
	return chat
}
