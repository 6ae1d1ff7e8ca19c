package chat

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

func seedUser(t *testing.T, client db.Client, username string) *db.User {
	t.Helper()

	user, err := client.CreateUser(context.Background(), &db.User{
		Username:    username,
		DisplayName: username,
		Phone:       "+1000" + username,
	})
	if err != nil {
		t.Fatalf("seed user %s: %v", username, err)
	}
	return user
}

func TestCreateDirectChatRejectsWrongMemberCount(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc, client := newTestService(t)
	alice := seedUser(t, client, "alice")
	bob := seedUser(t, client, "bob")
	carol := seedUser(t, client, "carol")

	_, err := svc.CreateChat(ctx, db.ChatTypeDirect, alice.ID, []int64{bob.ID, carol.ID}, "")
	if !errors.Is(err, apperrors.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}

	summaries, err := client.ListChatSummaries(ctx, alice.ID)
	if err != nil {
		t.Fatalf("list summaries: %v", err)
	}
	if len(summaries) != 0 {
		t.Fatalf("rejected chat must not be created, got %d", len(summaries))
	}
}

func TestCreateChatDedupesCreatorInMemberList(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc, client := newTestService(t)
	alice := seedUser(t, client, "alice")
	bob := seedUser(t, client, "bob")

	chat, err := svc.CreateChat(ctx, db.ChatTypeDirect, alice.ID, []int64{alice.ID, bob.ID}, "")
	if err != nil {
		t.Fatalf("create chat: %v", err)
	}

	members, err := client.GetMembers(ctx, chat.ID)
	if err != nil {
		t.Fatalf("get members: %v", err)
	}
	if len(members) != 2 {
		t.Fatalf("expected 2 members, got %d", len(members))
	}
}

func TestCreateChannelRequiresName(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc, client := newTestService(t)
	alice := seedUser(t, client, "alice")

	if _, err := svc.CreateChat(ctx, db.ChatTypeChannel, alice.ID, nil, "  "); !errors.Is(err, apperrors.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, err := svc.CreateChat(ctx, "group", alice.ID, nil, "x"); !errors.Is(err, apperrors.ErrValidation) {
		t.Fatalf("expected validation error for unknown type, got %v", err)
	}
	if _, err := svc.CreateChat(ctx, db.ChatTypeChannel, alice.ID, nil, "announcements"); err != nil {
		t.Fatalf("create channel: %v", err)
	}
}

func TestAppendRejectsNonMember(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc, client := newTestService(t)
	alice := seedUser(t, client, "alice")
	bob := seedUser(t, client, "bob")
	mallory := seedUser(t, client, "mallory")

	chat, err := svc.CreateChat(ctx, db.ChatTypeDirect, alice.ID, []int64{bob.ID}, "")
	if err != nil {
		t.Fatalf("create chat: %v", err)
	}

	if _, err := svc.Append(ctx, chat.ID, mallory.ID, "hi"); !errors.Is(err, apperrors.ErrNotAMember) {
		t.Fatalf("expected membership error, got %v", err)
	}
	if _, err := svc.Append(ctx, chat.ID, alice.ID, "   "); !errors.Is(err, apperrors.ErrValidation) {
		t.Fatalf("expected validation error for blank text, got %v", err)
	}
	if _, err := svc.Append(ctx, 9999, alice.ID, "hi"); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("expected not-found for missing chat, got %v", err)
	}
}

func TestListSinceAdvancesReadCursor(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc, client := newTestService(t)
	alice := seedUser(t, client, "alice")
	bob := seedUser(t, client, "bob")

	chat, err := svc.CreateChat(ctx, db.ChatTypeDirect, alice.ID, []int64{bob.ID}, "")
	if err != nil {
		t.Fatalf("create chat: %v", err)
	}
	for i := 0; i < 3; i++ {
		if _, err := svc.Append(ctx, chat.ID, alice.ID, "msg"); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	messages, err := svc.ListSince(ctx, chat.ID, bob.ID, 0)
	if err != nil {
		t.Fatalf("list since: %v", err)
	}
	if len(messages) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(messages))
	}

	unread, err := svc.UnreadCount(ctx, chat.ID, bob.ID)
	if err != nil {
		t.Fatalf("unread count: %v", err)
	}
	if unread != 0 {
		t.Fatalf("polling must advance the cursor, got %d unread", unread)
	}
}

func TestListChatsDerivesDirectChatName(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc, client := newTestService(t)
	alice := seedUser(t, client, "alice")
	bob := seedUser(t, client, "bob")

	if _, err := svc.CreateChat(ctx, db.ChatTypeDirect, alice.ID, []int64{bob.ID}, ""); err != nil {
		t.Fatalf("create chat: %v", err)
	}

	summaries, err := svc.ListChats(ctx, alice.ID)
	if err != nil {
		t.Fatalf("list chats: %v", err)
	}
	if len(summaries) != 1 {
		t.Fatalf("expected 1 chat, got %d", len(summaries))
	}
	if summaries[0].Name != "bob" {
		t.Fatalf("expected derived name from the other member, got %q", summaries[0].Name)
	}
	for _, member := range summaries[0].Members {
		if member.ID == alice.ID {
			t.Fatalf("member list must exclude the requester")
		}
	}
}

func TestSearchUsersRequiresQuery(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc, client := newTestService(t)
	seedUser(t, client, "alice")
	seedUser(t, client, "alina")
	seedUser(t, client, "bob")

	if _, err := svc.SearchUsers(ctx, "  "); !errors.Is(err, apperrors.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}

	found, err := svc.SearchUsers(ctx, "ali")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(found) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(found))
	}
}
