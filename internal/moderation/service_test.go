package moderation

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

func TestBlockUserRequiresAdmin(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc, client := newTestService(t)
	peon := seedUser(t, client, "peon", false)
	target := seedUser(t, client, "target", false)

	if err := svc.BlockUser(ctx, peon.ID, target.ID, "nope"); !errors.Is(err, apperrors.ErrUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
	if err := svc.BlockUser(ctx, 9999, target.ID, "nope"); !errors.Is(err, apperrors.ErrUnauthorized) {
		t.Fatalf("expected unauthorized for unknown caller, got %v", err)
	}
}

func TestBlockUserIsIdempotent(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc, client := newTestService(t)
	admin := seedUser(t, client, "admin", true)
	target := seedUser(t, client, "target", false)

	if err := svc.BlockUser(ctx, admin.ID, target.ID, "spam"); err != nil {
		t.Fatalf("block: %v", err)
	}
	if err := svc.BlockUser(ctx, admin.ID, target.ID, "still spam"); err != nil {
		t.Fatalf("reblock: %v", err)
	}

	got, err := client.GetUser(ctx, target.ID)
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if !got.IsBlocked || got.BlockedReason == nil || *got.BlockedReason != "still spam" {
		t.Fatalf("expected blocked with updated reason, got %+v", got)
	}

	if err := svc.UnblockUser(ctx, admin.ID, target.ID); err != nil {
		t.Fatalf("unblock: %v", err)
	}
	got, err = client.GetUser(ctx, target.ID)
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if got.IsBlocked {
		t.Fatalf("expected unblocked user")
	}
}

func TestBlockIPValidatesAndNormalizes(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc, client := newTestService(t)
	admin := seedUser(t, client, "admin", true)

	if err := svc.BlockIP(ctx, admin.ID, "not-an-ip", "x"); !errors.Is(err, apperrors.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if err := svc.BlockIP(ctx, admin.ID, " 192.168.0.1 ", "abuse"); err != nil {
		t.Fatalf("block ip: %v", err)
	}

	blocks, err := svc.ListIPBlocks(ctx, admin.ID)
	if err != nil {
		t.Fatalf("list blocks: %v", err)
	}
	if len(blocks) != 1 || blocks[0].IPAddress != "192.168.0.1" {
		t.Fatalf("expected one normalized block, got %+v", blocks)
	}

	if err := svc.UnblockIP(ctx, admin.ID, "192.168.0.1"); err != nil {
		t.Fatalf("unblock ip: %v", err)
	}
	blocks, err = svc.ListIPBlocks(ctx, admin.ID)
	if err != nil {
		t.Fatalf("list blocks: %v", err)
	}
	if len(blocks) != 0 {
		t.Fatalf("expected no active blocks, got %d", len(blocks))
	}
}

func TestListAdminActionsClampsLimit(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc, client := newTestService(t)
	admin := seedUser(t, client, "admin", true)
	target := seedUser(t, client, "target", false)

	if err := svc.BlockUser(ctx, admin.ID, target.ID, "spam"); err != nil {
		t.Fatalf("block: %v", err)
	}

	actions, err := svc.ListAdminActions(ctx, admin.ID, -5)
	if err != nil {
		t.Fatalf("list actions: %v", err)
	}
	if len(actions) != 1 {
		t.Fatalf("expected 1 audit row, got %d", len(actions))
	}
	if actions[0].AdminUsername != "admin" {
		t.Fatalf("expected admin join, got %q", actions[0].AdminUsername)
	}
}
