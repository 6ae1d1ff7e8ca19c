package sqlite

import (
	"context"
	"testing"
)

func TestReblockingUserUpdatesReasonInPlace(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	client := newTestClient(t)
	admin := seedUser(t, client, "admin", true)
	target := seedUser(t, client, "spammer", false)

	if err := client.SetUserBlocked(ctx, admin.ID, target.ID, "spam", true); err != nil {
		t.Fatalf("block user: %v", err)
	}
	if err := client.SetUserBlocked(ctx, admin.ID, target.ID, "spam again", true); err != nil {
		t.Fatalf("reblock user: %v", err)
	}

	got, err := client.GetUser(ctx, target.ID)
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if !got.IsBlocked {
		t.Fatalf("expected user to be blocked")
	}
	if got.BlockedReason == nil || *got.BlockedReason != "spam again" {
		t.Fatalf("expected updated reason, got %v", got.BlockedReason)
	}

	actions, err := client.ListAdminActions(ctx, 10)
	if err != nil {
		t.Fatalf("list actions: %v", err)
	}
	if len(actions) != 2 {
		t.Fatalf("expected 2 audit rows, got %d", len(actions))
	}
}

func TestUnblockClearsModerationFields(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	client := newTestClient(t)
	admin := seedUser(t, client, "admin", true)
	target := seedUser(t, client, "victim", false)

	if err := client.SetUserBlocked(ctx, admin.ID, target.ID, "oops", true); err != nil {
		t.Fatalf("block user: %v", err)
	}
	if err := client.SetUserBlocked(ctx, admin.ID, target.ID, "", false); err != nil {
		t.Fatalf("unblock user: %v", err)
	}

	got, err := client.GetUser(ctx, target.ID)
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if got.IsBlocked || got.BlockedReason != nil || got.BlockedBy != nil {
		t.Fatalf("expected cleared moderation fields, got %+v", got)
	}
}

func TestIPBlockUpsertKeepsSingleActiveRow(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	client := newTestClient(t)
	admin := seedUser(t, client, "admin", true)

	if err := client.UpsertIPBlock(ctx, admin.ID, "10.0.0.1", "abuse"); err != nil {
		t.Fatalf("block ip: %v", err)
	}
	if err := client.UpsertIPBlock(ctx, admin.ID, "10.0.0.1", "more abuse"); err != nil {
		t.Fatalf("reblock ip: %v", err)
	}

	blocks, err := client.ListIPBlocks(ctx)
	if err != nil {
		t.Fatalf("list ip blocks: %v", err)
	}
	if len(blocks) != 1 {
		t.Fatalf("expected a single active block, got %d", len(blocks))
	}
	if blocks[0].Reason != "more abuse" {
		t.Fatalf("expected updated reason, got %q", blocks[0].Reason)
	}
	if blocks[0].BlockedByUsername != "admin" {
		t.Fatalf("expected join with admin username, got %q", blocks[0].BlockedByUsername)
	}

	if err := client.DeactivateIPBlock(ctx, admin.ID, "10.0.0.1"); err != nil {
		t.Fatalf("unblock ip: %v", err)
	}
	blocks, err = client.ListIPBlocks(ctx)
	if err != nil {
		t.Fatalf("list ip blocks: %v", err)
	}
	if len(blocks) != 0 {
		t.Fatalf("expected no active blocks, got %d", len(blocks))
	}
}
