package moderation

import (
	"context"
	"net/netip"
	"strings"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/iamwavecut/chatsyncd/internal/db"
	apperrors "github.com/iamwavecut/chatsyncd/internal/errors"
	"github.com/iamwavecut/chatsyncd/internal/event"
)

type Store interface {
	GetUser(ctx context.Context, id int64) (*db.User, error)
	ListUsers(ctx context.Context) ([]*db.User, error)
	SetUserBlocked(ctx context.Context, adminID, userID int64, reason string, blocked bool) error
	UpsertIPBlock(ctx context.Context, adminID int64, ip, reason string) error
	DeactivateIPBlock(ctx context.Context, adminID int64, ip string) error
	ListIPBlocks(ctx context.Context) ([]*db.IPBlock, error)
	ListAdminActions(ctx context.Context, limit int) ([]*db.AdminAction, error)
}

// Service applies moderation actions. Every mutation requires the caller to
// hold the admin capability and leaves an audit row.
type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

func (s *Service) requireAdmin(ctx context.Context, adminID int64) error {
	admin, err := s.store.GetUser(ctx, adminID)
	if err != nil {
		return err
	}
	if admin == nil || !admin.IsAdmin {
		return errors.Wrapf(apperrors.ErrUnauthorized, "admin %d", adminID)
	}
	return nil
}

// BlockUser is idempotent: re-blocking an already blocked user updates the
// reason instead of erroring.
func (s *Service) BlockUser(ctx context.Context, adminID, userID int64, reason string) error {
	if err := s.requireAdmin(ctx, adminID); err != nil {
		return err
	}
	target, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return err
	}
	if target == nil {
		return errors.Wrapf(apperrors.ErrNotFound, "user %d", userID)
	}

	if err := s.store.SetUserBlocked(ctx, adminID, userID, strings.TrimSpace(reason), true); err != nil {
		return err
	}
	log.WithField("admin_id", adminID).WithField("user_id", userID).Info("user blocked")
	event.Bus.NQ(event.NewUserModerated(event.TypeUserBlocked, adminID, userID))
	return nil
}

func (s *Service) UnblockUser(ctx context.Context, adminID, userID int64) error {
	if err := s.requireAdmin(ctx, adminID); err != nil {
		return err
	}
	target, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return err
	}
	if target == nil {
		return errors.Wrapf(apperrors.ErrNotFound, "user %d", userID)
	}

	if err := s.store.SetUserBlocked(ctx, adminID, userID, "", false); err != nil {
		return err
	}
	event.Bus.NQ(event.NewUserModerated(event.TypeUserUnblocked, adminID, userID))
	return nil
}

// BlockIP validates the address and upserts the block; re-blocking an active
// address updates the reason.
func (s *Service) BlockIP(ctx context.Context, adminID int64, ip, reason string) error {
	if err := s.requireAdmin(ctx, adminID); err != nil {
		return err
	}
	addr, err := netip.ParseAddr(strings.TrimSpace(ip))
	if err != nil {
		return errors.Wrapf(apperrors.ErrValidation, "malformed ip address %q", ip)
	}

	if err := s.store.UpsertIPBlock(ctx, adminID, addr.String(), strings.TrimSpace(reason)); err != nil {
		return err
	}
	log.WithField("admin_id", adminID).WithField("ip", addr.String()).Info("ip blocked")
	event.Bus.NQ(event.NewIPBlocked(adminID, addr.String()))
	return nil
}

func (s *Service) UnblockIP(ctx context.Context, adminID int64, ip string) error {
	if err := s.requireAdmin(ctx, adminID); err != nil {
		return err
	}
	addr, err := netip.ParseAddr(strings.TrimSpace(ip))
	if err != nil {
		return errors.Wrapf(apperrors.ErrValidation, "malformed ip address %q", ip)
	}
	return s.store.DeactivateIPBlock(ctx, adminID, addr.String())
}

func (s *Service) ListUsers(ctx context.Context, adminID int64) ([]*db.User, error) {
	if err := s.requireAdmin(ctx, adminID); err != nil {
		return nil, err
	}
	return s.store.ListUsers(ctx)
}

func (s *Service) ListIPBlocks(ctx context.Context, adminID int64) ([]*db.IPBlock, error) {
	if err := s.requireAdmin(ctx, adminID); err != nil {
		return nil, err
	}
	return s.store.ListIPBlocks(ctx)
}

func (s *Service) ListAdminActions(ctx context.Context, adminID int64, limit int) ([]*db.AdminAction, error) {
	if err := s.requireAdmin(ctx, adminID); err != nil {
		return nil, err
	}
	if limit <= 0 || limit > 1000 {
		limit = 100
	}
	return s.store.ListAdminActions(ctx, limit)
}

// IsAdmin reports whether the user holds the admin capability; used by the
// HTTP layer's admin-identity middleware.
func (s *Service) IsAdmin(ctx context.Context, userID int64) (bool, error) {
	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return false, err
	}
	return user != nil && user.IsAdmin, nil
}
