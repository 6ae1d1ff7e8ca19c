package chat

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/iamwavecut/chatsyncd/internal/db"
	apperrors "github.com/iamwavecut/chatsyncd/internal/errors"
	"github.com/iamwavecut/chatsyncd/internal/event"
)

const searchLimit = 20

// Store is the slice of db.Client the chat service needs.
type Store interface {
	GetUser(ctx context.Context, id int64) (*db.User, error)
	SearchUsers(ctx context.Context, query string, limit int) ([]*db.User, error)
	CreateChat(ctx context.Context, chat *db.Chat, memberIDs []int64) (*db.Chat, error)
	GetChat(ctx context.Context, id int64) (*db.Chat, error)
	IsMember(ctx context.Context, chatID, userID int64) (bool, error)
	ListChatSummaries(ctx context.Context, userID int64) ([]*db.ChatSummary, error)
	AppendMessage(ctx context.Context, chatID, senderID int64, text string) (*db.Message, error)
	ListMessagesSince(ctx context.Context, chatID, afterSeq int64) ([]*db.Message, error)
	MarkRead(ctx context.Context, chatID, userID, upToSeq int64) error
	UnreadCount(ctx context.Context, chatID, userID int64) (int64, error)
}

// Service owns chats, the per-chat message log and read cursors.
type Service struct {
	store Store
	locks *chatLocks
}

func NewService(store Store) *Service {
	return &Service{
		store: store,
		locks: newChatLocks(),
	}
}

// CreateChat validates and atomically creates a chat with its member set.
// Direct chats take exactly two distinct members and carry no name; channels
// require a name and at least one member.
func (s *Service) CreateChat(ctx context.Context, chatType string, createdBy int64, memberIDs []int64, name string) (*db.Chat, error) {
	name = strings.TrimSpace(name)

	members := dedupe(append([]int64{createdBy}, memberIDs...))
	switch chatType {
	case db.ChatTypeDirect:
		if len(members) != 2 {
			return nil, errors.Wrap(apperrors.ErrValidation, "direct chat requires exactly two distinct members")
		}
		name = ""
	case db.ChatTypeChannel:
		if name == "" {
			return nil, errors.Wrap(apperrors.ErrValidation, "channel requires a name")
		}
	default:
		return nil, errors.Wrapf(apperrors.ErrValidation, "unknown chat type %q", chatType)
	}

	for _, userID := range members {
		user, err := s.store.GetUser(ctx, userID)
		if err != nil {
			return nil, err
		}
		if user == nil {
			return nil, errors.Wrapf(apperrors.ErrNotFound, "member %d", userID)
		}
	}

	chat, err := s.store.CreateChat(ctx, &db.Chat{
		Type:      chatType,
		Name:      name,
		CreatedBy: createdBy,
	}, members)
	if err != nil {
		return nil, err
	}
	log.WithField("chat_id", chat.ID).WithField("type", chatType).Debug("chat created")
	return chat, nil
}

// ListChats returns the user's chats sorted by most recent message time
// descending, with last-message previews and unread counts.
func (s *Service) ListChats(ctx context.Context, userID int64) ([]*db.ChatSummary, error) {
	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errors.Wrapf(apperrors.ErrNotFound, "user %d", userID)
	}

	summaries, err := s.store.ListChatSummaries(ctx, userID)
	if err != nil {
		return nil, err
	}
	for _, summary := range summaries {
		others := make([]*db.User, 0, len(summary.Members))
		for _, member := range summary.Members {
			if member.ID != userID {
				others = append(others, member)
			}
		}
		summary.Members = others
		if summary.Type == db.ChatTypeDirect && summary.Name == "" && len(others) > 0 {
			summary.Name = others[0].DisplayName
		}
	}
	return summaries, nil
}

func (s *Service) SearchUsers(ctx context.Context, query string) ([]*db.User, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, errors.Wrap(apperrors.ErrValidation, "query is required")
	}
	return s.store.SearchUsers(ctx, query, searchLimit)
}

// Append writes a message to the chat's log. Appends to the same chat are
// serialized by a per-chat lock, so sequences stay gapless under concurrency.
func (s *Service) Append(ctx context.Context, chatID, senderID int64, text string) (*db.Message, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, errors.Wrap(apperrors.ErrValidation, "text is required")
	}

	chat, err := s.store.GetChat(ctx, chatID)
	if err != nil {
		return nil, err
	}
	if chat == nil {
		return nil, errors.Wrapf(apperrors.ErrNotFound, "chat %d", chatID)
	}
	isMember, err := s.store.IsMember(ctx, chatID, senderID)
	if err != nil {
		return nil, err
	}
	if !isMember {
		return nil, errors.Wrapf(apperrors.ErrNotAMember, "user %d in chat %d", senderID, chatID)
	}

	unlock := s.locks.lock(chatID)
	defer unlock()

	msg, err := s.store.AppendMessage(ctx, chatID, senderID, text)
	if err != nil {
		return nil, err
	}
	event.Bus.NQ(event.NewMessageAppended(chatID, msg.Seq))
	return msg, nil
}

// ListSince returns messages with sequence greater than afterSeq, ascending.
// As a side effect the requester's read cursor advances to the highest
// returned sequence, mirroring the polling client's GET.
func (s *Service) ListSince(ctx context.Context, chatID, userID, afterSeq int64) ([]*db.Message, error) {
	chat, err := s.store.GetChat(ctx, chatID)
	if err != nil {
		return nil, err
	}
	if chat == nil {
		return nil, errors.Wrapf(apperrors.ErrNotFound, "chat %d", chatID)
	}
	isMember, err := s.store.IsMember(ctx, chatID, userID)
	if err != nil {
		return nil, err
	}
	if !isMember {
		return nil, errors.Wrapf(apperrors.ErrNotAMember, "user %d in chat %d", userID, chatID)
	}

	messages, err := s.store.ListMessagesSince(ctx, chatID, afterSeq)
	if err != nil {
		return nil, err
	}
	if len(messages) > 0 {
		last := messages[len(messages)-1].Seq
		if err := s.store.MarkRead(ctx, chatID, userID, last); err != nil {
			return nil, err
		}
	}
	return messages, nil
}

// MarkRead advances the user's read cursor; a lower sequence is a no-op.
func (s *Service) MarkRead(ctx context.Context, chatID, userID, upToSeq int64) error {
	return s.store.MarkRead(ctx, chatID, userID, upToSeq)
}

func (s *Service) UnreadCount(ctx context.Context, chatID, userID int64) (int64, error) {
	return s.store.UnreadCount(ctx, chatID, userID)
}

func dedupe(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
