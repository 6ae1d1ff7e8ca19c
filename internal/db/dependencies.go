package db

import (
	"context"
	"time"
)

type Client interface {
	Close() error

	// users
	CreateUser(ctx context.Context, user *User) (*User, error)
	GetUser(ctx context.Context, id int64) (*User, error)
	GetUserByLogin(ctx context.Context, username, phone string) (*User, error)
	SearchUsers(ctx context.Context, query string, limit int) ([]*User, error)
	ListUsers(ctx context.Context) ([]*User, error)
	TouchLastActive(ctx context.Context, userID int64, at time.Time) error

	// chats
	CreateChat(ctx context.Context, chat *Chat, memberIDs []int64) (*Chat, error)
	GetChat(ctx context.Context, id int64) (*Chat, error)
	GetMembers(ctx context.Context, chatID int64) ([]*User, error)
	IsMember(ctx context.Context, chatID, userID int64) (bool, error)
	ListChatSummaries(ctx context.Context, userID int64) ([]*ChatSummary, error)

	// messages
	AppendMessage(ctx context.Context, chatID, senderID int64, text string) (*Message, error)
	ListMessagesSince(ctx context.Context, chatID, afterSeq int64) ([]*Message, error)
	MaxSeq(ctx context.Context, chatID int64) (int64, error)

	// read cursors
	MarkRead(ctx context.Context, chatID, userID, upToSeq int64) error
	GetReadCursor(ctx context.Context, chatID, userID int64) (int64, error)
	UnreadCount(ctx context.Context, chatID, userID int64) (int64, error)

	// moderation
	SetUserBlocked(ctx context.Context, adminID, userID int64, reason string, blocked bool) error
	UpsertIPBlock(ctx context.Context, adminID int64, ip, reason string) error
	DeactivateIPBlock(ctx context.Context, adminID int64, ip string) error
	ListIPBlocks(ctx context.Context) ([]*IPBlock, error)
	ListAdminActions(ctx context.Context, limit int) ([]*AdminAction, error)

	// support
	CreateTicket(ctx context.Context, ticket *SupportTicket, firstMessage string) (*SupportTicket, error)
	GetTicket(ctx context.Context, id int64) (*SupportTicket, error)
	ListTickets(ctx context.Context, userID int64, status string) ([]*SupportTicket, error)
	AddTicketMessage(ctx context.Context, msg *SupportMessage) (*SupportMessage, error)
	SetTicketStatus(ctx context.Context, ticketID int64, status string) error
	ListTicketMessages(ctx context.Context, ticketID int64) ([]*SupportMessage, error)

	// sessions
	CreateSession(ctx context.Context, session *Session) error
	GetSession(ctx context.Context, token string) (*Session, error)
}
