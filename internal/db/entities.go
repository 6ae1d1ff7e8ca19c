package db

import (
	"time"
)

const (
	ChatTypeDirect  = "direct"
	ChatTypeChannel = "channel"

	TicketStatusOpen   = "open"
	TicketStatusClosed = "closed"
)

type (
	User struct {
		ID            int64      `db:"id" json:"id"`
		Username      string     `db:"username" json:"username"`
		DisplayName   string     `db:"display_name" json:"display_name"`
		Phone         string     `db:"phone" json:"phone"`
		Bio           string     `db:"bio" json:"bio"`
		AvatarURL     string     `db:"avatar_url" json:"avatar_url"`
		IsAdmin       bool       `db:"is_admin" json:"is_admin"`
		IsBlocked     bool       `db:"is_blocked" json:"is_blocked"`
		BlockedBy     *int64     `db:"blocked_by" json:"blocked_by,omitempty"`
		BlockedAt     *time.Time `db:"blocked_at" json:"blocked_at,omitempty"`
		BlockedReason *string    `db:"blocked_reason" json:"blocked_reason,omitempty"`
		CreatedAt     time.Time  `db:"created_at" json:"created_at"`
		LastActive    *time.Time `db:"last_active" json:"last_active,omitempty"`
	}

	Chat struct {
		ID        int64     `db:"id" json:"id"`
		Type      string    `db:"type" json:"type"`
		Name      string    `db:"name" json:"name"`
		CreatedBy int64     `db:"created_by" json:"created_by"`
		CreatedAt time.Time `db:"created_at" json:"created_at"`
	}

	// ChatSummary is the per-user chat list row: last message preview,
	// unread count and the other members of the chat.
	ChatSummary struct {
		Chat
		LastMessage     *string    `db:"last_message" json:"last_message,omitempty"`
		LastMessageTime *time.Time `db:"last_message_time" json:"last_message_time,omitempty"`
		UnreadCount     int64      `db:"unread_count" json:"unread_count"`
		Members         []*User    `db:"-" json:"members"`
	}

	Message struct {
		ID        int64     `db:"id" json:"id"`
		ChatID    int64     `db:"chat_id" json:"chat_id"`
		SenderID  int64     `db:"sender_id" json:"sender_id"`
		Seq       int64     `db:"seq" json:"seq"`
		Text      string    `db:"text" json:"text"`
		CreatedAt time.Time `db:"created_at" json:"created_at"`
	}

	ReadCursor struct {
		ChatID      int64     `db:"chat_id"`
		UserID      int64     `db:"user_id"`
		LastReadSeq int64     `db:"last_read_seq"`
		UpdatedAt   time.Time `db:"updated_at"`
	}

	IPBlock struct {
		ID                int64     `db:"id" json:"id"`
		IPAddress         string    `db:"ip_address" json:"ip_address"`
		BlockedBy         int64     `db:"blocked_by" json:"blocked_by"`
		BlockedByUsername string    `db:"blocked_by_username" json:"blocked_by_username"`
		Reason            string    `db:"reason" json:"reason"`
		IsActive          bool      `db:"is_active" json:"is_active"`
		BlockedAt         time.Time `db:"blocked_at" json:"blocked_at"`
	}

	AdminAction struct {
		ID            int64     `db:"id" json:"id"`
		AdminID       int64     `db:"admin_id" json:"admin_id"`
		AdminUsername string    `db:"admin_username" json:"admin_username"`
		ActionType    string    `db:"action_type" json:"action_type"`
		TargetUserID  *int64    `db:"target_user_id" json:"target_user_id,omitempty"`
		TargetIP      *string   `db:"target_ip" json:"target_ip,omitempty"`
		Details       string    `db:"details" json:"details"`
		CreatedAt     time.Time `db:"created_at" json:"created_at"`
	}

	SupportTicket struct {
		ID          int64     `db:"id" json:"id"`
		UserID      int64     `db:"user_id" json:"user_id"`
		Subject     string    `db:"subject" json:"subject"`
		Status      string    `db:"status" json:"status"`
		Username    string    `db:"username" json:"username,omitempty"`
		DisplayName string    `db:"display_name" json:"display_name,omitempty"`
		CreatedAt   time.Time `db:"created_at" json:"created_at"`
		UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
	}

	SupportMessage struct {
		ID           int64     `db:"id" json:"id"`
		TicketID     int64     `db:"ticket_id" json:"ticket_id"`
		SenderID     int64     `db:"sender_id" json:"sender_id"`
		Body         string    `db:"body" json:"body"`
		IsAdminReply bool      `db:"is_admin_reply" json:"is_admin_reply"`
		CreatedAt    time.Time `db:"created_at" json:"created_at"`
	}

	Session struct {
		Token     string    `db:"token"`
		UserID    int64     `db:"user_id"`
		CreatedAt time.Time `db:"created_at"`
		ExpiresAt time.Time `db:"expires_at"`
	}
)
