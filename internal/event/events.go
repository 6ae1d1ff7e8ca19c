package event

import (
	"time"
)

const (
	TypeMessageAppended = "message_appended"
	TypeUserBlocked     = "user_blocked"
	TypeUserUnblocked   = "user_unblocked"
	TypeIPBlocked       = "ip_blocked"
	TypeTicketCreated   = "ticket_created"
	TypeTicketClosed    = "ticket_closed"

	defaultTTL = time.Minute
)

type (
	MessageAppended struct {
		*Base
		ChatID int64
		Seq    int64
	}

	UserModerated struct {
		*Base
		AdminID int64
		UserID  int64
	}

	IPBlocked struct {
		*Base
		AdminID int64
		IP      string
	}

	TicketLifecycle struct {
		*Base
		TicketID int64
	}
)

func NewMessageAppended(chatID, seq int64) *MessageAppended {
	return &MessageAppended{
		Base:   CreateBase(TypeMessageAppended, time.Now().Add(defaultTTL)),
		ChatID: chatID,
		Seq:    seq,
	}
}

func NewUserModerated(eventType string, adminID, userID int64) *UserModerated {
	return &UserModerated{
		Base:    CreateBase(eventType, time.Now().Add(defaultTTL)),
		AdminID: adminID,
		UserID:  userID,
	}
}

func NewIPBlocked(adminID int64, ip string) *IPBlocked {
	return &IPBlocked{
		Base:    CreateBase(TypeIPBlocked, time.Now().Add(defaultTTL)),
		AdminID: adminID,
		IP:      ip,
	}
}

func NewTicketLifecycle(eventType string, ticketID int64) *TicketLifecycle {
	return &TicketLifecycle{
		Base:     CreateBase(eventType, time.Now().Add(defaultTTL)),
		TicketID: ticketID,
	}
}
