package chat

import (
	"sync"
)

// chatLocks serializes appends per chat id. A narrow keyed lock instead of a
// global one, so unrelated chats never contend.
type chatLocks struct {
	mutex sync.Mutex
	locks map[int64]*sync.Mutex
}

func newChatLocks() *chatLocks {
	return &chatLocks{locks: map[int64]*sync.Mutex{}}
}

func (l *chatLocks) lock(chatID int64) func() {
	l.mutex.Lock()
	m, ok := l.locks[chatID]
	if !ok {
		m = &sync.Mutex{}
		l.locks[chatID] = m
	}
	l.mutex.Unlock()

	m.Lock()
	return m.Unlock
}
