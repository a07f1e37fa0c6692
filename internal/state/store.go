// Package state holds the per-user account state shared by every page and
// API request, and the actions that change it.
package state

import (
	"sync"

	"github.com/duynhne/account-service/internal/core/domain"
)

// NoticeKind classifies the outcome of the last profile update.
type NoticeKind string

const (
	NoticeSuccess NoticeKind = "success"
	NoticeError   NoticeKind = "error"
)

// Notice is a one-shot message about the last profile update.
type Notice struct {
	Kind    NoticeKind
	Message string
}

// Entry is the state stored for one user.
type Entry struct {
	User   domain.User
	Notice *Notice
}

// Listener is called with the new user record after every SetUser.
type Listener func(domain.User)

type subscription struct {
	id int
	fn Listener
}

// Store is a concurrency-safe container of per-user state. Listeners run
// synchronously, outside the store lock, in subscription order.
type Store struct {
	mu          sync.Mutex
	entries     map[string]Entry
	subscribers map[string][]subscription
	nextID      int
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		entries:     make(map[string]Entry),
		subscribers: make(map[string][]subscription),
	}
}

// Get returns the entry for userID.
func (s *Store) Get(userID string) (Entry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[userID]
	return e, ok
}

// SetUser stores user for userID and notifies its listeners.
func (s *Store) SetUser(userID string, user domain.User) {
	s.mu.Lock()
	e := s.entries[userID]
	e.User = user
	s.entries[userID] = e
	subs := append([]subscription(nil), s.subscribers[userID]...)
	s.mu.Unlock()

	for _, sub := range subs {
		sub.fn(user)
	}
}

// SetNotice replaces the pending notice for userID.
func (s *Store) SetNotice(userID string, n Notice) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e := s.entries[userID]
	e.Notice = &n
	s.entries[userID] = e
}

// TakeNotice returns and clears the pending notice for userID.
func (s *Store) TakeNotice(userID string) *Notice {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[userID]
	if !ok || e.Notice == nil {
		return nil
	}
	n := e.Notice
	e.Notice = nil
	s.entries[userID] = e
	return n
}

// Subscribe registers fn for user updates of userID. The returned function
// removes the subscription and is safe to call more than once.
func (s *Store) Subscribe(userID string, fn Listener) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	id := s.nextID
	s.subscribers[userID] = append(s.subscribers[userID], subscription{id: id, fn: fn})

	var once sync.Once
	return func() {
		once.Do(func() { s.unsubscribe(userID, id) })
	}
}

func (s *Store) unsubscribe(userID string, id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	subs := s.subscribers[userID]
	for i, sub := range subs {
		if sub.id == id {
			subs = append(subs[:i:i], subs[i+1:]...)
			break
		}
	}
	if len(subs) == 0 {
		delete(s.subscribers, userID)
		return
	}
	s.subscribers[userID] = subs
}

// Subscribers returns the number of listeners registered for userID.
func (s *Store) Subscribers(userID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.subscribers[userID])
}
