package http

import (
	"sync"

	"github.com/Wahyudi120505/SnapMart---FullStack-sub000/internal/checkout"
)

// Sessions hands out one checkout session per cashier credential. The cart
// lives only in memory for the lifetime of the session; ending the session
// releases everything the session staged.
type Sessions struct {
	mu       sync.Mutex
	factory  func() *checkout.Controller
	sessions map[string]*checkout.Controller
}

func NewSessions(factory func() *checkout.Controller) *Sessions {
	return &Sessions{
		factory:  factory,
		sessions: make(map[string]*checkout.Controller),
	}
}

// Get returns the session for the key, creating it on first use.
func (s *Sessions) Get(key string) *checkout.Controller {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ctrl, ok := s.sessions[key]; ok {
		return ctrl
	}
	ctrl := s.factory()
	s.sessions[key] = ctrl
	return ctrl
}

// End tears the session down and forgets it.
func (s *Sessions) End(key string) {
	s.mu.Lock()
	ctrl, ok := s.sessions[key]
	delete(s.sessions, key)
	s.mu.Unlock()
	if ok {
		ctrl.Close()
	}
}

// Close ends every session; used on shutdown.
func (s *Sessions) Close() {
	s.mu.Lock()
	sessions := s.sessions
	s.sessions = make(map[string]*checkout.Controller)
	s.mu.Unlock()
	for _, ctrl := range sessions {
		ctrl.Close()
	}
}
