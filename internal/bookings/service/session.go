package service

import (
	"sync"
	"time"

	"steadyhotel/pkg/model"
)

type CheckoutState string

const (
	StateIdle            CheckoutState = "idle"
	StateSelecting       CheckoutState = "selecting"
	StateValidating      CheckoutState = "validating"
	StateAwaitingPayment CheckoutState = "awaiting_payment"
	StateRecording       CheckoutState = "recording"
	StatePartialFailure  CheckoutState = "partial_failure"
	StateCompleted       CheckoutState = "completed"
)

// CheckoutSession tracks one payment attempt through the workflow.
// Each attempt owns its session; nothing is shared between attempts.
type CheckoutSession struct {
	mu sync.Mutex

	Reference string
	State     CheckoutState
	Request   *model.BookingRequest
	Payment   *model.PaymentAttempt

	BookingID string
	OrderID   string

	LastError  string
	Processing bool

	completed bool
	CreatedAt time.Time
}

// SessionView is the observable snapshot returned to clients.
type SessionView struct {
	Reference        string `json:"reference,omitempty"`
	State            string `json:"state"`
	LastError        string `json:"last_error,omitempty"`
	Processing       bool   `json:"processing"`
	AuthorizationURL string `json:"authorization_url,omitempty"`
	BookingID        string `json:"booking_id,omitempty"`
	OrderID          string `json:"order_id,omitempty"`
}

func (s *CheckoutSession) View() *SessionView {
	s.mu.Lock()
	defer s.mu.Unlock()

	view := &SessionView{
		Reference:  s.Reference,
		State:      string(s.State),
		LastError:  s.LastError,
		Processing: s.Processing,
		BookingID:  s.BookingID,
		OrderID:    s.OrderID,
	}
	if s.Payment != nil {
		view.AuthorizationURL = s.Payment.AuthorizationURL
	}
	return view
}

// SessionStore keeps live checkout sessions keyed by payment reference.
// Entries expire after the configured TTL; abandoned checkouts are
// reaped by a background sweep.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*CheckoutSession
	ttl      time.Duration
	stopCh   chan struct{}
}

func NewSessionStore(ttl time.Duration) *SessionStore {
	store := &SessionStore{
		sessions: make(map[string]*CheckoutSession),
		ttl:      ttl,
		stopCh:   make(chan struct{}),
	}

	go store.cleanup()

	return store
}

func (s *SessionStore) Get(reference string) (*CheckoutSession, bool) {
	s.mu.RLock()
	session, exists := s.sessions[reference]
	s.mu.RUnlock()

	if !exists {
		return nil, false
	}

	if time.Since(session.CreatedAt) > s.ttl {
		s.mu.Lock()
		delete(s.sessions, reference)
		s.mu.Unlock()
		return nil, false
	}

	return session, true
}

func (s *SessionStore) Put(session *CheckoutSession) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.Reference] = session
}

func (s *SessionStore) Delete(reference string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, reference)
}

func (s *SessionStore) cleanup() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.mu.Lock()
			for reference, session := range s.sessions {
				if time.Since(session.CreatedAt) > s.ttl {
					delete(s.sessions, reference)
				}
			}
			s.mu.Unlock()
		case <-s.stopCh:
			return
		}
	}
}

func (s *SessionStore) Stop() {
	close(s.stopCh)
}
