package email

import (
	"context"
	"sync"
)

// MockProvider records messages instead of sending them. Used when email is
// disabled and in tests.
type MockProvider struct {
	mu   sync.Mutex
	Sent []Email
	Err  error
}

func (m *MockProvider) Send(ctx context.Context, email *Email) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.Sent = append(m.Sent, *email)
	return nil
}

func (m *MockProvider) Validate() error { return nil }

// Messages returns a copy of everything sent so far.
func (m *MockProvider) Messages() []Email {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Email(nil), m.Sent...)
}
