package email

import (
	"context"
	"sync"
)

// MockSender records sent emails for tests.
type MockSender struct {
	mu     sync.Mutex
	Sent   []Email
	SendFn func(ctx context.Context, email *Email) (string, error)
}

var _ Sender = (*MockSender)(nil)

func (m *MockSender) Send(ctx context.Context, email *Email) (string, error) {
	m.mu.Lock()
	m.Sent = append(m.Sent, *email)
	m.mu.Unlock()

	if m.SendFn != nil {
		return m.SendFn(ctx, email)
	}
	return "mock-message-id", nil
}

// SentCount returns how many emails have been sent.
func (m *MockSender) SentCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Sent)
}
