package mailer

import "sync"

// Message is a captured outgoing mail.
type Message struct {
	To      string
	Subject string
	Body    string
}

// MockMailer records every send attempt for tests. When Err is set, Send
// still records the message and then fails, which is how tests exercise the
// "state committed, notification lost" path.
type MockMailer struct {
	mu   sync.Mutex
	sent []Message
	Err  error
}

func NewMockMailer() *MockMailer { return &MockMailer{} }

func (m *MockMailer) Send(to, subject, body string) error {
	m.mu.Lock()
	m.sent = append(m.sent, Message{To: to, Subject: subject, Body: body})
	m.mu.Unlock()
	return m.Err
}

func (m *MockMailer) Sent() []Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Message{}, m.sent...)
}

// Recipients returns the set of addresses a send was attempted to.
func (m *MockMailer) Recipients() map[string]bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	recipients := make(map[string]bool, len(m.sent))
	for _, msg := range m.sent {
		recipients[msg.To] = true
	}
	return recipients
}
