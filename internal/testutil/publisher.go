package testutil

import "sync"

// PublishedMessage is one captured Publish call.
type PublishedMessage struct {
	Subject string
	Data    interface{}
}

// RecordingPublisher captures published messages for assertions. The zero
// value is ready to use.
type RecordingPublisher struct {
	mu       sync.Mutex
	messages []PublishedMessage
}

func (p *RecordingPublisher) Publish(subject string, data interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.messages = append(p.messages, PublishedMessage{Subject: subject, Data: data})
	return nil
}

// Messages returns a copy of everything published so far.
func (p *RecordingPublisher) Messages() []PublishedMessage {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]PublishedMessage(nil), p.messages...)
}

// Subjects returns the subjects published so far, in order.
func (p *RecordingPublisher) Subjects() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	subjects := make([]string, 0, len(p.messages))
	for _, msg := range p.messages {
		subjects = append(subjects, msg.Subject)
	}
	return subjects
}
