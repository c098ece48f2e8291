package client

import (
	"context"
	"sync"
	"time"
)

// DefaultDebounce is the quiet period before a suggestion request is sent.
const DefaultDebounce = 600 * time.Millisecond

// Suggester debounces autocomplete calls per field. A new Request for a field
// cancels its pending timer and any in-flight call, so at most one request
// per field is outstanding and only the latest result is delivered.
type Suggester struct {
	client *Client
	delay  time.Duration

	mu      sync.Mutex
	pending map[string]*pendingSuggestion
	seq     uint64
}

type pendingSuggestion struct {
	id     uint64
	timer  *time.Timer
	cancel context.CancelFunc
}

// NewSuggester uses DefaultDebounce when delay is not positive.
func NewSuggester(c *Client, delay time.Duration) *Suggester {
	if delay <= 0 {
		delay = DefaultDebounce
	}
	return &Suggester{client: c, delay: delay, pending: map[string]*pendingSuggestion{}}
}

// Request schedules an autocomplete call for field. done runs on its own
// goroutine with the result, unless a later Request for the same field or
// Stop supersedes it first.
func (s *Suggester) Request(ctx context.Context, prompt, field string, done func([]string, error)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cancelLocked(field)

	s.seq++
	ctx, cancel := context.WithCancel(ctx)
	p := &pendingSuggestion{id: s.seq, cancel: cancel}
	p.timer = time.AfterFunc(s.delay, func() {
		suggestions, err := s.client.Autocomplete(ctx, prompt, field)
		if !s.finish(field, p.id) {
			return
		}
		done(suggestions, err)
	})
	s.pending[field] = p
}

// Stop cancels every pending and in-flight request.
func (s *Suggester) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for field := range s.pending {
		s.cancelLocked(field)
	}
}

// finish clears the pending entry if id is still the latest for field.
func (s *Suggester) finish(field string, id uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.pending[field]
	if !ok || p.id != id {
		return false
	}
	p.cancel()
	delete(s.pending, field)
	return true
}

func (s *Suggester) cancelLocked(field string) {
	if p, ok := s.pending[field]; ok {
		p.timer.Stop()
		p.cancel()
		delete(s.pending, field)
	}
}
