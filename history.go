package trunk

import "sync"

// DefaultHistorySize is the number of messages kept by NewHistory(0).
const DefaultHistorySize = 500

// History keeps the most recent messages in arrival order. It is safe for
// concurrent use.
type History struct {
	mu       sync.Mutex
	messages []Message
	head     int
	full     bool
}

// NewHistory returns a history bounded to size messages.
func NewHistory(size int) *History {
	if size <= 0 {
		size = DefaultHistorySize
	}
	return &History{messages: make([]Message, size)}
}

// Add appends a message, evicting the oldest one when the history is full.
func (h *History) Add(m Message) {
	if m == nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()

	h.messages[h.head] = m
	if h.head++; h.head == len(h.messages) {
		h.head = 0
		h.full = true
	}
}

// Messages returns a snapshot of the history, oldest first.
func (h *History) Messages() []Message {
	h.mu.Lock()
	defer h.mu.Unlock()

	if !h.full {
		return append([]Message(nil), h.messages[:h.head]...)
	}
	out := make([]Message, 0, len(h.messages))
	out = append(out, h.messages[h.head:]...)
	return append(out, h.messages[:h.head]...)
}

// Len returns the number of messages held.
func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.full {
		return len(h.messages)
	}
	return h.head
}

// Cap returns the maximum number of messages held.
func (h *History) Cap() int { return len(h.messages) }

func (h *History) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	clear(h.messages)
	h.head = 0
	h.full = false
}
