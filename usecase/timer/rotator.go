package timer

import "sync"

// DefaultQuotes are shown while the focus timer runs.
var DefaultQuotes = []string{
	"The secret of getting ahead is getting started.",
	"Don't watch the clock; do what it does. Keep going.",
	"Success is the sum of small efforts repeated day in and day out.",
	"Your future is created by what you do today, not tomorrow.",
	"Action is the foundational key to all success.",
	"The only way to do great work is to love what you do.",
	"Stay hungry. Stay foolish.",
	"It is during our darkest moments that we must focus to see the light.",
	"Success is not final, failure is not fatal: it is the courage to continue that counts.",
	"The only impossible journey is the one you never begin.",
	"In the middle of difficulty lies opportunity.",
	"Believe you can and you're halfway there.",
	"The way to get started is to quit talking and begin doing.",
	"The successful warrior is the average person with laser-like focus.",
	"Opportunities don't happen. You create them.",
}

// Rotator cycles through quotes in order.
type Rotator struct {
	mu     sync.Mutex
	quotes []string
	index  int
}

func NewRotator(quotes []string) *Rotator {
	if len(quotes) == 0 {
		quotes = DefaultQuotes
	}
	return &Rotator{quotes: append([]string(nil), quotes...)}
}

func (r *Rotator) Current() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.quotes[r.index]
}

// Next advances to the following quote, wrapping at the end.
func (r *Rotator) Next() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.index = (r.index + 1) % len(r.quotes)
	return r.quotes[r.index]
}

// Index is the position of the current quote.
func (r *Rotator) Index() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.index
}
