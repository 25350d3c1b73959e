package session

import (
	"sync"
	"sync/atomic"

	"github.com/fairyhunter13/item-purchase-service/internal/model"
)

// feed is a bounded notification backlog drained by the host shell. When
// full it drops the oldest entry, so a host that never polls cannot grow
// the session without bound.
type feed struct {
	mu      sync.Mutex
	backlog []model.Notification
	cap     int

	emitted atomic.Uint64
	drained atomic.Uint64
	dropped atomic.Uint64
}

func newFeed(capacity int) *feed {
	if capacity <= 0 {
		capacity = 128
	}
	return &feed{cap: capacity}
}

func (f *feed) push(n model.Notification) {
	f.emitted.Add(1)
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.backlog) >= f.cap {
		f.backlog = f.backlog[1:]
		f.dropped.Add(1)
	}
	f.backlog = append(f.backlog, n)
}

// drain returns and clears the pending notifications in emission order.
func (f *feed) drain() []model.Notification {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := f.backlog
	f.backlog = nil
	f.drained.Add(uint64(len(out)))
	return out
}

func (f *feed) size() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.backlog)
}

// metrics returns emitted/drained/dropped counters and the pending size.
func (f *feed) metrics() (emitted, drained, dropped uint64, pending int) {
	return f.emitted.Load(), f.drained.Load(), f.dropped.Load(), f.size()
}
