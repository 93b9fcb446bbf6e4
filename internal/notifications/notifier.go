// Package notifications carries user-facing toast events raised by session stores.
package notifications

import (
	"context"
	"sync"

	"github.com/angelmondragon/nexora-storefront/pkg/logger"
)

// Notification is one toast: a short title plus a sentence of detail.
type Notification struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Notifier receives toasts. Implementations must not block the caller for long.
type Notifier interface {
	Notify(ctx context.Context, n Notification)
}

// Nop drops every notification.
type Nop struct{}

func (Nop) Notify(context.Context, Notification) {}

// LogNotifier writes notifications to the structured log.
type LogNotifier struct {
	logg *logger.Logger
}

func NewLogNotifier(logg *logger.Logger) *LogNotifier {
	if logg == nil {
		logg = logger.Nop()
	}
	return &LogNotifier{logg: logg}
}

func (l *LogNotifier) Notify(ctx context.Context, n Notification) {
	ctx = l.logg.WithFields(ctx, map[string]any{
		"toast_title":       n.Title,
		"toast_description": n.Description,
	})
	l.logg.Info(ctx, "toast")
}

// Recorder buffers notifications so a response can hand them to the client.
type Recorder struct {
	mu      sync.Mutex
	pending []Notification
	next    Notifier
}

// NewRecorder buffers notifications and forwards them to next when set.
func NewRecorder(next Notifier) *Recorder {
	return &Recorder{next: next}
}

func (r *Recorder) Notify(ctx context.Context, n Notification) {
	r.mu.Lock()
	r.pending = append(r.pending, n)
	r.mu.Unlock()
	if r.next != nil {
		r.next.Notify(ctx, n)
	}
}

// Drain returns and forgets the buffered notifications.
func (r *Recorder) Drain() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.pending
	r.pending = nil
	if out == nil {
		return []Notification{}
	}
	return out
}

// OrNop substitutes Nop for a nil notifier.
func OrNop(n Notifier) Notifier {
	if n == nil {
		return Nop{}
	}
	return n
}
