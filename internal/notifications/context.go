package notifications

import "context"

type recorderKey struct{}

// WithRecorder attaches a per-request recorder that a Dispatcher fills.
func WithRecorder(ctx context.Context, rec *Recorder) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, recorderKey{}, rec)
}

// RecorderFrom returns the recorder attached to ctx, if any.
func RecorderFrom(ctx context.Context) (*Recorder, bool) {
	if ctx == nil {
		return nil, false
	}
	rec, ok := ctx.Value(recorderKey{}).(*Recorder)
	return rec, ok && rec != nil
}

// Dispatcher routes each notification to the recorder carried by the context
// and then to next. Long-lived stores hold a Dispatcher so toasts raised while
// serving a request end up in that request's response.
type Dispatcher struct {
	next Notifier
}

func NewDispatcher(next Notifier) *Dispatcher {
	return &Dispatcher{next: OrNop(next)}
}

func (d *Dispatcher) Notify(ctx context.Context, n Notification) {
	if rec, ok := RecorderFrom(ctx); ok {
		rec.Notify(ctx, n)
	}
	d.next.Notify(ctx, n)
}
