// Package notify turns failed cart operations into user-facing toasts.
package notify

import (
	"context"
	"errors"
	"sync"

	"github.com/nikolayk812/storefront-cart/internal/domain"
	"github.com/sirupsen/logrus"
)

type Op string

const (
	OpAdd    Op = "add"
	OpRemove Op = "remove"
	OpUpdate Op = "update"
)

type Level string

const LevelError Level = "error"

type Toast struct {
	Level   Level  `json:"level"`
	Message string `json:"message"`
}

// Sink delivers toasts. Delivery is fire-and-forget.
type Sink interface {
	Toast(ctx context.Context, toast Toast)
}

// Message renders err for op. Add and remove failures get a fixed text,
// amount update failures carry the error's own description. An add that
// increments an existing line item fails like an update.
func Message(op Op, err error) string {
	var amountErr *domain.AmountError
	if errors.As(err, &amountErr) {
		return err.Error()
	}

	switch op {
	case OpAdd:
		return "failed to add product"
	case OpRemove:
		return "failed to remove product"
	default:
		return err.Error()
	}
}

type Reporter struct {
	sink Sink
}

func NewReporter(sink Sink) *Reporter {
	return &Reporter{sink: sink}
}

// Report sends a toast for a non-nil err and returns it.
func (r *Reporter) Report(ctx context.Context, op Op, err error) (Toast, bool) {
	if err == nil {
		return Toast{}, false
	}

	toast := Toast{Level: LevelError, Message: Message(op, err)}
	r.sink.Toast(ctx, toast)

	return toast, true
}

type LogSink struct {
	log logrus.FieldLogger
}

func NewLogSink(log logrus.FieldLogger) *LogSink {
	return &LogSink{log: log}
}

func (s *LogSink) Toast(_ context.Context, toast Toast) {
	s.log.WithField("level", toast.Level).Warn(toast.Message)
}

// Recorder keeps every toast it receives.
type Recorder struct {
	mu     sync.Mutex
	toasts []Toast
}

func (r *Recorder) Toast(_ context.Context, toast Toast) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.toasts = append(r.toasts, toast)
}

func (r *Recorder) Toasts() []Toast {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]Toast(nil), r.toasts...)
}

// Fanout delivers each toast to every sink in order.
type Fanout []Sink

func (f Fanout) Toast(ctx context.Context, toast Toast) {
	for _, sink := range f {
		sink.Toast(ctx, toast)
	}
}
