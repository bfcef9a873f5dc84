package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Event is pushed to realtime subscribers after a successful mutation.
type Event struct {
	Type    string    `json:"type"`
	TopicID uuid.UUID `json:"topic_id"`
	Data    any       `json:"data,omitempty"`
}

const (
	EventTopicCreated = "topic_created"
	EventTopicUpdated = "topic_updated"
	EventTopicDeleted = "topic_deleted"
	EventReplyCreated = "reply_created"
	EventReplyDeleted = "reply_deleted"
)

// Notifier delivers events; implementations must not block.
type Notifier interface {
	Notify(Event)
}

type noopNotifier struct{}

func (noopNotifier) Notify(Event) {}

type options struct {
	now        func() time.Time
	notifier   Notifier
	bcryptCost int
	google     googleVerifier
	mailer     mailer
}

type Option func(*options)

// WithClock replaces time.Now; tests use it to control timestamps.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

func WithNotifier(n Notifier) Option {
	return func(o *options) {
		if n != nil {
			o.notifier = n
		}
	}
}

func WithBcryptCost(cost int) Option {
	return func(o *options) { o.bcryptCost = cost }
}

func WithGoogleVerifier(v googleVerifier) Option {
	return func(o *options) { o.google = v }
}

func WithMailer(m mailer) Option {
	return func(o *options) { o.mailer = m }
}

func buildOptions(opts []Option) options {
	o := options{
		now:        func() time.Time { return time.Now().UTC() },
		notifier:   noopNotifier{},
		bcryptCost: bcrypt.DefaultCost,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}
