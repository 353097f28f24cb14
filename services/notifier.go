package services

import (
	"context"
	"errors"

	"academy/metrics"
)

// Message is a notification addressed to a team
type Message struct {
	TeamID    uint
	TeamName  string
	Recipient string
	Subject   string
	Body      string
}

// Notifier delivers messages to teams
type Notifier interface {
	Notify(ctx context.Context, msg Message) error
}

type NoopNotifier struct{}

func (NoopNotifier) Notify(context.Context, Message) error { return nil }

// Channel is a named notifier, the name labels the metrics
type Channel struct {
	Name     string
	Notifier Notifier
}

// MultiNotifier fans a message out to every channel and joins the errors
type MultiNotifier struct {
	channels []Channel
}

func NewMultiNotifier(channels ...Channel) *MultiNotifier {
	return &MultiNotifier{channels: channels}
}

func (m *MultiNotifier) Notify(ctx context.Context, msg Message) error {
	var errs []error
	for _, channel := range m.channels {
		if err := channel.Notifier.Notify(ctx, msg); err != nil {
			metrics.NotificationsSent.WithLabelValues(channel.Name, "error").Inc()
			errs = append(errs, err)
			continue
		}
		metrics.NotificationsSent.WithLabelValues(channel.Name, "ok").Inc()
	}
	return errors.Join(errs...)
}

// Len returns the number of configured channels
func (m *MultiNotifier) Len() int {
	return len(m.channels)
}
