package alerting

import (
	"context"
	"errors"
	"fmt"
)

// Notifier delivers alert events to an external channel.
type Notifier interface {
	Notify(ctx context.Context, ev Event) error
}

// MultiNotifier fans an event out to every configured channel. A failing
// channel does not prevent delivery to the rest.
type MultiNotifier struct {
	notifiers []Notifier
}

// NewMultiNotifier drops nil entries and returns the fan-out notifier.
func NewMultiNotifier(notifiers ...Notifier) *MultiNotifier {
	active := make([]Notifier, 0, len(notifiers))
	for _, n := range notifiers {
		if n != nil {
			active = append(active, n)
		}
	}
	return &MultiNotifier{notifiers: active}
}

// Notify sends ev to every channel and joins the failures.
func (m *MultiNotifier) Notify(ctx context.Context, ev Event) error {
	var errs []error
	for i, n := range m.notifiers {
		if err := n.Notify(ctx, ev); err != nil {
			errs = append(errs, fmt.Errorf("channel %d: %w", i, err))
		}
	}
	return errors.Join(errs...)
}

// Len returns the number of active channels.
func (m *MultiNotifier) Len() int {
	return len(m.notifiers)
}

var _ Notifier = (*MultiNotifier)(nil)
