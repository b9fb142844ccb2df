package notify

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

const sendTimeout = 10 * time.Second

// Queue is what callers hand a message to. Dispatch never blocks and never
// reports failure back to the caller.
type Queue interface {
	Dispatch(msg Message)
}

// Dispatcher sends messages off the request path through a buffered
// channel. A full queue drops the message; notification loss never breaks
// a booking.
type Dispatcher struct {
	sender Sender
	log    zerolog.Logger
	queue  chan Message
}

func NewDispatcher(sender Sender, log zerolog.Logger) *Dispatcher {
	d := &Dispatcher{
		sender: sender,
		log:    log,
		queue:  make(chan Message, 100),
	}

	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	for msg := range d.queue {
		ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
		if err := d.sender.Send(ctx, msg); err != nil {
			d.log.Error().Err(err).Str("subject", msg.Subject).Msg("email send failed")
		}
		cancel()
	}
}

func (d *Dispatcher) Dispatch(msg Message) {
	select {
	case d.queue <- msg:
	default:
		d.log.Warn().Str("subject", msg.Subject).Msg("notify queue full, dropping message")
	}
}
