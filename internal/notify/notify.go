package notify

import (
	"bytes"
	"context"
	"errors"
	"html/template"
	"sync"
	"time"

	"socialdesk/pkg/logger"
)

// Message is one outbound e-mail.
type Message struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	HTML    string `json:"html"`
}

type Sender interface {
	Send(ctx context.Context, msg Message) error
}

var ErrClosed = errors.New("dispatcher closed")

// Dispatcher sends admin notifications in the background. Callers never wait
// for delivery and never see its errors.
type Dispatcher struct {
	sender  Sender
	to      string
	timeout time.Duration
	logger  *logger.Logger

	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

func NewDispatcher(sender Sender, to string, timeout time.Duration, l *logger.Logger) *Dispatcher {
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return &Dispatcher{sender: sender, to: to, timeout: timeout, logger: l}
}

// Notify renders tmpl with data and sends the result to the admin address.
func (d *Dispatcher) Notify(ctx context.Context, subject string, tmpl *template.Template, data any) {
	if d == nil {
		return
	}
	var body bytes.Buffer
	if err := tmpl.Execute(&body, data); err != nil {
		d.logger.WithContext(ctx).Errorf("render %q notification: %v", subject, err)
		return
	}
	d.Dispatch(ctx, Message{To: d.to, Subject: subject, HTML: body.String()})
}

// Dispatch sends msg on its own goroutine. The request context only supplies
// log fields; cancelling it does not abort the send.
func (d *Dispatcher) Dispatch(ctx context.Context, msg Message) {
	if d == nil {
		return
	}
	log := d.logger.WithContext(ctx)
	if msg.To == "" {
		log.Warnf("notification %q dropped: no recipient configured", msg.Subject)
		return
	}

	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		log.Warnf("notification %q dropped: %v", msg.Subject, ErrClosed)
		return
	}
	d.wg.Add(1)
	d.mu.Unlock()

	sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), d.timeout)
	go func() {
		defer d.wg.Done()
		defer cancel()
		defer func() {
			if r := recover(); r != nil {
				log.Errorf("notification %q panicked: %v", msg.Subject, r)
			}
		}()
		if err := d.sender.Send(sendCtx, msg); err != nil {
			log.Errorf("notification %q to %s failed: %v", msg.Subject, msg.To, err)
			return
		}
		log.Infof("notification %q sent to %s", msg.Subject, msg.To)
	}()
}

// Close stops accepting messages and waits for in-flight sends until ctx ends.
func (d *Dispatcher) Close(ctx context.Context) error {
	if d == nil {
		return nil
	}
	d.mu.Lock()
	d.closed = true
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
