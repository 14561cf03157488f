package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"socialdesk/pkg/logger"

	"github.com/hibiken/asynq"
)

// EmailTask is consumed by cmd/worker.
const EmailTask = "notify:email"

// QueueSender hands messages to the asynq queue instead of sending them inline.
type QueueSender struct {
	client   *asynq.Client
	maxRetry int
}

func NewQueueSender(client *asynq.Client) *QueueSender {
	return &QueueSender{client: client, maxRetry: 5}
}

func (q *QueueSender) Send(ctx context.Context, msg Message) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}
	task := asynq.NewTask(EmailTask, data)
	if _, err := q.client.EnqueueContext(ctx, task, asynq.MaxRetry(q.maxRetry)); err != nil {
		return fmt.Errorf("enqueue email task: %w", err)
	}
	return nil
}

func (q *QueueSender) Close() error {
	return q.client.Close()
}

// Processor delivers queued messages with the wrapped sender.
type Processor struct {
	sender Sender
	logger *logger.Logger
}

func NewProcessor(sender Sender, l *logger.Logger) *Processor {
	return &Processor{sender: sender, logger: l}
}

func (p *Processor) Handler() *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.HandleFunc(EmailTask, p.HandleEmail)
	return mux
}

func (p *Processor) HandleEmail(ctx context.Context, task *asynq.Task) error {
	var msg Message
	if err := json.Unmarshal(task.Payload(), &msg); err != nil {
		return fmt.Errorf("decode payload: %w: %w", err, asynq.SkipRetry)
	}
	if err := p.sender.Send(ctx, msg); err != nil {
		p.logger.Warnf("email %q to %s failed: %v", msg.Subject, msg.To, err)
		return err
	}
	p.logger.Infof("email %q delivered to %s", msg.Subject, msg.To)
	return nil
}
