package notify

import (
	"context"
	"errors"
	"io"
	"net"

	"socialdesk/config"
	"socialdesk/pkg/logger"

	"github.com/hibiken/asynq"
)

// LogSender only logs; used when no SMTP server is configured.
type LogSender struct {
	logger *logger.Logger
}

func NewLogSender(l *logger.Logger) *LogSender {
	return &LogSender{logger: l}
}

func (s *LogSender) Send(ctx context.Context, msg Message) error {
	s.logger.WithContext(ctx).Infof("email to %s: %s (%d bytes)", msg.To, msg.Subject, len(msg.HTML))
	return nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// SMTPFromConfig returns the direct SMTP sender, or a LogSender without a host.
func SMTPFromConfig(cfg *config.Config, l *logger.Logger) Sender {
	if cfg.SMTPHost == "" {
		return NewLogSender(l)
	}
	return NewSMTPSender(SMTPConfig{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		User:     cfg.SMTPUser,
		Password: cfg.SMTPPassword,
		From:     cfg.MailFrom,
	})
}

// RedisOpt builds the asynq connection options from the redis settings.
func RedisOpt(cfg *config.Config) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     net.JoinHostPort(cfg.RedisHost, cfg.RedisPort),
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	}
}

// NewSender picks the sender used by the API process. The returned closer
// releases the queue client, if any.
func NewSender(cfg *config.Config, l *logger.Logger) (Sender, io.Closer, error) {
	switch cfg.NotifyQueue {
	case config.QueueAsynq:
		if !cfg.RedisEnabled() {
			return nil, nil, errors.New("asynq notifications need REDIS_HOST")
		}
		q := NewQueueSender(asynq.NewClient(RedisOpt(cfg)))
		return q, q, nil
	default:
		return SMTPFromConfig(cfg, l), nopCloser{}, nil
	}
}
