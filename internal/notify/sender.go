package notify

import (
	"context"
	"time"

	"health_monitor/internal/logger"
	"health_monitor/internal/models"
	"health_monitor/internal/service"
)

// LogSender simulates SMS delivery by logging the payload.
type LogSender struct {
	log *logger.Logger
}

var _ service.Sender = LogSender{}

func NewLogSender(log *logger.Logger) LogSender {
	if log == nil {
		log = logger.NewNop()
	}
	return LogSender{log: log}
}

func (s LogSender) Send(ctx context.Context, n models.Notification) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.log.Infow("sms_simulated",
		"to", n.ContactName,
		"phone", n.Phone,
		"message", n.Message,
		"location", n.Location,
		"sent_at", n.SentAt.Format(time.RFC3339),
	)
	return nil
}
