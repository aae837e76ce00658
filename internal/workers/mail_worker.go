package workers

import (
	"context"
	"time"

	"safespace_backend/internal/email"
	"safespace_backend/internal/logger"
)

const mailQueueSize = 64

// MailWorker drains a buffered queue of best-effort emails (confirmation
// mails and the like). Flows where a failed send must fail the request
// (welcome mail, OTP delivery) call the provider directly instead.
type MailWorker struct {
	provider email.Provider
	queue    chan *email.Email
}

func NewMailWorker(provider email.Provider) *MailWorker {
	return &MailWorker{
		provider: provider,
		queue:    make(chan *email.Email, mailQueueSize),
	}
}

// Enqueue schedules a message and reports whether it was accepted. A full
// queue drops the message; best-effort mail never blocks a request.
func (w *MailWorker) Enqueue(msg *email.Email) bool {
	select {
	case w.queue <- msg:
		return true
	default:
		logger.Warn("mail queue full, dropping message", "to", msg.To, "subject", msg.Subject)
		return false
	}
}

// Start consumes the queue until ctx is cancelled.
func (w *MailWorker) Start(ctx context.Context) {
	go func() {
		for {
			select {
			case <-ctx.Done():
				logger.Info("mail worker stopped")
				return
			case msg := <-w.queue:
				sendCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
				err := w.provider.Send(sendCtx, msg)
				cancel()
				logger.WorkerLog("mail_worker", "send "+msg.Subject, err)
			}
		}
	}()
}
