package app

import (
	"context"

	"safespace_backend/internal/email"
	"safespace_backend/internal/logger"
)

// LogEmailProvider stands in for SMTP during local development and tests.
type LogEmailProvider struct{}

func (p *LogEmailProvider) Send(ctx context.Context, msg *email.Email) error {
	logger.CtxInfo(ctx, "email (log provider)", "to", msg.To, "subject", msg.Subject)
	return nil
}

func (p *LogEmailProvider) Validate() error { return nil }
