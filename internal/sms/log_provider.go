package sms

import (
	"context"

	"safespace_backend/internal/logger"
)

// LogProvider writes messages to the application log instead of delivering
// them. Default in development, where there is no SMS gateway.
type LogProvider struct{}

func NewLogProvider() *LogProvider {
	return &LogProvider{}
}

func (p *LogProvider) Send(ctx context.Context, to, message string) error {
	logger.CtxInfo(ctx, "sms (log provider)", "to", to, "message", message)
	return nil
}
