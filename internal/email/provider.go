package email

import "context"

// Email is one outbound message. Body is the plain-text fallback; HTMLBody
// wins when both are set.
type Email struct {
	To       string
	Subject  string
	Body     string
	HTMLBody string
}

// Provider sends email. Implementations must return within a bounded time;
// the auth flows treat a send error as a hard result, not a retry signal.
type Provider interface {
	Send(ctx context.Context, msg *Email) error
	Validate() error
}
