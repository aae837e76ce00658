package sms

import "context"

// Provider sends a text message. Same contract as email: bounded time,
// error means the message did not go out.
type Provider interface {
	Send(ctx context.Context, to, message string) error
}
