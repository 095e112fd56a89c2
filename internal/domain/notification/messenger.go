package notification

import "context"

// Messenger pushes one message to a set of device tokens.
type Messenger interface {
	Push(ctx context.Context, tokens []string, msg Message) error
}
