package ports

import "context"

// Messenger delivers a text message to a chat. A returned error means the
// message was not delivered; retrying is the caller's business.
type Messenger interface {
	Send(ctx context.Context, chatID int64, text string) error
}
