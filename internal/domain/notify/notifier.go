package notify

import "context"

// Notifier delivers one text payload per call.
// This keeps the application logic independent of the chat backend.
type Notifier interface {
	Notify(ctx context.Context, text string) error
}
