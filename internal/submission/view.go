package submission

import (
	"context"
	"time"
)

// NOTIFICATION_TTL is how long a view keeps a notification on screen.
const NOTIFICATION_TTL = 4 * time.Second

type NotificationKind string

const (
	NotificationError NotificationKind = "error"
	NotificationInfo  NotificationKind = "info"
)

type Notification struct {
	Kind    NotificationKind
	Message string
}

// View is the render surface the controller drives. Implementations must not
// call back into the Controller synchronously.
type View interface {
	SetBusy(busy bool)
	RenderResult(result RenderedResult)
	RenderError(n Notification)
	// ClearInput empties the input, resets the character count and focuses the input.
	ClearInput()
	// RemoveResult hides the rendered result. It must be a no-op when nothing is shown.
	RemoveResult()
}

// EventSource delivers user intents to registered handlers.
type EventSource interface {
	OnSubmit(handler func(ctx context.Context, text string))
	OnReset(handler func())
}
