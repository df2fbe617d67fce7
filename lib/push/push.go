package push

import (
	"context"
	"errors"
)

// ErrInvalidToken reports that the delivery token is no longer
// registered with the push provider. Callers treat it as a signal
// about the token, not as a failed cycle.
var ErrInvalidToken = errors.New("push: invalid delivery token")

type Notification struct {
	Title string
	Body  string
	// android notification channel id, optional
	AndroidChannel string
	// opaque key/value payload handed to the client app
	Data map[string]string
}

// Notifier delivers one notification to one device token.
// Delivery is best effort, implementations never retry.
type Notifier interface {
	Send(ctx context.Context, token string, notification Notification) error
}
