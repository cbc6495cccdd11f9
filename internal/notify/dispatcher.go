// Package notify defines the fire-and-forget push contract consumed when
// mule assignments are created. The real transport lives outside this
// system; the default implementation only records the intent.
package notify

import "log/slog"

type Notification struct {
	UserID string
	Title  string
	Body   string
}

// Dispatcher delivers a notification on a best-effort basis. Implementations
// must never block the caller on transport failures.
type Dispatcher interface {
	Dispatch(n Notification)
}

type slogDispatcher struct {
	logger *slog.Logger
}

func NewSlogDispatcher(logger *slog.Logger) Dispatcher {
	return &slogDispatcher{logger: logger}
}

func (d *slogDispatcher) Dispatch(n Notification) {
	d.logger.Info("push notification", "user", n.UserID, "title", n.Title)
}
