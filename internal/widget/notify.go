package widget

import "github.com/charmbracelet/log"

// NoticeKind classifies a user-facing notification.
type NoticeKind string

const (
	NoticeValidation NoticeKind = "validation"
	NoticeSuccess    NoticeKind = "success"
	NoticeFailure    NoticeKind = "failure"
)

// Notice is a message for the user.
type Notice struct {
	Kind    NoticeKind `json:"kind"`
	Message string     `json:"message"`
}

const (
	msgValidation = "Please fill in your message, name and email."
	msgSuccess    = "Thank you! Your message has been sent."
	msgFailure    = "Sorry, your message could not be sent. Please try again."
	msgOpened     = "Opening WhatsApp to send your message."
)

// Notifier shows notices to the user. The host decides how (toast,
// alert, custom event).
type Notifier interface {
	Notify(Notice)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(Notice)

// Notify implements Notifier.
func (f NotifierFunc) Notify(n Notice) { f(n) }

// logNotifier is used when the host supplies no Notifier.
type logNotifier struct {
	logger *log.Logger
}

func (l logNotifier) Notify(n Notice) {
	l.logger.Info("notice", "kind", n.Kind, "message", n.Message)
}
