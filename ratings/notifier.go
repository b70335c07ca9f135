package ratings

// NoticeKind classifies a user-visible signal from the coordinator
type NoticeKind int

const (
	// NoticeSaved reports a rating the server confirmed
	NoticeSaved NoticeKind = iota
	// NoticeRolledBack reports an optimistic value that was undone
	NoticeRolledBack
)

// Notifier receives user-visible signals. It is passed in as a collaborator
// so the coordinator has no ambient global dependency; a UI surface plugs in
// its own toast/message channel.
type Notifier interface {
	Notify(kind NoticeKind, message string)
}

// NotifierFunc adapts a function to the Notifier interface
type NotifierFunc func(kind NoticeKind, message string)

// Notify implements Notifier
func (f NotifierFunc) Notify(kind NoticeKind, message string) {
	f(kind, message)
}

// NopNotifier discards all signals
func NopNotifier() Notifier {
	return NotifierFunc(func(NoticeKind, string) {})
}
