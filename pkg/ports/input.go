package ports

// InputSource delivers skip/confirm notifications, one per user action.
// The returned function removes the subscription and is safe to call twice.
type InputSource interface {
	Subscribe(fn func()) (unsubscribe func())
}
