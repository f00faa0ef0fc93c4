package session

// CompletionFunc receives the finished session result.
type CompletionFunc func(Completion)

// Notifier hands a Completion to its callback at most once.
type Notifier struct {
	fn        CompletionFunc
	delivered bool
}

// NewNotifier creates a Notifier for fn. A nil fn is allowed; the notifier
// still records delivery.
func NewNotifier(fn CompletionFunc) *Notifier {
	return &Notifier{fn: fn}
}

// Deliver invokes the callback with c the first time a non-nil completion
// is offered. It returns true only for that first delivery.
func (n *Notifier) Deliver(c *Completion) bool {
	if c == nil || n.delivered {
		return false
	}
	n.delivered = true
	if n.fn != nil {
		frozen := *c
		frozen.Metrics = c.Metrics.clone()
		n.fn(frozen)
	}
	return true
}

// Delivered reports whether a completion has been delivered.
func (n *Notifier) Delivered() bool {
	return n.delivered
}
