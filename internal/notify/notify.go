// Package notify provides the toast/flash notification collaborator shared by pages.
package notify

import "sync"

// Variant selects how a notification is presented.
type Variant string

const (
	VariantDefault     Variant = "default"
	VariantDestructive Variant = "destructive"
)

// Notification is a single user-visible message.
type Notification struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Variant     Variant `json:"variant,omitempty"`
}

// Destructive reports whether the notification signals a failure.
func (n Notification) Destructive() bool {
	return n.Variant == VariantDestructive
}

// Notifier receives notifications. Calls are fire-and-forget.
type Notifier interface {
	Notify(n Notification)
}

// NotifierFunc adapts a plain function to the Notifier interface.
type NotifierFunc func(Notification)

// Notify calls f(n).
func (f NotifierFunc) Notify(n Notification) {
	f(n)
}

// Discard drops every notification.
var Discard Notifier = NotifierFunc(func(Notification) {})

// Queue buffers notifications until the next page render drains them.
type Queue struct {
	mu    sync.Mutex
	items []Notification
}

// NewQueue creates an empty queue.
func NewQueue() *Queue {
	return &Queue{}
}

// Notify appends n to the queue.
func (q *Queue) Notify(n Notification) {
	if n.Variant == "" {
		n.Variant = VariantDefault
	}
	q.mu.Lock()
	q.items = append(q.items, n)
	q.mu.Unlock()
}

// Drain returns all queued notifications in arrival order and empties the queue.
func (q *Queue) Drain() []Notification {
	q.mu.Lock()
	defer q.mu.Unlock()
	items := q.items
	q.items = nil
	return items
}

// Len returns the number of queued notifications.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}
