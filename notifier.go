package authclient

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// NotificationKind classifies a transient message
type NotificationKind string

const (
	NotificationSuccess NotificationKind = "success"
	NotificationError   NotificationKind = "error"
	NotificationInfo    NotificationKind = "info"
	NotificationWarning NotificationKind = "warning"
)

// Notification is a transient user-facing message. Ids are fresh per
// Add and never reused, so a stale expiry timer can never act on a
// different notification that happens to share an id.
type Notification struct {
	ID        string           `json:"id"`
	Kind      NotificationKind `json:"kind"`
	Message   string           `json:"message"`
	CreatedAt time.Time        `json:"created_at"`
}

// NotifierOption customizes notifier construction.
type NotifierOption func(*Notifier)

// WithNotifierTTL overrides how long a notification stays before
// auto-removal.
func WithNotifierTTL(ttl time.Duration) NotifierOption {
	return func(n *Notifier) {
		if ttl > 0 {
			n.ttl = ttl
		}
	}
}

// WithNotifierScheduler injects a custom scheduler (useful for tests).
func WithNotifierScheduler(s Scheduler) NotifierOption {
	return func(n *Notifier) {
		if s != nil {
			n.scheduler = s
		}
	}
}

// WithNotifierClock injects a custom clock (useful for tests).
func WithNotifierClock(clock func() time.Time) NotifierOption {
	return func(n *Notifier) {
		if clock != nil {
			n.now = clock
		}
	}
}

// WithNotifierLogger overrides the logger.
func WithNotifierLogger(logger Logger) NotifierOption {
	return func(n *Notifier) {
		if logger != nil {
			n.logger = logger
		}
	}
}

// Notifier is an ephemeral fan-out queue for transient messages.
// Insertion order is display order. Every notification is destroyed by
// either explicit Remove or TTL expiry, never both: Remove cancels the
// pending timer, and a timer that already fired finds its entry by id,
// so a racing user-click is a silent no-op.
type Notifier struct {
	ttl       time.Duration
	scheduler Scheduler
	now       func() time.Time
	logger    Logger

	mu      sync.Mutex
	ordered []Notification
	pending map[string]ScheduleHandle
}

// NewNotifier returns a notifier with the default 5s TTL on real timers.
func NewNotifier(opts ...NotifierOption) *Notifier {
	n := &Notifier{
		ttl:       DefaultNotificationTTL,
		scheduler: NewTimerScheduler(),
		now:       time.Now,
		logger:    defLogger{},
		pending:   map[string]ScheduleHandle{},
	}

	for _, opt := range opts {
		if opt != nil {
			opt(n)
		}
	}

	return n
}

// Add appends a notification and schedules its auto-removal. Adding
// never fails; the returned id lets the caller close it early.
func (n *Notifier) Add(kind NotificationKind, message string) string {
	notification := Notification{
		ID:        uuid.NewString(),
		Kind:      kind,
		Message:   message,
		CreatedAt: n.now(),
	}

	n.mu.Lock()
	n.ordered = append(n.ordered, notification)
	n.pending[notification.ID] = n.scheduler.Schedule(n.ttl, func() {
		n.expire(notification.ID)
	})
	n.mu.Unlock()

	n.logger.Debug("notification %s added: %s", notification.ID, message)
	return notification.ID
}

// Remove removes the notification with that id if present and cancels
// its pending expiry timer. Removing a nonexistent id is a silent no-op,
// callers may race a close click against an already-fired timer.
func (n *Notifier) Remove(id string) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if handle, ok := n.pending[id]; ok {
		handle.Cancel()
		delete(n.pending, id)
	}
	n.drop(id)
}

// Clear removes all notifications and cancels all pending timers.
func (n *Notifier) Clear() {
	n.mu.Lock()
	defer n.mu.Unlock()

	for id, handle := range n.pending {
		handle.Cancel()
		delete(n.pending, id)
	}
	n.ordered = nil
}

// Notifications returns the current list in insertion order.
func (n *Notifier) Notifications() []Notification {
	n.mu.Lock()
	defer n.mu.Unlock()

	out := make([]Notification, len(n.ordered))
	copy(out, n.ordered)
	return out
}

// expire runs on the scheduler when a TTL elapses. The entry may be
// gone already if Remove won the race after the timer fired.
func (n *Notifier) expire(id string) {
	n.mu.Lock()
	defer n.mu.Unlock()

	delete(n.pending, id)
	n.drop(id)
}

// drop must be called with the lock held.
func (n *Notifier) drop(id string) {
	for i, notification := range n.ordered {
		if notification.ID == id {
			n.ordered = append(n.ordered[:i], n.ordered[i+1:]...)
			return
		}
	}
}
