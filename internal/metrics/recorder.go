package metrics

import "time"

// NotifyOutcome enumerates how a reminder notification was ultimately
// delivered (or not).
type NotifyOutcome string

const (
	NotifyDelivered NotifyOutcome = "delivered"
	NotifyAlerted   NotifyOutcome = "alerted"
	NotifyFailed    NotifyOutcome = "failed"
)

// Recorder defines observability hooks for store and scheduler activity.
// Implementations may forward to Prometheus, OpenTelemetry, etc. All methods
// must be safe on the NoopRecorder (allowing optional injection).
type Recorder interface {
	IncMutation(collection, op string)
	IncSaveResult(success bool)
	ObserveSaveDuration(d time.Duration)
	IncReminderFired()
	IncNotification(outcome NotifyOutcome)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) IncMutation(string, string)        {}
func (NoopRecorder) IncSaveResult(bool)                {}
func (NoopRecorder) ObserveSaveDuration(time.Duration) {}
func (NoopRecorder) IncReminderFired()                 {}
func (NoopRecorder) IncNotification(NotifyOutcome)     {}
