// Package notify models the platform notification capability: a permission
// gate, a delivery channel and a blocking alert fallback. The fired transition
// that triggers delivery belongs to the scheduler; this package only carries
// the message out.
package notify

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
)

// Permission is the three-state notification permission.
type Permission string

const (
	// PermissionDefault means the user has not been asked yet.
	PermissionDefault Permission = "default"
	PermissionGranted Permission = "granted"
	PermissionDenied  Permission = "denied"
)

// Notifier delivers system notifications, guarded by a permission state.
type Notifier interface {
	// Permission reports the current permission state without prompting.
	Permission() Permission

	// RequestPermission prompts for permission and returns the resulting
	// state. Called at most once per delivery attempt, and only when the
	// state is PermissionDefault.
	RequestPermission(ctx context.Context) Permission

	// Notify delivers a notification. Only called when permission is granted.
	Notify(title, body string) error
}

// Alerter is the blocking user-visible fallback used when notifications are
// denied or unavailable.
type Alerter interface {
	Alert(title, body string)
}

// Outcome reports how Deliver got the message out.
type Outcome string

const (
	OutcomeDelivered Outcome = "delivered"
	OutcomeAlerted   Outcome = "alerted"
	OutcomeFailed    Outcome = "failed"
)

// Deliver runs the permission chain: granted permission delivers directly;
// an unasked permission is requested first and delivers if granted; anything
// else falls back to the alerter. A Notify error also falls back to the
// alerter so a due reminder is never lost silently.
func Deliver(ctx context.Context, n Notifier, a Alerter, title, body string) Outcome {
	perm := n.Permission()
	if perm == PermissionDefault {
		perm = n.RequestPermission(ctx)
	}

	if perm == PermissionGranted {
		if err := n.Notify(title, body); err == nil {
			return OutcomeDelivered
		} else {
			slog.Warn("notification delivery failed, falling back to alert", "error", err)
		}
	}

	if a != nil {
		a.Alert(title, body)
		return OutcomeAlerted
	}
	return OutcomeFailed
}

// LogNotifier writes notifications to the structured log. It is the default
// delivery channel for headless runs; permission is always granted.
type LogNotifier struct{}

func (LogNotifier) Permission() Permission                       { return PermissionGranted }
func (LogNotifier) RequestPermission(context.Context) Permission { return PermissionGranted }

func (LogNotifier) Notify(title, body string) error {
	slog.Info("notification", "title", title, "body", body)
	return nil
}

// WriterAlerter writes a blocking-style alert line to w (stderr by default).
type WriterAlerter struct {
	W io.Writer
}

func (a WriterAlerter) Alert(title, body string) {
	w := a.W
	if w == nil {
		w = os.Stderr
	}
	fmt.Fprintf(w, "%s\n%s\n", title, body)
}
