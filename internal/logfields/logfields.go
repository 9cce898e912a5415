package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyCollection = "collection"
	KeyOp         = "op"
	KeyIndex      = "index"
	KeyEntityID   = "entity_id"
	KeyReminder   = "reminder_title"
	KeySlot       = "slot"
	KeyBackend    = "backend"
	KeyCount      = "count"
	KeyDurationMS = "duration_ms"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func Collection(c string) slog.Attr    { return slog.String(KeyCollection, c) }
func Op(op string) slog.Attr           { return slog.String(KeyOp, op) }
func Index(i int) slog.Attr            { return slog.Int(KeyIndex, i) }
func EntityID(id string) slog.Attr     { return slog.String(KeyEntityID, id) }
func ReminderTitle(t string) slog.Attr { return slog.String(KeyReminder, t) }
func Slot(path string) slog.Attr       { return slog.String(KeySlot, path) }
func Backend(b string) slog.Attr       { return slog.String(KeyBackend, b) }
func Count(n int) slog.Attr            { return slog.Int(KeyCount, n) }
func DurationMS(ms float64) slog.Attr  { return slog.Float64(KeyDurationMS, ms) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
