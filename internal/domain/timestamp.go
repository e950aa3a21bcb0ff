package domain

import "time"

// Placeholders used when a server-assigned timestamp is absent, e.g. on a
// record read back before the store filled it in.
const (
	PlaceholderRecently = "recently"
	PlaceholderUnknown  = "unknown"
)

// FormatTimestamp renders a possibly-missing timestamp for display, falling
// back to the given placeholder instead of erroring.
func FormatTimestamp(t *time.Time, fallback string) string {
	if t == nil || t.IsZero() {
		return fallback
	}
	return t.Format("02/01/2006")
}
