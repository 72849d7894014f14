package notify

import "github.com/gen2brain/beeep"

// Send shows a desktop notification. Failures are returned but callers
// generally ignore them; a missing notification daemon should never fail a
// scheduling run.
func Send(title, message string) error {
	return beeep.Notify(title, message, "")
}
