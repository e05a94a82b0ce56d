//go:build !windows

package infra

// notifyUser is a no-op outside Windows; the log entry is the notification.
func notifyUser(caption, text string) {}
