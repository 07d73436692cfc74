//go:build !darwin && !linux

package notify

// newPlatformNotifier has nothing to offer here; New falls back to a no-op.
func newPlatformNotifier() Notifier {
	return nil
}
