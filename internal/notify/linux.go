//go:build linux

package notify

import "strconv"

// expireMillis keeps the reminder on screen long enough to notice.
const expireMillis = 15000

func newPlatformNotifier() Notifier {
	return &commandNotifier{bin: "notify-send", args: notifySendArgs}
}

// notifySendArgs builds the notify-send command line. Sound is a daemon hint;
// most daemons honour sound-name, some ignore it.
func notifySendArgs(title, message string, sound bool) []string {
	args := []string{
		"--app-name=" + AppName,
		"--icon=appointment-soon",
		"--expire-time=" + strconv.Itoa(expireMillis),
	}
	if sound {
		args = append(args, "--hint=string:sound-name:message-new-instant")
	}
	return append(args, title, message)
}
