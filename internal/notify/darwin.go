//go:build darwin

package notify

import (
	"fmt"
	"strings"
)

// soundName is one of the sounds in /System/Library/Sounds.
const soundName = "Glass"

func newPlatformNotifier() Notifier {
	return &commandNotifier{bin: "osascript", args: osascriptArgs}
}

func osascriptArgs(title, message string, sound bool) []string {
	script := fmt.Sprintf(`display notification "%s" with title "%s" subtitle "%s"`,
		escapeAppleScript(message), escapeAppleScript(title), AppName)
	if sound {
		script += fmt.Sprintf(` sound name "%s"`, soundName)
	}
	return []string{"-e", script}
}

// escapeAppleScript escapes backslashes and quotes for an AppleScript string
// literal.
func escapeAppleScript(s string) string {
	return strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(s)
}
