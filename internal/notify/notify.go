// Package notify provides cross-platform desktop notification support.
// It uses native notification mechanisms on macOS (osascript) and Linux (notify-send).
package notify

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"time"
)

// AppName is shown as the sender where the platform supports it.
const AppName = "breather"

// Notifier defines the interface for sending desktop notifications.
type Notifier interface {
	// Send sends a notification with the given title and message.
	Send(title, message string) error

	// SendWithSound sends a notification with sound.
	SendWithSound(title, message string) error

	// IsSupported returns true if notifications are supported on this platform.
	IsSupported() bool
}

type noopNotifier struct{}

func (n *noopNotifier) Send(title, message string) error {
	return nil
}

func (n *noopNotifier) SendWithSound(title, message string) error {
	return nil
}

func (n *noopNotifier) IsSupported() bool {
	return false
}

// New creates a platform-specific notifier.
// Returns a no-op notifier if the platform doesn't support notifications.
func New() Notifier {
	n := newPlatformNotifier()
	if n == nil || !n.IsSupported() {
		return &noopNotifier{}
	}
	return n
}

// commandTimeout bounds a single notifier process.
const commandTimeout = 5 * time.Second

// commandNotifier delivers notifications by running a helper binary. args
// builds its argument list.
type commandNotifier struct {
	bin  string
	args func(title, message string, sound bool) []string
	run  func(ctx context.Context, bin string, args ...string) error
}

func (n *commandNotifier) Send(title, message string) error {
	return n.deliver(title, message, false)
}

func (n *commandNotifier) SendWithSound(title, message string) error {
	return n.deliver(title, message, true)
}

// IsSupported reports whether the helper binary is on PATH.
func (n *commandNotifier) IsSupported() bool {
	_, err := exec.LookPath(n.bin)
	return err == nil
}

func (n *commandNotifier) deliver(title, message string, sound bool) error {
	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	run := n.run
	if run == nil {
		run = runCommand
	}
	if err := run(ctx, n.bin, n.args(title, message, sound)...); err != nil {
		return fmt.Errorf("%s failed: %w", n.bin, err)
	}
	return nil
}

func runCommand(ctx context.Context, bin string, args ...string) error {
	return exec.CommandContext(ctx, bin, args...).Run()
}

// Config holds notification configuration.
type Config struct {
	// Enabled enables/disables the "activity due" notification
	Enabled bool `yaml:"enabled"`

	// Sound plays the platform's default sound with it
	Sound bool `yaml:"sound"`
}

// DefaultConfig returns the default notification configuration.
func DefaultConfig() Config {
	return Config{
		Enabled: true,
		Sound:   false,
	}
}

// Sender is the one-method view of a Notifier that the countdown uses.
type Sender interface {
	Send(title, message string) error
}

// FromConfig builds the sender described by cfg: nothing when disabled, and
// SendWithSound in place of Send when sound is on. Delivery runs in the
// background and failures are only logged.
func FromConfig(cfg Config, n Notifier, logger *slog.Logger) Sender {
	if !cfg.Enabled || n == nil {
		return &asyncSender{send: func(string, string) error { return nil }, logger: logger}
	}
	send := n.Send
	if cfg.Sound {
		send = n.SendWithSound
	}
	return Async(send, logger)
}

type asyncSender struct {
	send   func(title, message string) error
	logger *slog.Logger
	wait   chan error // test hook; nil in production
}

// Async wraps send so Send returns immediately. Errors from the background
// delivery go to logger.
func Async(send func(title, message string) error, logger *slog.Logger) Sender {
	if logger == nil {
		logger = slog.Default()
	}
	return &asyncSender{send: send, logger: logger}
}

func (a *asyncSender) Send(title, message string) error {
	go func() {
		err := a.send(title, message)
		if err != nil {
			a.logger.Warn("notification delivery failed", "title", title, "error", err)
		}
		if a.wait != nil {
			a.wait <- err
		}
	}()
	return nil
}
