package ui

import (
	"fmt"
	"os/exec"
	"runtime"
	"strings"
)

// NotificationSender delivers a desktop notification
type NotificationSender interface {
	Send(title, message string) error
}

// LinuxNotificationSender sends notifications on Linux using notify-send
type LinuxNotificationSender struct{}

func (l *LinuxNotificationSender) Send(title, message string) error {
	return exec.Command("notify-send", "--app-name=tagscraper", title, message).Run()
}

// MacOSNotificationSender sends notifications on macOS using osascript
type MacOSNotificationSender struct{}

func (m *MacOSNotificationSender) Send(title, message string) error {
	script := fmt.Sprintf(`display notification %q with title %q`, message, title)
	return exec.Command("osascript", "-e", script).Run()
}

// WindowsNotificationSender sends notifications on Windows using PowerShell
type WindowsNotificationSender struct{}

func (w *WindowsNotificationSender) Send(title, message string) error {
	escape := strings.NewReplacer("<", "&lt;", ">", "&gt;", "&", "&amp;").Replace
	script := fmt.Sprintf(`
		[Windows.UI.Notifications.ToastNotificationManager, Windows.UI.Notifications, ContentType = WindowsRuntime] | Out-Null
		[Windows.Data.Xml.Dom.XmlDocument, Windows.Data.Xml.Dom.XmlDocument, ContentType = WindowsRuntime] | Out-Null
		$xml = @"
<toast><visual><binding template="ToastText02">
	<text id="1">%s</text>
	<text id="2">%s</text>
</binding></visual></toast>
"@
		$doc = [Windows.Data.Xml.Dom.XmlDocument]::new()
		$doc.LoadXml($xml)
		$toast = [Windows.UI.Notifications.ToastNotification]::new($doc)
		[Windows.UI.Notifications.ToastNotificationManager]::CreateToastNotifier("tagscraper").Show($toast)
	`, escape(title), escape(message))

	return exec.Command("powershell", "-NoProfile", "-NonInteractive", "-Command", script).Run()
}

// Notifier sends desktop notifications when enabled
type Notifier struct {
	sender  NotificationSender
	enabled bool
}

// NewNotifier creates a Notifier for the current platform
func NewNotifier(enabled bool) *Notifier {
	var sender NotificationSender
	switch runtime.GOOS {
	case "linux":
		sender = &LinuxNotificationSender{}
	case "darwin":
		sender = &MacOSNotificationSender{}
	case "windows":
		sender = &WindowsNotificationSender{}
	}
	return &Notifier{sender: sender, enabled: enabled}
}

// NewNotifierWithSender creates a Notifier using sender
func NewNotifierWithSender(sender NotificationSender, enabled bool) *Notifier {
	return &Notifier{sender: sender, enabled: enabled}
}

// Enabled reports whether notifications will be sent
func (n *Notifier) Enabled() bool {
	return n != nil && n.enabled && n.sender != nil
}

// Send delivers a notification. Failures are returned but callers
// generally ignore them.
func (n *Notifier) Send(title, message string) error {
	if !n.Enabled() {
		return nil
	}
	return n.sender.Send(title, message)
}

// NotifyRunFinished announces the end of a run
func (n *Notifier) NotifyRunFinished(stats RunStats) error {
	title := "tagscraper: run complete"
	if stats.Failed > 0 {
		title = "tagscraper: run finished with failures"
	}
	message := fmt.Sprintf("%d accepted, %d skipped, %d failed of %d tags",
		stats.Accepted, stats.Skipped(), stats.Failed, stats.Total)
	return n.Send(title, message)
}
