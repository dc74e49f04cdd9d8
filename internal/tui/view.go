package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"claude-yolo/internal/model"
)

var (
	WarnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("3")) // Yellow
	DangerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("1")) // Red
	InfoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("6")) // Cyan
	OKStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("2")) // Green
	BoldStyle    = lipgloss.NewStyle().Bold(true)
	HeadingStyle = WarnStyle.Bold(true)
	AlarmStyle   = DangerStyle.Bold(true)

	ruleStyle = InfoStyle
)

func (m PromptModel) View() string {
	if m.Done {
		// Leave the answered question on screen.
		return WarnStyle.Render(m.Question) + m.Answer + "\n"
	}
	return WarnStyle.Render(m.Question) + m.Input.View()
}

// ConsentQuestion is asked after the banner.
const ConsentQuestion = "Do you consent to using claude-yolo with these modifications? (yes/no): "

// WriteConsentBanner prints what YOLO mode changes and the risks involved.
func WriteConsentBanner(w io.Writer) {
	rule := ruleStyle.Render(strings.Repeat("-", 40))
	b := &strings.Builder{}

	fmt.Fprintf(b, "\n%s\n\n", HeadingStyle.Render(model.IconFire+" CLAUDE-YOLO CONSENT REQUIRED "+model.IconFire))
	fmt.Fprintln(b, rule)
	fmt.Fprintln(b, BoldStyle.Render("What is claude-yolo?"))
	fmt.Fprintln(b, "This package creates a wrapper around the official Claude CLI tool that:")
	fmt.Fprintf(b, "  1. %s by automatically adding the --dangerously-skip-permissions flag\n", DangerStyle.Render("BYPASSES safety checks"))
	fmt.Fprintln(b, "  2. Automatically updates to the latest Claude CLI version")
	fmt.Fprintln(b, "  3. Adds colorful YOLO-themed loading messages")
	fmt.Fprintf(b, "  4. %s with --safe flag\n\n", OKStyle.Render("NOW SUPPORTS SAFE MODE"))

	fmt.Fprintln(b, AlarmStyle.Render(model.IconWarning+"IMPORTANT SECURITY WARNING "+model.IconWarning))
	fmt.Fprintf(b, "The %s flag was designed for use in containers\n", BoldStyle.Render("--dangerously-skip-permissions"))
	fmt.Fprintln(b, "and bypasses important safety checks. This includes ignoring file access")
	fmt.Fprintf(b, "permissions that protect your system and privacy.\n\n")

	fmt.Fprintln(b, BoldStyle.Render("By using claude-yolo in YOLO mode:"))
	fmt.Fprintf(b, "  %s You acknowledge these safety checks are being bypassed\n", model.IconBullet)
	fmt.Fprintf(b, "  %s You understand this may allow Claude CLI to access sensitive files\n", model.IconBullet)
	fmt.Fprintf(b, "  %s You accept full responsibility for any security implications\n\n", model.IconBullet)
	fmt.Fprintf(b, "%s\n\n", rule)

	io.WriteString(w, b.String())
}
