package console

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const timeLayout = "15:04:05"

// Format renders messages as plain text, one line per message.
func Format(messages []Message) string {
	if len(messages) == 0 {
		return "Console is empty."
	}
	var builder strings.Builder
	for _, msg := range messages {
		builder.WriteString(fmt.Sprintf("[%s] %-6s %s\n", msg.Timestamp.Format(timeLayout), msg.Kind, msg.Text))
	}
	return builder.String()
}

var (
	timeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("243"))
	kindStyles = map[Kind]lipgloss.Style{
		KindOutput: lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true),
		KindError:  lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true),
		KindInfo:   lipgloss.NewStyle().Foreground(lipgloss.Color("75")).Bold(true),
		KindQuery:  lipgloss.NewStyle().Foreground(lipgloss.Color("141")).Bold(true),
	}
	errorText = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
)

// Render draws messages for a terminal, coloured per kind.
func Render(messages []Message) string {
	if len(messages) == 0 {
		return timeStyle.Render("Console is empty.") + "\n"
	}
	var builder strings.Builder
	for _, msg := range messages {
		style, ok := kindStyles[msg.Kind]
		if !ok {
			style = kindStyles[KindOutput]
		}
		text := msg.Text
		if msg.Kind == KindError {
			text = errorText.Render(text)
		}
		builder.WriteString(fmt.Sprintf("%s %s %s\n",
			timeStyle.Render(msg.Timestamp.Format(timeLayout)),
			style.Render(fmt.Sprintf("%-6s", msg.Kind)),
			text,
		))
	}
	return builder.String()
}
