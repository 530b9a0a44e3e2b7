package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/gitscribe/pkg/models"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205"))

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(1, 2)

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	counterStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39"))
)

func (m Model) View() string {
	switch m.mode {
	case modeEditingMessage:
		return m.editorView("Edit message (esc saves)")
	case modeEditingInstructions:
		return m.editorView("Edit instructions (esc saves and regenerates)")
	case modeEditingUserInfo:
		return m.userInfoView()
	case modeSelectingEmoji:
		return m.emojiList.View()
	case modeSelectingPreset:
		return m.presetList.View()
	default:
		return m.reviewView()
	}
}

func (m Model) reviewView() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("gitscribe"))
	b.WriteString("  ")
	b.WriteString(counterStyle.Render(fmt.Sprintf("message %d/%d", m.index+1, len(m.messages))))
	b.WriteString("  ")
	b.WriteString(helpStyle.Render("provider: " + m.backend.Provider()))
	b.WriteString("\n\n")

	b.WriteString(panelStyle.Render(renderMessage(m.current())))
	b.WriteString("\n")

	if m.generating {
		b.WriteString(statusStyle.Render(m.spinner.View() + " generating..."))
		b.WriteString("\n")
	} else if m.committing {
		b.WriteString(statusStyle.Render("committing..."))
		b.WriteString("\n")
	} else if m.status != "" {
		b.WriteString(errorStyle.Render(m.status))
		b.WriteString("\n")
	}

	if m.mode == modeGenerating {
		b.WriteString(helpStyle.Render("esc cancel"))
	} else {
		b.WriteString(helpStyle.Render(
			"enter commit • ←/→ navigate • r regenerate • e edit • i instructions • g emoji • p preset • u author • q quit"))
	}
	b.WriteString("\n")
	return b.String()
}

func renderMessage(msg models.GeneratedMessage) string {
	title := msg.Title
	if msg.Emoji != "" {
		title = msg.Emoji + " " + title
	}
	if strings.TrimSpace(msg.Message) == "" {
		return title
	}
	return title + "\n\n" + msg.Message
}

func (m Model) editorView(heading string) string {
	return titleStyle.Render(heading) + "\n\n" + m.editor.View() + "\n"
}

func (m Model) userInfoView() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Edit author (tab switches, esc saves and regenerates)"))
	b.WriteString("\n\n")
	b.WriteString("Name:  " + m.nameInput.View() + "\n")
	b.WriteString("Email: " + m.emailInput.View() + "\n")
	return b.String()
}
