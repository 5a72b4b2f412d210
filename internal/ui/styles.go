package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/nibzard/tasklist-go/internal/session"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	subtitleStyle = lipgloss.NewStyle().Faint(true)
	labelStyle    = lipgloss.NewStyle().Padding(0, 1).Background(lipgloss.Color("63")).Foreground(lipgloss.Color("230"))
	cursorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true)
	doneStyle     = lipgloss.NewStyle().Strikethrough(true).Faint(true)
	dateStyle     = lipgloss.NewStyle().Faint(true)
	footerStyle   = lipgloss.NewStyle().Faint(true).MarginTop(1)
	emptyStyle    = lipgloss.NewStyle().Bold(true).MarginTop(1)
	spinnerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	noticeBase = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			Padding(0, 1).
			MarginTop(1)
)

var noticeColors = map[session.Kind]lipgloss.Color{
	session.KindInfo:    lipgloss.Color("39"),
	session.KindSuccess: lipgloss.Color("42"),
	session.KindWarning: lipgloss.Color("214"),
	session.KindError:   lipgloss.Color("196"),
}

var noticeIcons = map[session.Kind]string{
	session.KindInfo:    "i",
	session.KindSuccess: "✓",
	session.KindWarning: "!",
	session.KindError:   "✗",
}

func noticeStyle(kind session.Kind) lipgloss.Style {
	color, ok := noticeColors[kind]
	if !ok {
		color = noticeColors[session.KindInfo]
	}
	return noticeBase.BorderForeground(color)
}
