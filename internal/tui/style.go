package tui

import "github.com/charmbracelet/lipgloss"

const (
	axisFGColor      = "#8a8a8a"
	cardFGColor      = "#e0e0e0"
	cardBGColor      = "#3a3a3a"
	dragBGColor      = "#5f5f87"
	nowFGColor       = "#f5c542"
	weekendBGColor   = "#262626"
	majorTickFGColor = "#ffffff"
)

type cellKind int

const (
	kindPlain cellKind = iota
	kindAxis
	kindMajor
	kindWeekend
	kindCard
	kindNote
	kindDrag
	kindNow
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true)
	footerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	noticeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))

	cellStyles = map[cellKind]lipgloss.Style{
		kindPlain:   lipgloss.NewStyle(),
		kindAxis:    lipgloss.NewStyle().Foreground(lipgloss.Color(axisFGColor)),
		kindMajor:   lipgloss.NewStyle().Foreground(lipgloss.Color(majorTickFGColor)).Bold(true),
		kindWeekend: lipgloss.NewStyle().Background(lipgloss.Color(weekendBGColor)),
		kindCard:    lipgloss.NewStyle().Foreground(lipgloss.Color(cardFGColor)).Background(lipgloss.Color(cardBGColor)),
		kindNote:    lipgloss.NewStyle().Foreground(lipgloss.Color(axisFGColor)).Background(lipgloss.Color(cardBGColor)),
		kindDrag:    lipgloss.NewStyle().Foreground(lipgloss.Color(cardFGColor)).Background(lipgloss.Color(dragBGColor)),
		kindNow:     lipgloss.NewStyle().Foreground(lipgloss.Color(nowFGColor)),
	}
)
