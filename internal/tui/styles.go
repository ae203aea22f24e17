package tui

import "github.com/charmbracelet/lipgloss"

var (
	colorCyan   = lipgloss.Color("36")
	colorGreen  = lipgloss.Color("35")
	colorYellow = lipgloss.Color("220")
	colorRed    = lipgloss.Color("167")
	colorWhite  = lipgloss.Color("255")
	colorGray   = lipgloss.Color("245")
	colorDim    = lipgloss.Color("240")
)

// kind selects the style of one canvas cell.
type kind uint8

const (
	kindBlank kind = iota
	kindEdge
	kindEdgeHover
	kindPending
	kindBox
	kindBoxHover
	kindLabel
	kindInput
	kindOutput
	kindPortHover
)

var styles = [...]lipgloss.Style{
	kindBlank:     lipgloss.NewStyle(),
	kindEdge:      lipgloss.NewStyle().Foreground(colorGray),
	kindEdgeHover: lipgloss.NewStyle().Foreground(colorYellow).Bold(true),
	kindPending:   lipgloss.NewStyle().Foreground(colorCyan),
	kindBox:       lipgloss.NewStyle().Foreground(colorDim),
	kindBoxHover:  lipgloss.NewStyle().Foreground(colorCyan),
	kindLabel:     lipgloss.NewStyle().Foreground(colorWhite).Bold(true),
	kindInput:     lipgloss.NewStyle().Foreground(colorGreen),
	kindOutput:    lipgloss.NewStyle().Foreground(colorGreen),
	kindPortHover: lipgloss.NewStyle().Foreground(colorYellow).Bold(true),
}

var (
	styleStatus = lipgloss.NewStyle().Foreground(colorGray)
	styleState  = lipgloss.NewStyle().Foreground(colorCyan).Bold(true)
	styleError  = lipgloss.NewStyle().Foreground(colorRed)
	styleHelp   = lipgloss.NewStyle().Foreground(colorDim)
)

const (
	glyphInput  = '●'
	glyphOutput = '○'
	glyphEdge   = '·'
	glyphDelete = '×'
)
