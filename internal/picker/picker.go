// Package picker shows the detected keyboards and lets the user choose one
package picker

import (
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/PixPMusic/gopher-bass/internal/keyboard"
)

var ErrCancelled = errors.New("no keyboard selected")

// Model is the bubbletea model of the keyboard selector
type Model struct {
	devices  []keyboard.Info
	cursor   int
	chosen   int
	quitting bool
}

func NewModel(devices []keyboard.Info) Model {
	return Model{devices: devices, chosen: -1}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "q", "esc", "ctrl+c":
		m.quitting = true
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.devices)-1 {
			m.cursor++
		}
	case "enter", " ":
		if len(m.devices) > 0 {
			m.chosen = m.cursor
		}
		m.quitting = true
		return m, tea.Quit
	case "1", "2", "3", "4", "5", "6", "7", "8", "9":
		i := int(key.String()[0] - '1')
		if i < len(m.devices) {
			m.chosen = i
			m.cursor = i
			m.quitting = true
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if len(m.devices) == 0 {
		return emptyStyle.Render("No keyboards found!") + "\n"
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Select a keyboard"))
	b.WriteString("\n\n")
	for i, d := range m.devices {
		cursor := "  "
		name := nameStyle.Render(d.Name)
		if i == m.cursor {
			cursor = cursorStyle.Render("▶ ")
			name = cursorStyle.Render(d.Name)
		}
		fmt.Fprintf(&b, "%s%d. %s %s\n", cursor, i+1, name, detailStyle.Render(d.Path))
	}
	b.WriteString(helpStyle.Render("↑/↓ move • enter select • q quit"))
	b.WriteString("\n")
	return b.String()
}

// Selected returns the chosen device, if any
func (m Model) Selected() (keyboard.Info, bool) {
	if m.chosen < 0 || m.chosen >= len(m.devices) {
		return keyboard.Info{}, false
	}
	return m.devices[m.chosen], true
}

// Select runs the selector on the terminal and returns the chosen device
func Select(devices []keyboard.Info, opts ...tea.ProgramOption) (keyboard.Info, error) {
	if len(devices) == 0 {
		return keyboard.Info{}, keyboard.ErrNoKeyboards
	}
	final, err := tea.NewProgram(NewModel(devices), opts...).Run()
	if err != nil {
		return keyboard.Info{}, fmt.Errorf("keyboard selector: %w", err)
	}
	if d, ok := final.(Model).Selected(); ok {
		return d, nil
	}
	return keyboard.Info{}, ErrCancelled
}

// RenderList formats the detected keyboards for --list
func RenderList(devices []keyboard.Info) string {
	if len(devices) == 0 {
		return emptyStyle.Render("No keyboards found!") + "\n"
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Available keyboards:"))
	b.WriteString("\n")
	b.WriteString(separatorLine)
	b.WriteString("\n")
	for i, d := range devices {
		fmt.Fprintf(&b, "\n#%d. %s\n", i+1, nameStyle.Render(d.Name))
		fmt.Fprintf(&b, "   Device:   %s\n", detailStyle.Render(d.Path))
		fmt.Fprintf(&b, "   Physical: %s\n", detailStyle.Render(d.Phys))
		fmt.Fprintf(&b, "   Status:   %s\n", readyStyle.Render("ready"))
	}
	return b.String()
}

// RenderNames formats a titled list of plain names, such as layouts or ports
func RenderNames(title string, names []string) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n")
	if len(names) == 0 {
		b.WriteString(detailStyle.Render("  (none)"))
		b.WriteString("\n")
	}
	for _, n := range names {
		fmt.Fprintf(&b, "  %s\n", nameStyle.Render(n))
	}
	return b.String()
}
