package picker

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PixPMusic/gopher-bass/internal/keyboard"
)

var devices = []keyboard.Info{
	{Path: "/dev/input/event3", Name: "Built-in Keyboard", Phys: "isa0060/serio0/input0"},
	{Path: "/dev/input/event9", Name: "USB Keyboard", Phys: "usb-0000:00:14.0-1/input0"},
}

func press(m tea.Model, keys ...tea.KeyMsg) tea.Model {
	for _, k := range keys {
		m, _ = m.Update(k)
	}
	return m
}

func TestSelectWithArrows(t *testing.T) {
	m := press(NewModel(devices),
		tea.KeyMsg{Type: tea.KeyDown},
		tea.KeyMsg{Type: tea.KeyDown},
		tea.KeyMsg{Type: tea.KeyEnter},
	)
	d, ok := m.(Model).Selected()
	require.True(t, ok)
	assert.Equal(t, "/dev/input/event9", d.Path, "cursor stops at the last device")
}

func TestSelectByNumber(t *testing.T) {
	m, cmd := NewModel(devices).Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("1")})
	require.NotNil(t, cmd)
	d, ok := m.(Model).Selected()
	require.True(t, ok)
	assert.Equal(t, "Built-in Keyboard", d.Name)
}

func TestQuitWithoutSelection(t *testing.T) {
	m := press(NewModel(devices), tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	_, ok := m.(Model).Selected()
	assert.False(t, ok)
	assert.Empty(t, m.View())
}

func TestViewListsDevices(t *testing.T) {
	v := NewModel(devices).View()
	assert.Contains(t, v, "Built-in Keyboard")
	assert.Contains(t, v, "/dev/input/event9")
}

func TestRenderList(t *testing.T) {
	out := RenderList(devices)
	assert.Contains(t, out, "#2.")
	assert.Contains(t, out, "usb-0000:00:14.0-1/input0")

	assert.Contains(t, RenderList(nil), "No keyboards found")
}

func TestRenderNames(t *testing.T) {
	out := RenderNames("Layouts:", []string{"stradella", "mine"})
	assert.Contains(t, out, "stradella")
	assert.Contains(t, RenderNames("Ports:", nil), "(none)")
}

func TestSelectNoDevices(t *testing.T) {
	_, err := Select(nil)
	assert.ErrorIs(t, err, keyboard.ErrNoKeyboards)
}
