package startup

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecLine(t *testing.T) {
	assert.Equal(t, "/usr/bin/gopher-bass --layout stradella",
		execLine("/usr/bin/gopher-bass", []string{"--layout", "stradella"}))
	assert.Equal(t, `/opt/gb --device-by-name "USB Keyboard" ""`,
		execLine("/opt/gb", []string{"--device-by-name", "USB Keyboard", ""}))
	assert.Equal(t, `/opt/gb "a\"b\$c"`, execLine("/opt/gb", []string{`a"b$c`}))
}

func TestDesktopPathUsesXDG(t *testing.T) {
	home := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", home)
	assert.Equal(t, filepath.Join(home, "autostart", desktopName), DesktopPath())
}

func TestEnableDisable(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("autostart entries are Linux only")
	}
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	assert.False(t, IsEnabled())
	require.NoError(t, Enable([]string{"--layout", "stradella"}))
	assert.True(t, IsEnabled())

	data, err := os.ReadFile(DesktopPath())
	require.NoError(t, err)
	assert.Contains(t, string(data), "--layout stradella")
	assert.Contains(t, string(data), "Name=Gopher Bass")

	require.NoError(t, Disable())
	assert.False(t, IsEnabled())
	assert.NoError(t, Disable(), "disabling twice is fine")
}
