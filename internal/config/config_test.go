package config

import (
	"flag"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingReturnsEmpty(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	s, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Arguments{}, s.Arguments)
	assert.Empty(t, s.Path)
}

func TestLoadTOML(t *testing.T) {
	home := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", home)
	dir := filepath.Join(home, appName)
	require.NoError(t, os.MkdirAll(dir, 0o755))

	data := `
[arguments]
device_by_name = "Logitech"
layout = "stradella"
debug = true
serial_baud = 38400
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(data), 0o644))

	s, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "Logitech", s.Arguments.DeviceByName)
	assert.Equal(t, "stradella", s.Arguments.Layout)
	assert.True(t, s.Arguments.Debug)
	assert.Equal(t, 38400, s.Arguments.SerialBaud)
	assert.Equal(t, filepath.Join(dir, "config.toml"), s.Path)
}

func TestLoadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	data := "arguments:\n  device: /dev/input/event4\n  watch: true\n  output: dump\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	s, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/dev/input/event4", s.Arguments.Device)
	assert.True(t, s.Arguments.Watch)
	assert.Equal(t, "dump", s.Arguments.Output)
}

func TestLoadRejectsBadFiles(t *testing.T) {
	dir := t.TempDir()

	bad := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(bad, []byte("[arguments\n"), 0o644))
	_, err := Load(bad)
	assert.Error(t, err)

	json := filepath.Join(dir, "config.json")
	require.NoError(t, os.WriteFile(json, []byte("{}"), 0o644))
	_, err = Load(json)
	assert.Error(t, err)
}

func TestSettingsPathPrefersExisting(t *testing.T) {
	home := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", home)
	dir := filepath.Join(home, appName)

	p, err := SettingsPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "config.toml"), p)

	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), nil, 0o644))
	p, err = SettingsPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "config.yaml"), p)

	ld, err := LayoutDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "layouts"), ld)
}

type testFlags struct {
	fs     *flag.FlagSet
	device *string
	layout *string
	debug  *bool
	watch  *bool
	baud   *int
}

func newTestFlags() testFlags {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	f := testFlags{fs: fs}
	f.device = fs.String("device", "", "")
	fs.StringVar(f.device, "d", "", "")
	f.layout = fs.String("layout", "stradella", "")
	f.debug = fs.Bool("debug", false, "")
	f.watch = fs.Bool("watch", false, "")
	f.baud = fs.Int("serial-baud", 31250, "")
	return f
}

func TestMergeFillsUnsetFlags(t *testing.T) {
	f := newTestFlags()
	require.NoError(t, f.fs.Parse([]string{"--layout", "mine"}))

	args := Arguments{Device: "/dev/input/event2", Layout: "other", Debug: true, SerialBaud: 38400}
	applied, err := args.Merge(f.fs, map[string]string{"d": "device"})
	require.NoError(t, err)
	assert.Equal(t, []string{"debug", "device", "serial-baud"}, applied)

	assert.Equal(t, "/dev/input/event2", *f.device)
	assert.Equal(t, "mine", *f.layout, "command line wins")
	assert.True(t, *f.debug)
	assert.False(t, *f.watch)
	assert.Equal(t, 38400, *f.baud)
}

func TestMergeRespectsAliases(t *testing.T) {
	f := newTestFlags()
	require.NoError(t, f.fs.Parse([]string{"-d", "/dev/input/event9", "--debug=false"}))

	args := Arguments{Device: "/dev/input/event2", Debug: true}
	applied, err := args.Merge(f.fs, map[string]string{"d": "device"})
	require.NoError(t, err)
	assert.Empty(t, applied)

	assert.Equal(t, "/dev/input/event9", *f.device)
	assert.False(t, *f.debug, "explicit --debug=false is kept")
}

func TestMergeIgnoresUnknownFlags(t *testing.T) {
	f := newTestFlags()
	require.NoError(t, f.fs.Parse(nil))

	args := Arguments{PortName: "Synth"}
	applied, err := args.Merge(f.fs, nil)
	assert.NoError(t, err)
	assert.Empty(t, applied)
}
