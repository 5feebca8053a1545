package config

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

const appName = "gopher-bass"

// settingsNames are tried in order when no settings path is given
var settingsNames = []string{"config.toml", "config.yml", "config.yaml"}

// Arguments holds defaults for command line flags
type Arguments struct {
	Device       string `toml:"device" yaml:"device"`
	DeviceByName string `toml:"device_by_name" yaml:"device_by_name"`
	Layout       string `toml:"layout" yaml:"layout"`
	LayoutFile   string `toml:"layout_file" yaml:"layout_file"`
	Debug        bool   `toml:"debug" yaml:"debug"`
	Output       string `toml:"output" yaml:"output"`
	PortName     string `toml:"port_name" yaml:"port_name"`
	SerialDevice string `toml:"serial_device" yaml:"serial_device"`
	SerialBaud   int    `toml:"serial_baud" yaml:"serial_baud"`
	Watch        bool   `toml:"watch" yaml:"watch"`
	LogFormat    string `toml:"log_format" yaml:"log_format"`
}

// Settings is the application settings file
type Settings struct {
	Arguments Arguments `toml:"arguments" yaml:"arguments"`

	// Path is where the settings were read from, empty when no file exists
	Path string `toml:"-" yaml:"-"`
}

// configDir returns the application config directory
func configDir() (string, error) {
	configHome, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configHome, appName), nil
}

// Dir returns the application config directory
func Dir() (string, error) {
	return configDir()
}

// LayoutDir returns the directory searched for user layouts
func LayoutDir() (string, error) {
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "layouts"), nil
}

// SettingsPath returns the first settings file that exists, or the default
// config.toml path when there is none
func SettingsPath() (string, error) {
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	for _, name := range settingsNames {
		p := filepath.Join(dir, name)
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}
	return filepath.Join(dir, settingsNames[0]), nil
}

// Load reads the settings from path, or from SettingsPath when path is
// empty. A missing file yields empty settings.
func Load(path string) (*Settings, error) {
	if path == "" {
		p, err := SettingsPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return &Settings{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}

	var s Settings
	if err := decode(path, data, &s); err != nil {
		return nil, fmt.Errorf("parse settings %s: %w", path, err)
	}
	s.Path = path
	return &s, nil
}

func decode(path string, data []byte, s *Settings) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yml", ".yaml":
		return yaml.Unmarshal(data, s)
	case ".toml", "":
		_, err := toml.Decode(string(data), s)
		return err
	default:
		return fmt.Errorf("unsupported settings format %q", filepath.Ext(path))
	}
}

// flagValues maps flag names to the non-zero settings values
func (a Arguments) flagValues() map[string]string {
	m := make(map[string]string)
	put := func(name, v string) {
		if v != "" {
			m[name] = v
		}
	}
	put("device", a.Device)
	put("device-by-name", a.DeviceByName)
	put("layout", a.Layout)
	put("layout-file", a.LayoutFile)
	put("output", a.Output)
	put("port-name", a.PortName)
	put("serial-device", a.SerialDevice)
	put("log-format", a.LogFormat)
	if a.SerialBaud > 0 {
		m["serial-baud"] = strconv.Itoa(a.SerialBaud)
	}
	// booleans can only be switched on from the file
	if a.Debug {
		m["debug"] = "true"
	}
	if a.Watch {
		m["watch"] = "true"
	}
	return m
}

// Merge applies the settings to every flag in fs that was not given on the
// command line and returns the names of the flags it set, sorted. aliases
// maps a short flag name to its long name, so that giving -d counts as
// giving --device.
func (a Arguments) Merge(fs *flag.FlagSet, aliases map[string]string) ([]string, error) {
	given := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) {
		given[f.Name] = true
		if long, ok := aliases[f.Name]; ok {
			given[long] = true
		}
	})

	var applied []string
	for name, v := range a.flagValues() {
		if given[name] || fs.Lookup(name) == nil {
			continue
		}
		if err := fs.Set(name, v); err != nil {
			return nil, fmt.Errorf("settings %s: %w", name, err)
		}
		applied = append(applied, name)
	}
	sort.Strings(applied)
	return applied, nil
}
