package startup

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

const desktopName = "gopher-bass.desktop"

// Enable registers the program to start at login with the given arguments
func Enable(args []string) error {
	if runtime.GOOS != "linux" {
		return fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}
	execPath, err := os.Executable()
	if err != nil {
		return err
	}
	return writeDesktopEntry(DesktopPath(), execPath, args)
}

// Disable removes the autostart entry
func Disable() error {
	if runtime.GOOS != "linux" {
		return fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}
	err := os.Remove(DesktopPath())
	if errors.Is(err, fs.ErrNotExist) {
		return nil // Already disabled
	}
	return err
}

// IsEnabled checks if the autostart entry exists
func IsEnabled() bool {
	if runtime.GOOS != "linux" {
		return false
	}
	_, err := os.Stat(DesktopPath())
	return err == nil
}

// DesktopPath returns the XDG autostart entry location
func DesktopPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, _ := os.UserHomeDir()
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "autostart", desktopName)
}

func writeDesktopEntry(path, execPath string, args []string) error {
	desktopContent := fmt.Sprintf(`[Desktop Entry]
Type=Application
Name=Gopher Bass
Comment=Accordion bass and chord buttons on a computer keyboard
Exec=%s
Terminal=false
Hidden=false
NoDisplay=false
X-GNOME-Autostart-enabled=true
`, execLine(execPath, args))

	// Ensure autostart directory exists
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(desktopContent), 0644)
}

// execLine quotes arguments the way desktop entries expect
func execLine(execPath string, args []string) string {
	parts := make([]string, 0, len(args)+1)
	for _, a := range append([]string{execPath}, args...) {
		if a == "" || strings.ContainsAny(a, " \t\n\"'\\$`") {
			r := strings.NewReplacer(`\`, `\\`, `"`, `\"`, "$", `\$`, "`", "\\`")
			a = `"` + r.Replace(a) + `"`
		}
		parts = append(parts, a)
	}
	return strings.Join(parts, " ")
}
