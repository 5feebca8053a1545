package layout

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// FileSuffix is the suffix of layout files; the prefix is the layout name
const FileSuffix = "_layout.yml"

// DefaultName is the layout used when none is requested
const DefaultName = "stradella"

//go:embed builtin/*_layout.yml
var builtinFS embed.FS

// Parse decodes and validates layout YAML. source names the data in errors
// and in Table.Source.
func Parse(data []byte, source string, logger *slog.Logger) (*Table, error) {
	var generic any
	if err := yaml.Unmarshal(data, &generic); err != nil {
		return nil, fmt.Errorf("%s: %w: %v", source, ErrInvalidLayout, err)
	}
	if generic == nil {
		return nil, fmt.Errorf("%s: %w", source, ErrMissingBassMapping)
	}
	if err := validateShape(generic); err != nil {
		return nil, fmt.Errorf("%s: %w", source, err)
	}

	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%s: %w: %v", source, ErrInvalidLayout, err)
	}

	t, err := Build(&doc, logger)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", source, err)
	}
	t.Source = source
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("layout loaded", "source", source, "name", t.Info.Name,
		"keyboard_layout", t.Info.KeyboardLayout, "keys", t.Len())
	return t, nil
}

// Load reads and parses a layout file
func Load(path string, logger *slog.Logger) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrLayoutNotFound, path)
		}
		return nil, fmt.Errorf("read layout: %w", err)
	}
	return Parse(data, path, logger)
}

// LoadNamed loads a layout by name. A file in dir wins over a builtin
// layout of the same name. dir may be empty.
func LoadNamed(name, dir string, logger *slog.Logger) (*Table, error) {
	if name == "" {
		name = DefaultName
	}
	if dir != "" {
		path := filepath.Join(dir, name+FileSuffix)
		if _, err := os.Stat(path); err == nil {
			return Load(path, logger)
		}
	}

	data, err := builtinFS.ReadFile("builtin/" + name + FileSuffix)
	if err != nil {
		avail, _ := Available(dir)
		return nil, fmt.Errorf("%w: %q (available: %s)", ErrLayoutNotFound, name, strings.Join(avail, ", "))
	}
	return Parse(data, "builtin:"+name, logger)
}

// Builtin returns the names of the layouts compiled into the binary
func Builtin() []string {
	entries, err := builtinFS.ReadDir("builtin")
	if err != nil {
		return nil
	}
	var names []string
	for _, e := range entries {
		if n, ok := strings.CutSuffix(e.Name(), FileSuffix); ok {
			names = append(names, n)
		}
	}
	sort.Strings(names)
	return names
}

// Available returns builtin and user layout names, sorted and deduplicated.
// A missing dir is not an error.
func Available(dir string) ([]string, error) {
	seen := make(map[string]bool)
	for _, n := range Builtin() {
		seen[n] = true
	}

	if dir != "" {
		matches, err := filepath.Glob(filepath.Join(dir, "*"+FileSuffix))
		if err != nil {
			return nil, fmt.Errorf("list layouts: %w", err)
		}
		for _, m := range matches {
			seen[strings.TrimSuffix(filepath.Base(m), FileSuffix)] = true
		}
	}

	names := make([]string, 0, len(seen))
	for n := range seen {
		names = append(names, n)
	}
	sort.Strings(names)
	return names, nil
}
