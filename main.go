package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/PixPMusic/gopher-bass/internal/config"
	"github.com/PixPMusic/gopher-bass/internal/engine"
	"github.com/PixPMusic/gopher-bass/internal/keyboard"
	"github.com/PixPMusic/gopher-bass/internal/layout"
	"github.com/PixPMusic/gopher-bass/internal/logging"
	"github.com/PixPMusic/gopher-bass/internal/midi"
	"github.com/PixPMusic/gopher-bass/internal/picker"
	"github.com/PixPMusic/gopher-bass/internal/startup"
)

type options struct {
	device       string
	deviceByName string
	list         bool
	listPorts    bool
	layout       string
	layoutFile   string
	debug        bool
	output       string
	portName     string
	serialDevice string
	serialBaud   int
	watch        bool
	configPath   string
	autostart    string
	logFormat    string
	logFile      string
}

// flagAliases maps short flags to the long flag they stand for
var flagAliases = map[string]string{"d": "device", "l": "list"}

func registerFlags(fs *flag.FlagSet) *options {
	o := &options{}
	fs.StringVar(&o.device, "device", "", "input device path, e.g. /dev/input/event3")
	fs.StringVar(&o.device, "d", "", "shorthand for --device")
	fs.StringVar(&o.deviceByName, "device-by-name", "", "pick the first keyboard whose name contains this text")
	fs.BoolVar(&o.list, "list", false, "list keyboards and layouts, then exit")
	fs.BoolVar(&o.list, "l", false, "shorthand for --list")
	fs.BoolVar(&o.listPorts, "list-ports", false, "list MIDI output ports and serial ports, then exit")
	fs.StringVar(&o.layout, "layout", layout.DefaultName, "layout name (builtin or from the layouts directory)")
	fs.StringVar(&o.layoutFile, "layout-file", "", "layout file path, overrides --layout")
	fs.BoolVar(&o.debug, "debug", false, "log every key event (adds source location)")
	fs.StringVar(&o.output, "output", string(midi.OutputVirtual), "MIDI output: virtual, port, serial or dump")
	fs.StringVar(&o.portName, "port-name", "", "virtual port name, or the system port to connect to")
	fs.StringVar(&o.serialDevice, "serial-device", "", "serial device for --output serial")
	fs.IntVar(&o.serialBaud, "serial-baud", midi.DefaultSerialBaud, "serial baud rate")
	fs.BoolVar(&o.watch, "watch", false, "reload the layout file when it changes")
	fs.StringVar(&o.configPath, "config", "", "settings file (default: config.toml in the user config directory)")
	fs.StringVar(&o.autostart, "autostart", "", "start at login: enable, disable or status")
	fs.StringVar(&o.logFormat, "log-format", "text", "log format: text or json")
	fs.StringVar(&o.logFile, "log-file", "", "write logs to this file instead of stderr")
	return o
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "gopher-bass: %v\n", err)
		if errors.Is(err, errStartup) {
			fmt.Fprintln(os.Stderr, "Try running with --debug -d <device path> for more detail.")
		}
		os.Exit(1)
	}
}

var errStartup = errors.New("failed to start")

func run(args []string) error {
	fs := flag.NewFlagSet("gopher-bass", flag.ContinueOnError)
	opts := registerFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	cliArgs := givenFlags(fs, "autostart", "config")

	settings, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}
	fromSettings, err := settings.Arguments.Merge(fs, flagAliases)
	if err != nil {
		return err
	}

	logger, closeLog, err := newLogger(opts)
	if err != nil {
		return err
	}
	defer closeLog()
	slog.SetDefault(logger)
	if settings.Path != "" {
		logger.Debug("settings loaded", "path", settings.Path)
	}
	for _, name := range fromSettings {
		logger.Info("using setting from settings file", "flag", name, "value", fs.Lookup(name).Value.String(), "path", settings.Path)
	}

	switch {
	case opts.autostart != "":
		return autostart(opts.autostart, cliArgs)
	case opts.list:
		return listKeyboards()
	case opts.listPorts:
		return listPorts(logger)
	}

	table, watchPath, err := loadLayout(opts, logger)
	if err != nil {
		return err
	}

	devPath, err := selectDevice(opts, logger)
	if err != nil {
		return fmt.Errorf("%w: %w", errStartup, err)
	}
	kbd, err := keyboard.Open(devPath, logger)
	if err != nil {
		return fmt.Errorf("%w: %w", errStartup, err)
	}
	defer kbd.Close()

	kind, err := midi.ParseOutputKind(opts.output)
	if err != nil {
		return err
	}
	mgr := midi.NewManager(logger)
	defer mgr.Close()
	out, err := mgr.Open(midi.OutputOptions{
		Kind:         kind,
		PortName:     opts.portName,
		SerialDevice: opts.serialDevice,
		SerialBaud:   opts.serialBaud,
	})
	if err != nil {
		return fmt.Errorf("%w: %w", errStartup, err)
	}

	eng := engine.New(table, out, kbd, logger)
	// runs before kbd.Close so the grab is released on a live device
	defer func() {
		if err := eng.Shutdown(); err != nil {
			logger.Error("cleanup incomplete", "error", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var reloads <-chan *layout.Table
	if opts.watch {
		if watchPath == "" {
			logger.Warn("--watch needs a layout file on disk; builtin layouts are not watched")
		} else {
			w, err := layout.NewWatcher(watchPath, logger)
			if err != nil {
				return err
			}
			defer w.Close()
			go w.Run(ctx)
			reloads = w.Updates()
		}
	}

	logger.Info("accordion bass running, press Ctrl+C to exit",
		"keyboard", kbd.Info().Name,
		"output", out.Name(),
		"grab_key", table.GrabKey,
	)
	if err := eng.Run(ctx, kbd.Events(ctx), reloads); err != nil {
		return err
	}
	if ctx.Err() == nil {
		return errors.New("keyboard input ended")
	}
	logger.Info("stopping")
	return nil
}

func newLogger(opts *options) (*slog.Logger, func() error, error) {
	format, err := logging.ParseFormat(opts.logFormat)
	if err != nil {
		return nil, nil, err
	}
	cfg := logging.Config{Level: slog.LevelInfo, Format: format}
	if opts.debug {
		cfg = logging.Debug(format)
	}
	cfg.FilePath = opts.logFile
	return logging.New(cfg)
}

// loadLayout returns the table and, for layouts read from disk, the path
// to watch for changes
func loadLayout(opts *options, logger *slog.Logger) (*layout.Table, string, error) {
	if opts.layoutFile != "" {
		t, err := layout.Load(opts.layoutFile, logger)
		return t, opts.layoutFile, err
	}

	dir, err := config.LayoutDir()
	if err != nil {
		logger.Warn("no user layout directory", "error", err)
		dir = ""
	}
	t, err := layout.LoadNamed(opts.layout, dir, logger)
	if err != nil {
		return nil, "", err
	}
	if strings.HasPrefix(t.Source, "builtin:") {
		return t, "", nil
	}
	return t, t.Source, nil
}

func selectDevice(opts *options, logger *slog.Logger) (string, error) {
	if opts.device != "" {
		return opts.device, nil
	}

	devices, err := keyboard.List()
	if err != nil {
		return "", err
	}
	if len(devices) == 0 {
		return "", keyboard.ErrNoKeyboards
	}

	if opts.deviceByName != "" {
		d, err := keyboard.FindByName(devices, opts.deviceByName)
		if err == nil {
			logger.Info("found matching device", "name", d.Name, "path", d.Path, "query", opts.deviceByName)
			return d.Path, nil
		}
		logger.Warn("no device found matching, choose one instead", "query", opts.deviceByName)
	}

	d, err := picker.Select(devices)
	if err != nil {
		return "", err
	}
	return d.Path, nil
}

func listKeyboards() error {
	devices, err := keyboard.List()
	if err != nil {
		return err
	}
	fmt.Print(picker.RenderList(devices))

	dir, _ := config.LayoutDir()
	names, err := layout.Available(dir)
	if err != nil {
		return err
	}
	fmt.Println()
	fmt.Print(picker.RenderNames("Layouts:", names))
	return nil
}

func listPorts(logger *slog.Logger) error {
	mgr := midi.NewManager(logger)
	defer mgr.Close()
	fmt.Print(picker.RenderNames("MIDI output ports:", mgr.ListOutPorts()))

	serialPorts, err := midi.ListSerialPorts()
	if err != nil {
		logger.Warn("cannot list serial ports", "error", err)
	}
	fmt.Print(picker.RenderNames("Serial ports:", serialPorts))
	return nil
}

func autostart(action string, args []string) error {
	switch action {
	case "enable":
		if err := startup.Enable(args); err != nil {
			return fmt.Errorf("enable autostart: %w", err)
		}
		fmt.Println("autostart enabled:", startup.DesktopPath())
	case "disable":
		if err := startup.Disable(); err != nil {
			return fmt.Errorf("disable autostart: %w", err)
		}
		fmt.Println("autostart disabled")
	case "status":
		if startup.IsEnabled() {
			fmt.Println("autostart is enabled:", startup.DesktopPath())
		} else {
			fmt.Println("autostart is disabled")
		}
	default:
		return fmt.Errorf("unknown --autostart action %q (want enable, disable or status)", action)
	}
	return nil
}

// givenFlags renders the flags set on the command line, minus skip, so they
// can be replayed later
func givenFlags(fs *flag.FlagSet, skip ...string) []string {
	var out []string
	fs.Visit(func(f *flag.Flag) {
		for _, s := range skip {
			if f.Name == s {
				return
			}
		}
		out = append(out, fmt.Sprintf("--%s=%s", f.Name, f.Value.String()))
	})
	return out
}
