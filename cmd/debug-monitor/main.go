// Command debug-monitor is the host side of the debug console.
//
// It opens the device's serial port, asserts DTR so that a device blocked
// in Begin sees the host as ready, and relays the console output to the
// terminal. Lines typed at the prompt are sent back to the device.
package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"

	"github.com/bbtinkerer/ESP8266CayenneHumidityMonitor/internal/monitor"
	"github.com/bbtinkerer/ESP8266CayenneHumidityMonitor/pkg/capture"
	"github.com/bbtinkerer/ESP8266CayenneHumidityMonitor/pkg/config"
	"github.com/bbtinkerer/ESP8266CayenneHumidityMonitor/pkg/console"
)

// readTimeout bounds each serial read so cancellation is noticed.
const readTimeout = 100 * time.Millisecond

// Config holds all command-line options.
type Config struct {
	ConfigFile string
	Baud       int
	LineEnding string
	Capture    string
	List       bool
	Verbose    bool
}

var cfg Config

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cfg = Config{}
	rootCmd := &cobra.Command{
		Use:   "debug-monitor [port]",
		Short: "Serial monitor for the debug console",
		Long: `debug-monitor opens a serial port at the console speed, signals the
device that the host is ready, and relays its debug output.

The port can be given as an argument or through a console configuration
file (the same YAML file the device side uses).`,
		Example: `  debug-monitor /dev/ttyUSB0
  debug-monitor --capture session.dlog /dev/ttyUSB0
  debug-monitor --config console.yaml
  debug-monitor --list`,
		Args:          cobra.MaximumNArgs(1),
		RunE:          run,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := rootCmd.Flags()
	flags.StringVarP(&cfg.ConfigFile, "config", "c", "", "Console configuration file (YAML)")
	flags.IntVarP(&cfg.Baud, "baud", "b", config.DefaultBaud, "Baud rate")
	flags.StringVar(&cfg.LineEnding, "line-ending", string(config.LineEndingCRLF), "Terminator for sent lines (crlf, lf)")
	flags.StringVar(&cfg.Capture, "capture", "", "Record the session to a capture file (.dlog)")
	flags.BoolVarP(&cfg.List, "list", "l", false, "List serial ports and exit")
	flags.BoolVarP(&cfg.Verbose, "verbose", "v", false, "Enable debug logging")

	return rootCmd
}

// resolve merges the configuration file, flags and arguments. Flags that
// were set explicitly win over the file.
func resolve(cmd *cobra.Command, args []string) (config.Config, error) {
	conf := config.Default()
	if cfg.ConfigFile != "" {
		loaded, err := config.Load(cfg.ConfigFile)
		if err != nil {
			return config.Config{}, err
		}
		conf = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("baud") || cfg.ConfigFile == "" {
		conf.Baud = cfg.Baud
	}
	if flags.Changed("line-ending") || cfg.ConfigFile == "" {
		conf.LineEnding = config.LineEnding(cfg.LineEnding)
	}
	if flags.Changed("capture") {
		conf.Capture = cfg.Capture
	}
	if len(args) == 1 {
		conf.Port = args[0]
	}

	if conf.IsStream() {
		return config.Config{}, errors.New("a serial port is required (argument or config file)")
	}
	return conf, conf.Validate()
}

func run(cmd *cobra.Command, args []string) error {
	level := slog.LevelInfo
	if cfg.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	if cfg.List {
		return listPorts(cmd.OutOrStdout())
	}

	conf, err := resolve(cmd, args)
	if err != nil {
		return err
	}

	var sinks []capture.Logger
	if conf.Capture != "" {
		file, err := capture.NewFileLogger(conf.Capture)
		if err != nil {
			return fmt.Errorf("open capture file: %w", err)
		}
		defer file.Close()
		sinks = append(sinks, file)
	}
	if cfg.Verbose {
		sinks = append(sinks, capture.NewSlogAdapter(logger))
	}

	// The monitor never waits on a status line; it drives DTR for the device.
	port := console.NewSerialPort(conf.Port, config.ReadyNone)
	if err := port.Open(conf.Baud); err != nil {
		return err
	}
	defer port.Close()
	if err := port.SetReadTimeout(readTimeout); err != nil {
		return fmt.Errorf("set read timeout: %w", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	interactive := term.IsTerminal(int(os.Stdin.Fd()))

	var (
		rl  *readline.Instance
		out io.Writer = os.Stdout
	)
	if interactive {
		rl, err = readline.NewEx(&readline.Config{
			Prompt:          "> ",
			InterruptPrompt: "^C",
			EOFPrompt:       "exit",
		})
		if err != nil {
			return fmt.Errorf("failed to create readline: %w", err)
		}
		defer rl.Close()
		out = rl.Stdout()
	}

	session := monitor.NewSession(port, out, monitor.Config{
		PortName:   conf.Port,
		Terminator: conf.LineEnding.Terminator(),
		Capture:    capture.Tee(sinks...),
		SessionID:  conf.Session,
		Logger:     logger,
	})
	logger.Info("monitoring", "port", conf.Port, "baud", conf.Baud, "session", session.SessionID())

	// Either loop ending stops the other: a closed device closes the
	// prompt, and quitting the prompt stops the reader.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return session.Receive(gctx)
	})
	g.Go(func() error {
		if interactive {
			return monitor.RunPrompt(gctx, rl, session)
		}
		return monitor.RunScript(gctx, os.Stdin, session)
	})

	err = g.Wait()
	logger.Info("session ended", "lines", session.Lines())
	if errors.Is(err, monitor.ErrQuit) || errors.Is(err, monitor.ErrDeviceClosed) {
		return nil
	}
	return err
}

func listPorts(w io.Writer) error {
	ports, err := console.ListSerialPorts()
	if err != nil {
		return fmt.Errorf("list serial ports: %w", err)
	}
	if len(ports) == 0 {
		fmt.Fprintln(w, "No serial ports found")
		return nil
	}
	for _, p := range ports {
		fmt.Fprintln(w, p)
	}
	return nil
}
