// Command debug-log views and analyzes debug console capture files.
//
// Capture files are written by a console configured with a capture path
// and by debug-monitor with the --capture flag.
//
// Usage:
//
//	debug-log <command> [flags] <file.dlog>
//
// Commands:
//
//	view     View capture file in human-readable format
//	export   Export capture file to JSONL or CSV
//	filter   Filter capture file and write to new file
//	stats    Show statistics about the capture file
//
// Examples:
//
//	# Replay the console output exactly as the host saw it
//	debug-log view -raw device.dlog
//
//	# View only what was typed into the monitor
//	debug-log view -direction in device.dlog
//
//	# Keep one session
//	debug-log filter -session 6f1c0c9e -o one.dlog device.dlog
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/bbtinkerer/ESP8266CayenneHumidityMonitor/cmd/debug-log/commands"
)

const usage = `debug-log - Debug Console Capture Analyzer

Usage:
  debug-log <command> [flags] <file.dlog>

Commands:
  view     View capture file in human-readable format
  export   Export capture file to JSONL or CSV
  filter   Filter capture file and write to new file
  stats    Show statistics about the capture file

Use "debug-log <command> -help" for more information about a command.
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	switch cmd {
	case "view":
		runView(args)
	case "export":
		runExport(args)
	case "filter":
		runFilter(args)
	case "stats":
		runStats(args)
	case "-h", "-help", "--help", "help":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}
}

// filterFlags registers the filter flags shared by view and filter.
func filterFlags(fs *flag.FlagSet) *commands.FilterOptions {
	opts := &commands.FilterOptions{}
	fs.StringVar(&opts.Session, "session", "", "Filter by session ID")
	fs.StringVar(&opts.Port, "port", "", "Filter by port name")
	fs.StringVar(&opts.Direction, "direction", "", "Filter by direction (in, out)")
	fs.StringVar(&opts.Kind, "kind", "", "Filter by kind (begin, print, println, line)")
	fs.StringVar(&opts.TimeStart, "time-start", "", "Filter by start time (RFC3339)")
	fs.StringVar(&opts.TimeEnd, "time-end", "", "Filter by end time (RFC3339)")
	return opts
}

// pathArg parses args and returns the single capture file argument.
func pathArg(fs *flag.FlagSet, args []string) string {
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Error: capture file path required")
		fs.Usage()
		os.Exit(1)
	}
	return fs.Arg(0)
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}

func runView(args []string) {
	fs := flag.NewFlagSet("view", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `debug-log view - View capture file in human-readable format

Usage:
  debug-log view [flags] <file.dlog>

Flags:
`)
		fs.PrintDefaults()
	}

	opts := filterFlags(fs)
	raw := fs.Bool("raw", false, "Write outgoing text verbatim instead of one entry per event")
	path := pathArg(fs, args)

	filter, err := opts.Build()
	if err != nil {
		fatal(err)
	}
	if err := commands.RunView(path, filter, *raw, os.Stdout); err != nil {
		fatal(err)
	}
}

func runExport(args []string) {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `debug-log export - Export capture file to JSONL or CSV

Usage:
  debug-log export [flags] <file.dlog>

Flags:
`)
		fs.PrintDefaults()
	}

	format := fs.String("format", "jsonl", "Output format (jsonl, csv)")
	output := fs.String("o", "", "Output file (default: stdout)")
	path := pathArg(fs, args)

	if err := commands.RunExport(path, *format, *output); err != nil {
		fatal(err)
	}
}

func runFilter(args []string) {
	fs := flag.NewFlagSet("filter", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `debug-log filter - Filter capture file and write to new file

Usage:
  debug-log filter [flags] <file.dlog>

Flags:
`)
		fs.PrintDefaults()
	}

	output := fs.String("o", "", "Output file (required)")
	opts := filterFlags(fs)
	path := pathArg(fs, args)

	if *output == "" {
		fmt.Fprintln(os.Stderr, "Error: output file (-o) required")
		fs.Usage()
		os.Exit(1)
	}

	if err := commands.RunFilter(path, *output, *opts, os.Stdout); err != nil {
		fatal(err)
	}
}

func runStats(args []string) {
	fs := flag.NewFlagSet("stats", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `debug-log stats - Show statistics about the capture file

Usage:
  debug-log stats <file.dlog>

`)
	}

	path := pathArg(fs, args)

	if err := commands.RunStats(path, os.Stdout); err != nil {
		fatal(err)
	}
}
