package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/mattjoyce/dagstat/internal/config"
	"github.com/mattjoyce/dagstat/internal/log"
	"github.com/mattjoyce/dagstat/internal/render"
	"github.com/mattjoyce/dagstat/internal/statusfile"
	"github.com/mattjoyce/dagstat/internal/tui/watch"
)

const version = "0.1.0"

func main() {
	os.Exit(runCLI(os.Args[1:]))
}

func runCLI(cliArgs []string) int {
	if len(cliArgs) < 1 {
		printUsage()
		return 1
	}

	switch cliArgs[0] {
	case "watch":
		return runWatch(cliArgs[1:])
	case "version", "--version":
		fmt.Printf("dagstat version %s\n", version)
		return 0
	case "help", "--help", "-h":
		printUsage()
		return 0
	default:
		return runStatus(cliArgs)
	}
}

func printUsage() {
	fmt.Print(`dagstat - Human-readable summary of DAGMan node status files

Usage:
  dagstat [flags] FILE...
  dagstat watch [flags] FILE

Flags:
  -v, --verbose     Enable debug logging
  -s, --summary     Only print the one-line DAG summary
      --json        Output the parsed records as JSON
      --no-color    Disable colored output
      --config PATH Path to config file (default: ~/.config/dagstat/config.yaml)

Commands:
  watch             Live view: re-render whenever the engine rewrites the file
  version           Show version information
  help              Show this help message

Exit status is 0 when every file was parsed and rendered, 1 otherwise.
`)
}

// fileReport is the JSON output shape for one processed file.
type fileReport struct {
	File string `json:"file"`
	*statusfile.Result
}

func runStatus(args []string) int {
	var (
		verbose, verboseShort bool
		summary, summaryShort bool
		jsonOut, noColor      bool
		configPath            string
	)

	fs := flag.NewFlagSet("dagstat", flag.ContinueOnError)
	fs.BoolVar(&verbose, "verbose", false, "Enable debug logging")
	fs.BoolVar(&verboseShort, "v", false, "Enable debug logging")
	fs.BoolVar(&summary, "summary", false, "Only print the DAG summary line")
	fs.BoolVar(&summaryShort, "s", false, "Only print the DAG summary line")
	fs.BoolVar(&jsonOut, "json", false, "Output parsed records as JSON")
	fs.BoolVar(&noColor, "no-color", false, "Disable colored output")
	fs.StringVar(&configPath, "config", "", "Path to configuration file")

	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Flag error: %v\n", err)
		return 1
	}

	files := fs.Args()
	if len(files) == 0 {
		fmt.Fprintln(os.Stderr, "Usage: dagstat [flags] FILE...")
		return 1
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		return 1
	}

	level := cfg.LogLevel
	if verbose || verboseShort {
		level = "DEBUG"
	}
	log.Setup(level)
	logger := log.WithComponent("main")
	logger.Debug("dagstat starting", "version", version, "files", len(files))

	renderer := render.New(theme(noColor || cfg.NoColor), widthFunc(cfg))
	summaryOnly := summary || summaryShort

	failed := 0
	for _, file := range files {
		if err := processFile(renderer, file, summaryOnly, jsonOut); err != nil {
			log.WithFile(file).Error("processing failed", "error", err)
			fmt.Fprintf(os.Stderr, "dagstat: %s: %v\n", file, err)
			failed++
		}
	}

	if failed > 0 {
		logger.Debug("run finished with failures", "failed", failed, "total", len(files))
		return 1
	}
	return 0
}

// processFile parses and renders one status file. A failure here is scoped
// to this file; the caller continues with the rest.
func processFile(renderer *render.Renderer, file string, summaryOnly, jsonOut bool) error {
	result, err := statusfile.ParseFile(file)
	if err != nil {
		return err
	}

	if jsonOut {
		data, err := json.MarshalIndent(fileReport{File: file, Result: result}, "", "  ")
		if err != nil {
			return fmt.Errorf("encode JSON report: %w", err)
		}
		fmt.Println(string(data))
		return nil
	}

	fmt.Print(renderer.Filename(file))
	fmt.Print(renderer.Render(result, summaryOnly))
	return nil
}

func runWatch(args []string) int {
	var (
		verbose, verboseShort bool
		summary, summaryShort bool
		noColor               bool
		configPath            string
	)

	fs := flag.NewFlagSet("watch", flag.ContinueOnError)
	fs.BoolVar(&verbose, "verbose", false, "Enable debug logging")
	fs.BoolVar(&verboseShort, "v", false, "Enable debug logging")
	fs.BoolVar(&summary, "summary", false, "Only show the DAG summary line")
	fs.BoolVar(&summaryShort, "s", false, "Only show the DAG summary line")
	fs.BoolVar(&noColor, "no-color", false, "Disable colored output")
	fs.StringVar(&configPath, "config", "", "Path to configuration file")

	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Flag error: %v\n", err)
		return 1
	}

	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Usage: dagstat watch [flags] FILE")
		return 1
	}
	file := fs.Arg(0)

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		return 1
	}

	level := cfg.LogLevel
	if verbose || verboseShort {
		level = "DEBUG"
	}
	log.Setup(level)

	if err := watch.Run(file, summary || summaryShort, theme(noColor || cfg.NoColor), cfg.Watch.Debounce); err != nil {
		fmt.Fprintf(os.Stderr, "Watch failed: %v\n", err)
		return 1
	}
	return 0
}

func theme(noColor bool) render.Theme {
	if noColor {
		return render.NewMonochromeTheme()
	}
	return render.NewDefaultTheme()
}

// widthFunc caps tables at the live terminal width, falling back to the
// configured width when stdout is not a terminal.
func widthFunc(cfg *config.Config) render.WidthFunc {
	return func() (int, bool) {
		if w, ok := render.TerminalWidth(); ok {
			return w, true
		}
		return cfg.FallbackWidth, true
	}
}
