package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cadence/internal/cadence/binder"
	"cadence/internal/cadence/config"
	"cadence/internal/cadence/highlight"
	"cadence/internal/cadence/host"
	"cadence/internal/cadence/parser"
	"cadence/internal/cadence/validator"

	"cadence/cmd/cadence/repl"
)

// Global project/output flags, set by parseArgs (mirrors the teacher's
// package-level soundFontPath convention in main.go).
var (
	projectPath string
	outputPath  string
)

func main() {
	args := parseArgs(os.Args[1:])

	if len(args) < 1 {
		printUsage()
		os.Exit(1)
	}

	command := args[0]

	switch command {
	case "run":
		if len(args) < 2 {
			fmt.Println("Error: run requires a .cad file")
			printUsage()
			os.Exit(1)
		}
		runFile(args[1])
	case "check":
		if len(args) < 2 {
			fmt.Println("Error: check requires a .cad file")
			printUsage()
			os.Exit(1)
		}
		if errs := checkFile(args[1]); len(errs) > 0 {
			os.Exit(1)
		}
	case "highlight":
		if len(args) < 2 {
			fmt.Println("Error: highlight requires a .cad file")
			printUsage()
			os.Exit(1)
		}
		highlightFile(args[1])
	case "export":
		if len(args) < 2 {
			fmt.Println("Error: export requires a .cad file")
			printUsage()
			os.Exit(1)
		}
		exportFile(args[1])
	case "repl":
		if err := repl.Run(projectPath); err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
	default:
		printUsage()
		os.Exit(1)
	}
}

// parseArgs extracts --project/-p and --output/-o flags, returning the
// remaining positional args. Grounded on the teacher's --soundfont flag
// parsing (supports both "--flag value" and "--flag=value").
func parseArgs(args []string) []string {
	var remaining []string

	for i := 0; i < len(args); i++ {
		arg := args[i]

		switch {
		case arg == "--project" || arg == "-p":
			if i+1 < len(args) {
				projectPath = args[i+1]
				i++
			} else {
				fmt.Println("Error: --project requires a path")
				os.Exit(1)
			}
		case strings.HasPrefix(arg, "--project="):
			projectPath = strings.TrimPrefix(arg, "--project=")
		case arg == "--output" || arg == "-o":
			if i+1 < len(args) {
				outputPath = args[i+1]
				i++
			} else {
				fmt.Println("Error: --output requires a path")
				os.Exit(1)
			}
		case strings.HasPrefix(arg, "--output="):
			outputPath = strings.TrimPrefix(arg, "--output=")
		case arg == "--help" || arg == "-h":
			printUsage()
			os.Exit(0)
		default:
			remaining = append(remaining, arg)
		}
	}

	return remaining
}

func printUsage() {
	fmt.Println("cadence - a live-codable music language")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  cadence run <file.cad>        run a program, printing its effects")
	fmt.Println("  cadence check <file.cad>      parse, bind, and validate without running")
	fmt.Println("  cadence highlight <file.cad>  print syntax-highlighted source")
	fmt.Println("  cadence export <file.cad>     export play effects to a .mid file")
	fmt.Println("  cadence repl                  start an interactive live-coding session")
	fmt.Println()
	fmt.Println("Flags:")
	fmt.Println("  --project, -p <path>   project file (cadence.yaml) to load defaults from")
	fmt.Println("  --output, -o <path>    output path for export")
}

func readSource(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Printf("Error reading '%s': %v\n", path, err)
		os.Exit(1)
	}
	return string(data)
}

func checkFile(path string) []validator.CadenceError {
	src := readSource(path)
	prog, err := parser.Parse(src)
	if err != nil {
		fmt.Printf("Parse error: %v\n", err)
		os.Exit(1)
	}
	table := binder.Bind(prog)
	errs := validator.Validate(prog, table)
	for _, e := range errs {
		fmt.Println(e.Error())
	}
	return errs
}

func runFile(path string) {
	if errs := checkFile(path); len(errs) > 0 {
		os.Exit(1)
	}
	src := readSource(path)
	prog, _ := parser.Parse(src)

	proj := loadProjectOrDefault()
	sink := &printSink{}
	interp := host.New(sink)
	if proj != nil {
		interp.Tempo(float64(proj.Tempo))
		interp.Volume(proj.Volume)
		interp.Waveform(proj.Waveform)
	}

	if err := interp.Run(prog); err != nil {
		fmt.Printf("Runtime error: %v\n", err)
		os.Exit(1)
	}
}

func exportFile(path string) {
	if errs := checkFile(path); len(errs) > 0 {
		os.Exit(1)
	}
	src := readSource(path)
	prog, _ := parser.Parse(src)

	sink := host.NewMIDISink()
	interp := host.New(sink)
	if err := interp.Run(prog); err != nil {
		fmt.Printf("Runtime error: %v\n", err)
		os.Exit(1)
	}

	out := outputPath
	if out == "" {
		base := filepath.Base(path)
		ext := filepath.Ext(base)
		out = strings.TrimSuffix(base, ext) + ".mid"
	}
	if err := sink.WriteFile(out); err != nil {
		fmt.Printf("Error writing MIDI: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("\n✓ Exported to: %s\n", out)
}

func highlightFile(path string) {
	src := readSource(path)
	spans, err := highlight.Highlight(src)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	for _, span := range spans {
		text := src[span.StartByte:span.EndByte]
		fmt.Printf("%-12s %q\n", span.Category, text)
	}
}

func loadProjectOrDefault() *config.Project {
	if projectPath == "" {
		return nil
	}
	proj, err := config.Load(projectPath)
	if err != nil {
		fmt.Printf("Error loading project '%s': %v\n", projectPath, err)
		os.Exit(1)
	}
	return proj
}

// printSink is the default run-mode effect sink: it prints each effect
// instead of driving real audio output (a Non-goal; see DESIGN.md).
type printSink struct{}

func (printSink) Play(e host.Effect) error {
	fmt.Println(e.String())
	return nil
}

func (printSink) Tempo(bpm float64) error {
	fmt.Printf("tempo %g\n", bpm)
	return nil
}

func (printSink) Volume(level float64) error {
	fmt.Printf("volume %g\n", level)
	return nil
}

func (printSink) Waveform(name string) error {
	fmt.Printf("waveform %s\n", name)
	return nil
}

func (printSink) Stop() error {
	fmt.Println("stop")
	return nil
}

func (printSink) Track(name string, body func() error) error {
	fmt.Printf("track %s {\n", name)
	err := body()
	fmt.Println("}")
	return err
}
