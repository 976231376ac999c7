// Command z33asm drives the front-end pipeline over a single source file:
// preprocess, parse, lay out memory, resolve labelable arguments, and print
// either a memory report or a one-line diagnostic. It is a thin CLI built on
// the standard-library flag package, with a category-coded exit status and
// no framework.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/lookbusy1344/z33-asm/config"
	"github.com/lookbusy1344/z33-asm/diagnostics"
	"github.com/lookbusy1344/z33-asm/expr"
	"github.com/lookbusy1344/z33-asm/fsys"
	"github.com/lookbusy1344/z33-asm/inspector"
	"github.com/lookbusy1344/z33-asm/layout"
	"github.com/lookbusy1344/z33-asm/parser"
	"github.com/lookbusy1344/z33-asm/resolve"
)

// Version information, overridable at build time with:
// go build -ldflags "-X main.Version=v1.2.3"
var (
	Version = "dev"
	Commit  = "unknown"
)

func main() {
	var (
		fsRoot      = flag.String("fsroot", "", "restrict #include resolution to this directory (default: current directory)")
		configPath  = flag.String("config", "", "path to a TOML config file (default: the platform config directory)")
		format      = flag.String("format", "text", "memory report format: text or json")
		entry       = flag.String("entry", "", "override PROGRAM_START (constant expression, e.g. 0x1000)")
		inspect     = flag.Bool("inspect", false, "open the memory/layout inspector instead of printing a report")
		showVersion = flag.Bool("version", false, "show version information")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("z33-asm %s (%s)\n", Version, Commit)
		os.Exit(0)
	}

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: z33asm [flags] <source-file>")
		flag.PrintDefaults()
		os.Exit(diagnostics.ExitUnknown)
	}
	root := flag.Arg(0)

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(diagnostics.ExitUnknown)
	}

	start, err := resolveProgramStart(*entry, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid entry point: %v\n", err)
		os.Exit(diagnostics.ExitUnknown)
	}

	fs := fsys.NewOSFilesystem(*fsRoot)

	prog, prov, err := parser.ParseFile(fs, root)
	if err != nil {
		fmt.Fprintln(os.Stderr, diagnostics.Render(err, prov))
		os.Exit(diagnostics.ExitCode(err))
	}

	lay, err := layout.Build(prog, start)
	if err != nil {
		fmt.Fprintln(os.Stderr, diagnostics.Render(err, prov))
		os.Exit(diagnostics.ExitCode(err))
	}

	if _, err := resolve.ResolveLabelArguments(prog, lay); err != nil {
		fmt.Fprintln(os.Stderr, diagnostics.Render(err, prov))
		os.Exit(diagnostics.ExitCode(err))
	}

	if *inspect {
		if err := inspector.New(prog, lay).Run(); err != nil {
			fmt.Fprintf(os.Stderr, "inspector error: %v\n", err)
			os.Exit(diagnostics.ExitUnknown)
		}
		return
	}

	switch *format {
	case "json":
		printReportJSON(lay)
	default:
		printReportText(lay, cfg)
	}
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Load()
	}
	return config.LoadConfig(path)
}

// resolveProgramStart decides the layout cursor's starting address: the
// -entry flag wins if set, otherwise the config file's layout.program_start,
// both parsed as a label-free constant expression exactly like a .space or
// .addr argument is at layout time.
func resolveProgramStart(entryFlag string, cfg *config.Config) (uint64, error) {
	text := cfg.Layout.ProgramStart
	if entryFlag != "" {
		text = entryFlag
	}

	node, rest, err := expr.Parse(text)
	if err != nil {
		return 0, err
	}
	if rest != "" {
		return 0, fmt.Errorf("unexpected trailing text %q", rest)
	}
	v, err := expr.Eval(node, expr.EmptyContext{}, expr.WidthFull)
	if err != nil {
		return 0, err
	}
	return expr.Narrow(v)
}

func printReportText(lay *layout.Layout, cfg *config.Config) {
	for _, entry := range lay.Report() {
		fmt.Println(formatEntry(entry, cfg))
	}
}

func formatEntry(entry layout.ReportEntry, cfg *config.Config) string {
	addr := formatAddress(entry.Address, cfg.Display.NumberFormat)
	switch entry.Placement.Kind {
	case layout.PlacementReserved:
		return fmt.Sprintf("%s: reserved", addr)
	case layout.PlacementChar:
		return fmt.Sprintf("%s: char %q", addr, entry.Placement.Char)
	case layout.PlacementLine:
		return fmt.Sprintf("%s: line %d", addr, entry.Placement.LineIndex)
	default:
		return fmt.Sprintf("%s: ?", addr)
	}
}

func formatAddress(addr uint64, numberFormat string) string {
	switch numberFormat {
	case "dec":
		return fmt.Sprintf("%d", addr)
	case "both":
		return fmt.Sprintf("0x%x (%d)", addr, addr)
	default:
		return fmt.Sprintf("0x%x", addr)
	}
}

type jsonEntry struct {
	Address uint64 `json:"address"`
	Kind    string `json:"kind"`
	Char    string `json:"char,omitempty"`
	Line    *int   `json:"line,omitempty"`
}

func printReportJSON(lay *layout.Layout) {
	entries := lay.Report()
	out := make([]jsonEntry, 0, len(entries))
	for _, e := range entries {
		je := jsonEntry{Address: e.Address}
		switch e.Placement.Kind {
		case layout.PlacementReserved:
			je.Kind = "reserved"
		case layout.PlacementChar:
			je.Kind = "char"
			je.Char = string(e.Placement.Char)
		case layout.PlacementLine:
			je.Kind = "line"
			idx := e.Placement.LineIndex
			je.Line = &idx
		}
		out = append(out, je)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(out)
}
