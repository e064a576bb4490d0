package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/a3tai/mcp-findoc-extractor/internal/config"
	"github.com/a3tai/mcp-findoc-extractor/internal/pdf"
)

const (
	formatText = "text"
	formatJSON = "json"

	exitOK      = 0
	exitFailed  = 1
	exitUsage   = 2
	stdinSource = "-"
)

// options holds the parsed command line
type options struct {
	format         string
	dir            string
	rules          string
	workers        int
	tolerance      float64
	ratioTolerance float64
	confidence     float64
	maxFileSize    int64
	verbose        bool
	help           bool
	sources        []string
}

// fileOutput is the JSON shape of one processed source
type fileOutput struct {
	Path   string             `json:"path"`
	Result *pdf.ExtractResult `json:"result,omitempty"`
	Error  string             `json:"error,omitempty"`
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	os.Exit(run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// run executes the command and returns the process exit code
func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	opts, err := parseArgs(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		fmt.Fprintf(stderr, "Error: %v\n\n", err)
		printUsage(stderr)
		return exitUsage
	}
	if opts.help {
		printHelp(stdout)
		return exitOK
	}

	log.SetOutput(stderr)
	if !opts.verbose {
		log.SetOutput(io.Discard)
	}

	svc, workers, err := newService(opts)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitUsage
	}

	outputs, err := process(ctx, svc, opts, workers, stdin)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitFailed
	}

	if err := writeOutputs(stdout, outputs, opts.format); err != nil {
		fmt.Fprintf(stderr, "Error outputting results: %v\n", err)
		return exitFailed
	}

	for _, out := range outputs {
		if out.Error != "" {
			return exitFailed
		}
	}
	return exitOK
}

func parseArgs(args []string, stderr io.Writer) (*options, error) {
	defaults := config.DefaultConfig()
	opts := &options{}

	fs := flag.NewFlagSet("findoc_extract", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.format, "format", formatText, "Output format: text, json")
	fs.StringVar(&opts.dir, "dir", defaults.Directory, "Root directory; sources must live inside it")
	fs.StringVar(&opts.rules, "rules", "", "YAML file with extra field rules; keys must not clash with built-in fields")
	fs.IntVar(&opts.workers, "workers", config.DefaultWorkers, "Number of documents processed concurrently")
	fs.Float64Var(&opts.tolerance, "tolerance", defaults.BalanceTolerance, "Relative tolerance for the balance sheet identity")
	fs.Float64Var(&opts.ratioTolerance, "ratio-tolerance", defaults.RatioTolerance, "Relative tolerance for the debt to equity check")
	fs.Float64Var(&opts.confidence, "confidence", 1.0, "Source confidence for text read from stdin, e.g. 0.8 for OCR output")
	fs.Int64Var(&opts.maxFileSize, "maxfilesize", defaults.MaxFileSize, "Maximum file size in bytes")
	fs.BoolVar(&opts.verbose, "verbose", false, "Log progress to stderr")
	fs.BoolVar(&opts.help, "help", false, "Show help message")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if opts.help {
		return opts, nil
	}

	if opts.format != formatText && opts.format != formatJSON {
		return nil, fmt.Errorf("format must be %q or %q, got %q", formatText, formatJSON, opts.format)
	}
	if opts.confidence <= 0 || opts.confidence > 1 {
		return nil, fmt.Errorf("confidence must be in (0, 1], got %g", opts.confidence)
	}
	opts.sources = fs.Args()
	if len(opts.sources) == 0 {
		return nil, errors.New("at least one file, directory or '-' for stdin is required")
	}
	return opts, nil
}

// newService builds the engine from the same settings the MCP server uses
func newService(opts *options) (*pdf.Service, int, error) {
	cfg := config.DefaultConfig()
	cfg.Directory = opts.dir
	cfg.RulesFile = opts.rules
	cfg.Workers = opts.workers
	cfg.BalanceTolerance = opts.tolerance
	cfg.RatioTolerance = opts.ratioTolerance
	cfg.MaxFileSize = opts.maxFileSize

	if err := cfg.Validate(); err != nil {
		return nil, 0, err
	}

	engine, err := cfg.NewEngine()
	if err != nil {
		return nil, 0, err
	}

	svc, err := pdf.NewService(cfg.MaxFileSize, cfg.Directory, engine)
	if err != nil {
		return nil, 0, err
	}
	return svc, cfg.Workers, nil
}

// process expands directories, reads stdin when asked and extracts every source
// in command line order
func process(ctx context.Context, svc *pdf.Service, opts *options, workers int, stdin io.Reader) ([]fileOutput, error) {
	var outputs []fileOutput
	var paths []string
	var slots []int

	for _, source := range opts.sources {
		if source == stdinSource {
			data, err := io.ReadAll(stdin)
			if err != nil {
				return nil, fmt.Errorf("failed to read stdin: %w", err)
			}
			result := svc.ExtractText(pdf.ExtractTextRequest{Text: string(data), Confidence: opts.confidence})
			outputs = append(outputs, fileOutput{Path: stdinSource, Result: result})
			continue
		}

		expanded, err := expand(svc, opts.dir, source)
		if err != nil {
			outputs = append(outputs, fileOutput{Path: source, Error: err.Error()})
			continue
		}
		for _, p := range expanded {
			slots = append(slots, len(outputs))
			outputs = append(outputs, fileOutput{Path: p})
			paths = append(paths, p)
		}
	}

	log.Printf("Extracting %d file(s) with %d worker(s)", len(paths), workers)
	outcomes, err := svc.ExtractFiles(ctx, paths, workers)
	if err != nil {
		return nil, err
	}

	for j, outcome := range outcomes {
		out := &outputs[slots[j]]
		out.Path = outcome.Path
		out.Result = outcome.Result
		if outcome.Err != nil {
			out.Error = outcome.Err.Error()
		}
	}
	return outputs, nil
}

// expand turns a directory into the reports it contains and leaves files as is
func expand(svc *pdf.Service, root, source string) ([]string, error) {
	target := source
	if !filepath.IsAbs(target) {
		target = filepath.Join(root, target)
	}
	info, err := os.Stat(target)
	if err != nil || !info.IsDir() {
		return []string{source}, nil
	}

	listing, err := svc.ListDocuments(pdf.ListDocumentsRequest{Directory: source})
	if err != nil {
		return nil, err
	}
	paths := make([]string, 0, len(listing.Files))
	for _, f := range listing.Files {
		paths = append(paths, f.Path)
	}
	return paths, nil
}

func writeOutputs(w io.Writer, outputs []fileOutput, format string) error {
	if format == formatJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(outputs)
	}

	for i, out := range outputs {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "== %s ==\n", out.Path)
		if out.Error != "" {
			fmt.Fprintf(w, "error: %s\n", out.Error)
			continue
		}
		if _, err := io.WriteString(w, pdf.FormatSummary(out.Result)); err != nil {
			return err
		}
	}
	return nil
}

func printHelp(w io.Writer) {
	fmt.Fprintln(w, "FinDoc Extract - Extract structured financial records from credit reports")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Reads PDF and plain text credit reports, matches every field of the pattern")
	fmt.Fprintln(w, "library, resolves conflicts and cross-checks the balance sheet.")
	fmt.Fprintln(w)
	printUsage(w)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "OPTIONS:")
	fmt.Fprintln(w, "  -format           Output format: text (default), json")
	fmt.Fprintln(w, "  -dir              Root directory for sources (default: current directory)")
	fmt.Fprintln(w, "  -rules            YAML rules file adding fields to the built-in library")
	fmt.Fprintln(w, "  -workers          Documents processed concurrently (default 4)")
	fmt.Fprintln(w, "  -tolerance        Balance identity tolerance (default 0.01)")
	fmt.Fprintln(w, "  -ratio-tolerance  Debt to equity tolerance (default 0.05)")
	fmt.Fprintln(w, "  -confidence       Source confidence for stdin text (default 1.0)")
	fmt.Fprintln(w, "  -verbose          Log progress to stderr")
	fmt.Fprintln(w, "  -help             Show this help message")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "EXAMPLES:")
	fmt.Fprintln(w, "  findoc_extract report.pdf")
	fmt.Fprintln(w, "  findoc_extract -format json -workers 8 reports/")
	fmt.Fprintln(w, "  tesseract scan.png - | findoc_extract -confidence 0.8 -")
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "USAGE:")
	fmt.Fprintln(w, "  findoc_extract [OPTIONS] <file|directory|->...")
}
