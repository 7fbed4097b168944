package main

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/mcncl/jsonast/internal/config"
	"github.com/mcncl/jsonast/internal/errors"
	"github.com/mcncl/jsonast/internal/logging"
	"github.com/mcncl/jsonast/internal/models"
	"github.com/mcncl/jsonast/internal/parser"
	"github.com/mcncl/jsonast/internal/printer"
)

// Version information
const (
	Version = "0.1.0"
)

// Globals are flags shared by every command
type Globals struct {
	Config    string           `help:"Path to a config file. Defaults to the nearest .jsonast.yml." short:"c" type:"path"`
	Debug     bool             `help:"Enable debug logging." short:"d"`
	LogFormat string           `help:"Log format: text, json or logfmt. Overrides dev.log_format."`
	Version   kong.VersionFlag `help:"Show version information." short:"v"`
}

// CLI defines the command-line interface
type CLI struct {
	Globals

	Fmt   FmtCmd   `cmd:"" help:"Parse JSON and print it again."`
	Query QueryCmd `cmd:"" help:"Select or remove parts of a document."`
	Keys  KeysCmd  `cmd:"" help:"Rewrite the names of object fields."`
	Merge MergeCmd `cmd:"" help:"Deep-merge two documents, the second taking precedence."`
	Diff  DiffCmd  `cmd:"" help:"Show what changed between two documents."`
	Types TypesCmd `cmd:"" default:"withargs" help:"Generate Go type declarations from a JSON sample."`
	Tree  TreeCmd  `cmd:"" help:"Draw the structure of a document."`
	Stats StatsCmd `cmd:"" help:"Count the nodes of a document."`
}

// Context holds the runtime context passed to every command
type Context struct {
	Config *config.Config
	Logger *slog.Logger
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", errors.UserFriendlyError(err))
		fmt.Fprintf(os.Stderr, "\nFor help, run: jsonast --help\n")
		os.Exit(1)
	}
}

// run parses args, loads the configuration and executes the selected command
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	var cli CLI
	app, err := kong.New(&cli,
		kong.Name("jsonast"),
		kong.Description("Parse, query, transform and type JSON documents."),
		kong.Writers(stdout, stderr),
		kong.Vars{"version": "jsonast version " + Version},
	)
	if err != nil {
		return err
	}

	kctx, err := app.Parse(args)
	if err != nil {
		return errors.NewInputError("invalid arguments: "+err.Error(), err)
	}

	ctx, err := newContext(cli.Globals, stdin, stdout, stderr)
	if err != nil {
		return err
	}
	ctx.Logger.Debug("running command", "command", kctx.Command(), "config", cli.Config)
	return kctx.Run(ctx)
}

func newContext(g Globals, stdin io.Reader, stdout, stderr io.Writer) (*Context, error) {
	overrides := config.Overrides{}
	if g.Debug {
		overrides.Debug = &g.Debug
	}
	cfg, err := config.Load(g.Config, overrides)
	if err != nil {
		return nil, errors.NewInputError("failed to load configuration", err)
	}
	if g.LogFormat != "" {
		cfg.Dev.LogFormat = g.LogFormat
	}

	logger, err := logging.New(stderr, logging.Options{Debug: cfg.Dev.Debug, Format: cfg.Dev.LogFormat})
	if err != nil {
		return nil, errors.NewInputError("invalid logging configuration", err)
	}
	return &Context{Config: cfg, Logger: logger, Stdin: stdin, Stdout: stdout, Stderr: stderr}, nil
}

// InputFlags select where a command reads its document from
type InputFlags struct {
	Input       string `help:"Path to input JSON file. If not specified, reads from stdin." short:"i" type:"path"`
	Interactive bool   `help:"Read JSON typed at the terminal until Ctrl+D." short:"I"`
}

// OutputFlags select where a command writes its result
type OutputFlags struct {
	Output string `help:"Path to output file. If not specified, writes to stdout." short:"o" type:"path"`
}

// PrintFlags override the printer section of the configuration
type PrintFlags struct {
	Compact       bool   `help:"Print without insignificant whitespace."`
	Indent        string `help:"Indent nested values with this string (spaces or tabs)."`
	EscapeUnicode bool   `help:"Escape every non-ASCII character as \\uXXXX."`
}

func (p PrintFlags) overrides() config.Overrides {
	var o config.Overrides
	if p.Compact {
		o.Compact = &p.Compact
	}
	if p.Indent != "" {
		o.Indent = &p.Indent
	}
	if p.EscapeUnicode {
		o.EscapeUnicode = &p.EscapeUnicode
	}
	return o
}

// readInput reads and parses the document named by the flags
func (in InputFlags) readInput(ctx *Context) (models.Value, int64, error) {
	if in.Input != "" {
		ctx.Logger.Debug("reading input", "file", in.Input)
		info, err := os.Stat(in.Input)
		if err != nil && !os.IsNotExist(err) {
			return models.Value{}, 0, errors.NewInputError(fmt.Sprintf("failed to access '%s'", in.Input), err)
		}
		v, err := parser.ParseFile(in.Input)
		if err != nil {
			return models.Value{}, 0, err
		}
		return v, info.Size(), nil
	}
	return in.readStdin(ctx)
}

func (in InputFlags) readStdin(ctx *Context) (models.Value, int64, error) {
	if f, ok := ctx.Stdin.(*os.File); ok {
		stdinInfo, err := f.Stat()
		if err != nil {
			return models.Value{}, 0, errors.NewInputError("failed to access stdin", err)
		}
		if stdinInfo.Mode()&os.ModeCharDevice != 0 {
			// Terminal is interactive (not piped)
			if !in.Interactive {
				return models.Value{}, 0, errors.NewInputError("no input provided", errors.ErrNoInput)
			}
			return readInteractiveInput(ctx)
		}
	}

	ctx.Logger.Debug("reading input", "file", "stdin")
	jsonData, err := io.ReadAll(ctx.Stdin)
	if err != nil {
		return models.Value{}, 0, errors.NewInputError("failed to read from stdin", err)
	}
	if strings.TrimSpace(string(jsonData)) == "" {
		return models.Value{}, 0, errors.NewInputError("empty input received from stdin", errors.ErrEmptyInput)
	}
	v, err := parser.ParseBytes(jsonData)
	return v, int64(len(jsonData)), err
}

// readInteractiveInput lets users paste JSON and signal completion with
// Ctrl+D (EOF)
func readInteractiveInput(ctx *Context) (models.Value, int64, error) {
	fmt.Fprintln(ctx.Stderr, "jsonast interactive mode")
	fmt.Fprintln(ctx.Stderr, "Paste your JSON below and press Ctrl+D (or Ctrl+Z on Windows) when done:")

	reader := bufio.NewReader(ctx.Stdin)
	var jsonBuilder strings.Builder
	for {
		line, err := reader.ReadString('\n')
		jsonBuilder.WriteString(line)
		if err == io.EOF {
			break
		}
		if err != nil {
			return models.Value{}, 0, errors.NewInputError("error reading input", err)
		}
	}

	jsonData := jsonBuilder.String()
	if strings.TrimSpace(jsonData) == "" {
		return models.Value{}, 0, errors.NewInputError("empty input received", errors.ErrEmptyInput)
	}

	fmt.Fprintln(ctx.Stderr, "\nProcessing JSON...")
	v, err := parser.ParseString(jsonData)
	return v, int64(len(jsonData)), err
}

// writeText writes text to the output file or stdout
func (out OutputFlags) writeText(ctx *Context, text string) error {
	if out.Output != "" {
		if err := os.WriteFile(out.Output, []byte(text), 0o644); err != nil {
			return errors.NewOutputError(fmt.Sprintf("failed to write to file '%s'", out.Output), err)
		}
		ctx.Logger.Info("output written", "file", out.Output, "bytes", len(text))
		return nil
	}

	if _, err := io.WriteString(ctx.Stdout, text); err != nil {
		return errors.NewOutputError("failed to write to stdout", err)
	}
	return nil
}

// writeValue renders v with the configured printer options. Nothing renders
// as no output at all.
func (out OutputFlags) writeValue(ctx *Context, v models.Value) error {
	if v.IsNothing() {
		ctx.Logger.Warn("result is empty")
		return out.writeText(ctx, "")
	}
	return out.writeText(ctx, printer.Format(v, ctx.Config.PrinterOptions())+"\n")
}
