package main

import (
	"fmt"
	"strings"

	"github.com/mcncl/jsonast/internal/analyzer"
	"github.com/mcncl/jsonast/internal/config"
	"github.com/mcncl/jsonast/internal/errors"
	"github.com/mcncl/jsonast/internal/formatter"
	"github.com/mcncl/jsonast/internal/generator"
	"github.com/mcncl/jsonast/internal/models"
	"github.com/mcncl/jsonast/internal/parser"
	"github.com/mcncl/jsonast/internal/query"
	"github.com/mcncl/jsonast/internal/render"
)

// FmtCmd re-prints a document
type FmtCmd struct {
	InputFlags
	OutputFlags
	PrintFlags
}

func (c *FmtCmd) Run(ctx *Context) error {
	if err := ctx.Config.ApplyOverrides(c.overrides()); err != nil {
		return errors.NewInputError("invalid printer options", err)
	}
	v, _, err := c.readInput(ctx)
	if err != nil {
		return err
	}
	return c.writeValue(ctx, v)
}

// QueryCmd selects from or prunes a document. Removals run first, then the
// selectors in the order child, descend, unbox.
type QueryCmd struct {
	InputFlags
	OutputFlags
	PrintFlags

	Child   []string `help:"Select direct fields with this name. Repeat to go deeper." short:"C"`
	Descend string   `help:"Select every field with this name at any depth." short:"D"`
	Unbox   string   `help:"Collect every value of this kind: null, bool, int, double, string, array or object." short:"U"`
	NoNulls bool     `help:"Remove every null."`
	Remove  []string `help:"Remove every field with this name." short:"R"`
}

func (c *QueryCmd) Run(ctx *Context) error {
	if len(c.Child) == 0 && c.Descend == "" && c.Unbox == "" && !c.NoNulls && len(c.Remove) == 0 {
		return errors.NewQueryError("no selector given: use --child, --descend, --unbox, --no-nulls or --remove", errors.ErrInvalidQuery)
	}
	var unboxKind models.Kind
	if c.Unbox != "" {
		k, ok := models.ParseKind(c.Unbox)
		if !ok || k == models.Nothing {
			return errors.NewQueryError(fmt.Sprintf("unknown kind %q", c.Unbox), errors.ErrUnknownKind)
		}
		unboxKind = k
	}
	if err := ctx.Config.ApplyOverrides(c.overrides()); err != nil {
		return errors.NewInputError("invalid printer options", err)
	}

	v, _, err := c.readInput(ctx)
	if err != nil {
		return err
	}

	for _, name := range c.Remove {
		v = query.RemoveField(v, func(f models.Field) bool { return f.Name == name })
		ctx.Logger.Debug("removed fields", "name", name)
	}
	if c.NoNulls {
		v = query.NoNulls(v)
	}
	for _, name := range c.Child {
		v = query.Child(v, name)
		ctx.Logger.Debug("selected child", "name", name, "kind", v.Kind())
	}
	if c.Descend != "" {
		v = query.Descend(v, c.Descend)
		ctx.Logger.Debug("descended", "name", c.Descend, "kind", v.Kind())
	}
	if c.Unbox != "" {
		v = models.ArrayValue(query.Unbox(v, unboxKind)...)
		ctx.Logger.Debug("unboxed", "kind", unboxKind, "count", v.Len())
	}
	return c.writeValue(ctx, v)
}

// KeysCmd renames every field of a document
type KeysCmd struct {
	InputFlags
	OutputFlags
	PrintFlags

	Case string `help:"Target case: upper, camel, pascal or snake." enum:"upper,camel,pascal,snake" required:""`
}

func (c *KeysCmd) Run(ctx *Context) error {
	if err := ctx.Config.ApplyOverrides(c.overrides()); err != nil {
		return errors.NewInputError("invalid printer options", err)
	}
	v, _, err := c.readInput(ctx)
	if err != nil {
		return err
	}

	switch c.Case {
	case "upper":
		v = query.UpperKeys(v)
	case "camel":
		v = query.CamelizeKeys(v)
	case "pascal":
		v = query.PascalizeKeys(v)
	case "snake":
		v = query.SnakizeKeys(v)
	}
	return c.writeValue(ctx, v)
}

// MergeCmd deep-merges two files
type MergeCmd struct {
	OutputFlags
	PrintFlags

	Base    string `arg:"" help:"Base document." type:"path"`
	Overlay string `arg:"" help:"Document merged on top of the base." type:"path"`
}

func (c *MergeCmd) Run(ctx *Context) error {
	if err := ctx.Config.ApplyOverrides(c.overrides()); err != nil {
		return errors.NewInputError("invalid printer options", err)
	}
	a, b, err := parsePair(ctx, c.Base, c.Overlay)
	if err != nil {
		return err
	}
	return c.writeValue(ctx, query.Merge(a, b))
}

// DiffCmd reports the structural difference between two files as an object
// with "changed", "added" and "deleted" members; empty parts are left out.
type DiffCmd struct {
	OutputFlags
	PrintFlags

	Old string `arg:"" help:"Original document." type:"path"`
	New string `arg:"" help:"Changed document." type:"path"`
}

func (c *DiffCmd) Run(ctx *Context) error {
	if err := ctx.Config.ApplyOverrides(c.overrides()); err != nil {
		return errors.NewInputError("invalid printer options", err)
	}
	a, b, err := parsePair(ctx, c.Old, c.New)
	if err != nil {
		return err
	}

	changes := query.Diff(a, b)
	ctx.Logger.Debug("diff computed", "empty", changes.Empty())
	return c.writeValue(ctx, models.ObjectValue(
		models.F("changed", changes.Changed),
		models.F("added", changes.Added),
		models.F("deleted", changes.Deleted),
	))
}

func parsePair(ctx *Context, first, second string) (models.Value, models.Value, error) {
	ctx.Logger.Debug("reading inputs", "first", first, "second", second)
	a, err := parser.ParseFile(first)
	if err != nil {
		return models.Value{}, models.Value{}, err
	}
	b, err := parser.ParseFile(second)
	if err != nil {
		return models.Value{}, models.Value{}, err
	}
	return a, b, nil
}

// TypesCmd generates Go declarations for a sample document
type TypesCmd struct {
	InputFlags
	OutputFlags

	Package  string `help:"Package name for generated code. Overrides types.package." short:"p"`
	RootName string `help:"Name for the root struct. Overrides types.root_name." short:"r"`
	NoFormat bool   `help:"Skip gofmt on the generated code."`
}

func (c *TypesCmd) Run(ctx *Context) error {
	overrides := config.Overrides{}
	if c.Package != "" {
		overrides.Package = &c.Package
	}
	if c.RootName != "" {
		overrides.RootName = &c.RootName
	}
	if c.NoFormat {
		format := false
		overrides.Format = &format
	}
	if err := ctx.Config.ApplyOverrides(overrides); err != nil {
		return errors.NewInputError("invalid type options", err)
	}
	cfg := ctx.Config

	// 1. Parse JSON input
	v, _, err := c.readInput(ctx)
	if err != nil {
		return err
	}

	// 2. Analyze JSON structure
	analysisResult, err := analyzer.NewAnalyzerWithConfig(cfg).Analyze(v, cfg.Types.RootName)
	if err != nil {
		return err
	}
	ctx.Logger.Debug("analysis complete", "structs", len(analysisResult.Structs), "imports", len(analysisResult.Imports))

	// 3. Generate Go structs
	code, err := generator.NewGenerator().GenerateStructs(analysisResult, cfg.Types.Package)
	if err != nil {
		return err
	}

	// 4. Format the code if requested
	if cfg.Formatting.Enabled {
		code, err = formatter.NewFormatter().Format(code)
		if err != nil {
			return err
		}
	}

	return c.writeText(ctx, code)
}

// TreeCmd prints the outline of a document
type TreeCmd struct {
	InputFlags
	OutputFlags

	Root string `help:"Label of the root node." default:"."`
}

func (c *TreeCmd) Run(ctx *Context) error {
	v, _, err := c.readInput(ctx)
	if err != nil {
		return err
	}
	return c.writeText(ctx, render.Tree(v, c.Root))
}

// StatsCmd prints node counts for a document
type StatsCmd struct {
	InputFlags
	OutputFlags
}

func (c *StatsCmd) Run(ctx *Context) error {
	v, size, err := c.readInput(ctx)
	if err != nil {
		return err
	}
	stats := render.Collect(v)
	stats.Size = size

	var buf strings.Builder
	if err := stats.Write(&buf); err != nil {
		return errors.NewOutputError("failed to render statistics", err)
	}
	return c.writeText(ctx, buf.String())
}
