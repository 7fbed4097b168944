package render

import (
	"fmt"
	"io"

	"github.com/dustin/go-humanize"

	"github.com/mcncl/jsonast/internal/models"
	"github.com/mcncl/jsonast/internal/query"
)

var kindOrder = []models.Kind{
	models.Object, models.Array, models.String, models.Int, models.Double, models.Bool, models.Null,
}

// Stats summarises a document.
type Stats struct {
	Nodes  int
	Fields int
	Depth  int
	Counts map[models.Kind]int
	// Size is the length of the source text in bytes, 0 when unknown.
	Size int64
}

// Collect counts the nodes of v by kind. Scalars have depth 1.
func Collect(v models.Value) Stats {
	counts := query.Fold(v, make(map[models.Kind]int), func(acc map[models.Kind]int, x models.Value) map[models.Kind]int {
		if !x.IsNothing() {
			acc[x.Kind()]++
		}
		return acc
	})
	fields := query.FoldField(v, 0, func(n int, _ models.Field) int { return n + 1 })

	nodes := 0
	for _, n := range counts {
		nodes += n
	}
	return Stats{Nodes: nodes, Fields: fields, Depth: depth(v), Counts: counts}
}

func depth(v models.Value) int {
	if v.IsNothing() {
		return 0
	}
	deepest := 0
	for _, c := range query.Children(v) {
		deepest = max(deepest, depth(c))
	}
	return deepest + 1
}

// Write prints s as aligned "label: value" lines.
func (s Stats) Write(w io.Writer) error {
	line := func(label, value string) error {
		_, err := fmt.Fprintf(w, "%-8s %s\n", label+":", value)
		return err
	}
	if s.Size > 0 {
		if err := line("size", humanize.Bytes(uint64(s.Size))); err != nil {
			return err
		}
	}
	if err := line("nodes", humanize.Comma(int64(s.Nodes))); err != nil {
		return err
	}
	if err := line("fields", humanize.Comma(int64(s.Fields))); err != nil {
		return err
	}
	if err := line("depth", humanize.Comma(int64(s.Depth))); err != nil {
		return err
	}
	for _, k := range kindOrder {
		if n := s.Counts[k]; n > 0 {
			if err := line(k.String(), humanize.Comma(int64(n))); err != nil {
				return err
			}
		}
	}
	return nil
}
