// Package render produces human-oriented views of a JSON document: an
// outline tree and summary statistics.
package render

import (
	"fmt"
	"strconv"

	"github.com/xlab/treeprint"

	"github.com/mcncl/jsonast/internal/models"
	"github.com/mcncl/jsonast/internal/printer"
)

// Tree draws the structure of v. Containers become branches labelled with
// their size; scalars are leaves showing their compact text.
func Tree(v models.Value, rootLabel string) string {
	if rootLabel == "" {
		rootLabel = "."
	}
	root := treeprint.NewWithRoot(containerLabel(rootLabel, v))
	addChildren(root, v)
	return root.String()
}

func addChildren(branch treeprint.Tree, v models.Value) {
	switch v.Kind() {
	case models.Object:
		for _, f := range v.Fields() {
			add(branch, strconv.Quote(f.Name), f.Value)
		}
	case models.Array:
		for i, e := range v.Elems() {
			add(branch, "["+strconv.Itoa(i)+"]", e)
		}
	}
}

func add(branch treeprint.Tree, label string, v models.Value) {
	switch v.Kind() {
	case models.Object, models.Array:
		addChildren(branch.AddBranch(containerLabel(label, v)), v)
	case models.Nothing:
	default:
		branch.AddNode(label + ": " + printer.Compact(v))
	}
}

func containerLabel(label string, v models.Value) string {
	switch v.Kind() {
	case models.Object:
		return fmt.Sprintf("%s {%d}", label, v.Len())
	case models.Array:
		return fmt.Sprintf("%s [%d]", label, v.Len())
	case models.Nothing:
		return label
	default:
		return label + ": " + printer.Compact(v)
	}
}
