package edit

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/sergi/go-diff/diffmatchpatch"
)

// contextLines is how many unchanged lines are shown around each
// changed region of the patch-text diff.
const contextLines = 3

type lineTag int

const (
	lineEqual lineTag = iota
	lineDelete
	lineInsert
)

type diffLine struct {
	tag      lineTag
	oldIndex int // 1-based, 0 when the line has no old position
	newIndex int // 1-based, 0 when the line has no new position
	text     string
}

// RenderPatchDiff writes a colored line diff between the previous and
// the freshly written patch text: deletions red, insertions green,
// context dimmed, with an old/new line-number gutter. Unchanged runs
// beyond the context window are elided and groups are separated by a
// dashed rule. Identical texts render nothing.
func RenderPatchDiff(w io.Writer, oldText, newText string) {
	if oldText == newText {
		return
	}
	lines := diffLines(oldText, newText)
	groups := groupLines(lines)

	del := color.New(color.FgRed)
	ins := color.New(color.FgGreen)
	dim := color.New(color.Faint)

	for gi, group := range groups {
		if gi > 0 {
			fmt.Fprintln(w, strings.Repeat("-", 80))
		}
		for _, l := range group {
			gutter := fmt.Sprintf("%s%s", gutterCell(l.oldIndex), gutterCell(l.newIndex))
			switch l.tag {
			case lineDelete:
				dim.Fprint(w, gutter)
				del.Fprintf(w, "|- %s\n", l.text)
			case lineInsert:
				dim.Fprint(w, gutter)
				ins.Fprintf(w, "|+ %s\n", l.text)
			default:
				dim.Fprintf(w, "%s|  %s\n", gutter, l.text)
			}
		}
	}
}

func gutterCell(idx int) string {
	if idx == 0 {
		return "     "
	}
	return fmt.Sprintf("%-5d", idx)
}

// diffLines computes a line-level diff with old/new line numbers.
func diffLines(oldText, newText string) []diffLine {
	dmp := diffmatchpatch.New()
	a, b, lineArr := dmp.DiffLinesToChars(oldText, newText)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lineArr)

	var out []diffLine
	oldIdx, newIdx := 0, 0
	for _, d := range diffs {
		for _, text := range splitLines(d.Text) {
			switch d.Type {
			case diffmatchpatch.DiffDelete:
				oldIdx++
				out = append(out, diffLine{tag: lineDelete, oldIndex: oldIdx, text: text})
			case diffmatchpatch.DiffInsert:
				newIdx++
				out = append(out, diffLine{tag: lineInsert, newIndex: newIdx, text: text})
			default:
				oldIdx++
				newIdx++
				out = append(out, diffLine{tag: lineEqual, oldIndex: oldIdx, newIndex: newIdx, text: text})
			}
		}
	}
	return out
}

func splitLines(s string) []string {
	s = strings.TrimSuffix(s, "\n")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}

// groupLines keeps changed lines plus contextLines of surrounding
// context, splitting distant changes into separate groups.
func groupLines(lines []diffLine) [][]diffLine {
	keep := make([]bool, len(lines))
	for i, l := range lines {
		if l.tag == lineEqual {
			continue
		}
		lo := max(0, i-contextLines)
		hi := min(len(lines), i+contextLines+1)
		for j := lo; j < hi; j++ {
			keep[j] = true
		}
	}

	var groups [][]diffLine
	var cur []diffLine
	for i, l := range lines {
		if !keep[i] {
			if len(cur) > 0 {
				groups = append(groups, cur)
				cur = nil
			}
			continue
		}
		cur = append(cur, l)
	}
	if len(cur) > 0 {
		groups = append(groups, cur)
	}
	return groups
}
