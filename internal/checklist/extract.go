// Package checklist reads GFM task lists out of markdown notes and renders
// carried-over task fragments.
package checklist

import (
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
)

// PlaceholderText is the stub the notes editor inserts for a fresh task.
const PlaceholderText = "New task"

const carryOverLabel = "**Carried over**"

// Item is one task. Text is the plain label; Source keeps the label's
// markdown (links, code spans, emphasis) as written.
type Item struct {
	Text    string
	Source  string
	Checked bool
}

var (
	md         = goldmark.New(goldmark.WithExtensions(extension.TaskList))
	checkboxRe = regexp.MustCompile(`^\[[ xX]\]\s*`)
)

// Items returns every task list item in document order. Empty items and
// placeholder stubs are skipped.
func Items(content string) (items []Item) {
	if strings.TrimSpace(content) == "" {
		return nil
	}
	defer func() {
		if r := recover(); r != nil {
			items = nil
		}
	}()

	src := []byte(content)
	doc := md.Parser().Parse(text.NewReader(src))
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering || n.Kind() != east.KindTaskCheckBox {
			return ast.WalkContinue, nil
		}
		box := n.(*east.TaskCheckBox)
		var b strings.Builder
		for sib := box.NextSibling(); sib != nil; sib = sib.NextSibling() {
			writeInline(&b, sib, src)
		}
		label := strings.Join(strings.Fields(b.String()), " ")
		if label == "" || strings.EqualFold(label, PlaceholderText) {
			return ast.WalkSkipChildren, nil
		}
		source := rawSource(box.Parent(), src)
		if source == "" {
			source = label
		}
		items = append(items, Item{Text: label, Source: source, Checked: box.IsChecked})
		return ast.WalkSkipChildren, nil
	})
	return items
}

// UncheckedItems returns the text of every open task in content.
func UncheckedItems(content string) []string {
	out := make([]string, 0)
	for _, it := range OpenItems(content) {
		out = append(out, it.Text)
	}
	return out
}

// OpenItems returns the unchecked tasks in content.
func OpenItems(content string) []Item {
	out := make([]Item, 0)
	for _, it := range Items(content) {
		if !it.Checked {
			out = append(out, it)
		}
	}
	return out
}

// Progress counts checked and total task items.
func Progress(content string) (done, total int) {
	for _, it := range Items(content) {
		total++
		if it.Checked {
			done++
		}
	}
	return done, total
}

// rawSource returns the markdown of the block holding a checkbox, without the
// checkbox itself. Continuation lines are joined with a space.
func rawSource(block ast.Node, src []byte) string {
	if block == nil || block.Type() != ast.TypeBlock {
		return ""
	}
	lines := block.Lines()
	parts := make([]string, 0, lines.Len())
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		if line := strings.TrimSpace(string(seg.Value(src))); line != "" {
			parts = append(parts, line)
		}
	}
	raw := strings.Join(parts, " ")
	return strings.TrimSpace(checkboxRe.ReplaceAllString(raw, ""))
}

func writeInline(b *strings.Builder, n ast.Node, src []byte) {
	switch t := n.(type) {
	case *ast.Text:
		b.Write(t.Segment.Value(src))
		if t.SoftLineBreak() || t.HardLineBreak() {
			b.WriteByte(' ')
		}
		return
	case *ast.String:
		b.Write(t.Value)
		return
	case *ast.AutoLink:
		b.Write(t.Label(src))
		return
	}
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		writeInline(b, c, src)
	}
}
