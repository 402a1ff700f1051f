package checklist

import "strings"

// CarryOverItems renders the markdown source of items as an open task list.
func CarryOverItems(items []Item) string {
	sources := make([]string, 0, len(items))
	for _, it := range items {
		sources = append(sources, it.Source)
	}
	return CarryOverBlock(sources)
}

// CarryOverBlock renders items as an open task list under a label. It
// returns "" when there is nothing to carry.
func CarryOverBlock(items []string) string {
	if len(items) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(carryOverLabel)
	b.WriteString("\n\n")
	for i, it := range items {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString("- [ ] ")
		b.WriteString(it)
	}
	return b.String()
}

// Prepend places block ahead of content, keeping both.
func Prepend(block, content string) string {
	if block == "" {
		return content
	}
	if strings.TrimSpace(content) == "" {
		return block + "\n"
	}
	return block + "\n\n" + content
}
