package emit

import (
	"strings"
	"unicode"
)

// wrapDoc breaks text into comment lines no wider than width. Blank lines
// separate paragraphs; lines that start like list items are kept as separate
// entries.
func wrapDoc(text string, width int) []string {
	if width < 20 {
		width = 20
	}

	var out []string
	paras := splitParagraphs(text)
	for i, p := range paras {
		if i > 0 {
			out = append(out, "")
		}
		for _, item := range splitItems(p) {
			out = append(out, wrapWords(item, width)...)
		}
	}
	return out
}

func splitParagraphs(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	var paras []string
	var cur []string
	flush := func() {
		if len(cur) > 0 {
			paras = append(paras, strings.Join(cur, "\n"))
			cur = nil
		}
	}
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}
		cur = append(cur, line)
	}
	flush()
	return paras
}

// splitItems joins continuation lines, starting a new entry at each list item.
func splitItems(para string) []string {
	var items []string
	for _, line := range strings.Split(para, "\n") {
		trimmed := strings.TrimSpace(line)
		if len(items) == 0 || isListItem(trimmed) {
			items = append(items, trimmed)
			continue
		}
		items[len(items)-1] += " " + trimmed
	}
	return items
}

func isListItem(s string) bool {
	if strings.HasPrefix(s, "- ") || strings.HasPrefix(s, "* ") {
		return true
	}
	i := 0
	for i < len(s) && unicode.IsDigit(rune(s[i])) {
		i++
	}
	return i > 0 && i+1 < len(s) && s[i] == '.' && s[i+1] == ' '
}

func wrapWords(s string, width int) []string {
	words := strings.Fields(s)
	if len(words) == 0 {
		return nil
	}

	// list items keep a hanging indent on continuation lines
	hang := ""
	if isListItem(s) {
		hang = "  "
	}

	var lines []string
	cur := words[0]
	for _, w := range words[1:] {
		if len(cur)+1+len(w) > width {
			lines = append(lines, cur)
			cur = hang + w
			continue
		}
		cur += " " + w
	}
	return append(lines, cur)
}

// commentLines prefixes each line with "// ", leaving blank lines as "//".
func commentLines(lines []string) []string {
	out := make([]string, len(lines))
	for i, l := range lines {
		if l == "" {
			out[i] = "//"
		} else {
			out[i] = "// " + l
		}
	}
	return out
}
