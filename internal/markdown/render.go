package markdown

import (
	"strconv"
	"strings"

	"github.com/dshills/richlist/internal/engine/model"
)

// Render writes doc as markdown. Top-level blocks are separated by a
// blank line. List items are tight; nested content is indented to the
// width of the item's marker, which is two spaces for bullet and todo
// items.
func Render(doc *model.Node) string {
	var b strings.Builder
	for i, child := range doc.Children() {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(renderBlock(child))
	}
	return b.String()
}

// renderBlock returns the markdown for one block, ending in a newline.
func renderBlock(n *model.Node) string {
	switch n.Type().Name {
	case "paragraph":
		lines := strings.Split(renderInline(n), "\n")
		for i, line := range lines {
			lines[i] = escapeLineStart(line)
		}
		return strings.Join(lines, "\n") + "\n"

	case "heading":
		level, _ := n.Attr("level").(int)
		if level < 1 {
			level = 1
		}
		return strings.Repeat("#", level) + " " + renderInline(n) + "\n"

	case "blockquote":
		var inner strings.Builder
		for i, child := range n.Children() {
			if i > 0 {
				inner.WriteString("\n")
			}
			inner.WriteString(renderBlock(child))
		}
		return prefixLines(inner.String(), "> ", ">")

	case "code_block":
		return "```\n" + n.TextContent() + "\n```\n"

	case "bullet_list", "ordered_list":
		return renderList(n)

	default:
		return renderInline(n) + "\n"
	}
}

func renderList(list *model.Node) string {
	ordered := list.Type().Name == "ordered_list"
	start, _ := list.Attr("order").(int)

	var b strings.Builder
	for i, item := range list.Children() {
		marker := "- "
		if ordered {
			marker = strconv.Itoa(start+i) + ". "
		}
		indent := strings.Repeat(" ", len(marker))

		head := marker
		if checked, ok := item.Attr("todoChecked").(bool); ok {
			if checked {
				head += "[x] "
			} else {
				head += "[ ] "
			}
		}

		var body strings.Builder
		for j, child := range item.Children() {
			if j > 0 && child.Type().Name != "bullet_list" && child.Type().Name != "ordered_list" {
				body.WriteString("\n")
			}
			body.WriteString(renderBlock(child))
		}

		lines := strings.Split(strings.TrimSuffix(body.String(), "\n"), "\n")
		b.WriteString(strings.TrimRight(head+lines[0], " "))
		b.WriteString("\n")
		for _, line := range lines[1:] {
			if line != "" {
				b.WriteString(indent)
			}
			b.WriteString(line)
			b.WriteString("\n")
		}
	}
	return b.String()
}

func renderInline(n *model.Node) string {
	var b strings.Builder
	for _, child := range n.Children() {
		if !child.IsText() {
			if child.Type().Name == "hard_break" {
				b.WriteString("\\\n")
			}
			continue
		}
		b.WriteString(wrapMarks(child.Text(), child.Marks()))
	}
	return b.String()
}

// wrapMarks applies mark delimiters from the innermost (code) outward.
func wrapMarks(text string, marks []model.Mark) string {
	has := make(map[string]model.Mark, len(marks))
	for _, m := range marks {
		has[m.Type().Name] = m
	}

	if _, ok := has["code"]; ok {
		text = codeSpan(text)
	} else {
		text = escaper.Replace(text)
	}
	if _, ok := has["strike"]; ok {
		text = "~~" + text + "~~"
	}
	if _, ok := has["italic"]; ok {
		text = "*" + text + "*"
	}
	if _, ok := has["bold"]; ok {
		text = "**" + text + "**"
	}
	if m, ok := has["link"]; ok {
		href, _ := m.Attr("href").(string)
		text = "[" + text + "](" + href + ")"
	}
	return text
}

var escaper = strings.NewReplacer(
	`\`, `\\`,
	"*", `\*`,
	"_", `\_`,
	"`", "\\`",
	"[", `\[`,
	"]", `\]`,
	"~", `\~`,
)

// codeSpan fences text with one backtick more than its longest backtick
// run. Text that starts or ends with a backtick, or with a space on both
// sides, gets one padding space per side, which parsing strips again.
func codeSpan(text string) string {
	longest, run := 0, 0
	for _, r := range text {
		if r == '`' {
			run++
			longest = max(longest, run)
		} else {
			run = 0
		}
	}
	fence := strings.Repeat("`", longest+1)
	pad := strings.HasPrefix(text, "`") || strings.HasSuffix(text, "`") ||
		(len(text) > 1 && text[0] == ' ' && text[len(text)-1] == ' ' && strings.Trim(text, " ") != "")
	if pad {
		return fence + " " + text + " " + fence
	}
	return fence + text + fence
}

// escapeLineStart keeps a line of paragraph text from being read back as a
// heading, quote or list marker.
func escapeLineStart(s string) string {
	if s == "" {
		return s
	}
	switch s[0] {
	case '#', '>', '-', '+':
		return `\` + s
	}
	// An ordered marker is one to nine digits followed by '.' or ')'.
	digits := 0
	for digits < len(s) && digits < 10 && s[digits] >= '0' && s[digits] <= '9' {
		digits++
	}
	if digits > 0 && digits <= 9 && digits < len(s) && (s[digits] == '.' || s[digits] == ')') {
		return s[:digits] + `\` + s[digits:]
	}
	return s
}

func prefixLines(s, prefix, blank string) string {
	lines := strings.Split(strings.TrimSuffix(s, "\n"), "\n")
	var b strings.Builder
	for _, line := range lines {
		if line == "" {
			b.WriteString(blank)
		} else {
			b.WriteString(prefix + line)
		}
		b.WriteString("\n")
	}
	return b.String()
}
