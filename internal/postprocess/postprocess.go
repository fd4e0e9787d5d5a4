// Package postprocess applies the cosmetic rewrite pass that runs after
// pretty-printing: comment spacing, self-closing tag spacing, and line
// ending normalization. It never re-parses XML structure; every step is a
// literal byte/string rewrite over the formatter's output.
package postprocess

import "strings"

// StripToFirstTag discards any content before the first "<" byte, so a
// BOM or stray leading text never reaches the tokenizer.
func StripToFirstTag(content string) string {
	idx := strings.IndexByte(content, '<')
	if idx < 0 {
		return content
	}
	return content[idx:]
}

// NormalizeLineEndings rewrites every line break in content to "\r\n":
// a lone "\r" not already followed by "\n" is expanded, and every "\n"
// not already preceded by "\r" is preceded by one.
func NormalizeLineEndings(content string) string {
	var withCR strings.Builder
	withCR.Grow(len(content))
	for i := 0; i < len(content); i++ {
		c := content[i]
		if c == '\r' && (i+1 >= len(content) || content[i+1] != '\n') {
			withCR.WriteString("\r\n")
			continue
		}
		withCR.WriteByte(c)
	}
	normalized := withCR.String()

	var out strings.Builder
	out.Grow(len(normalized) + len(normalized)/10)
	for i := 0; i < len(normalized); i++ {
		c := normalized[i]
		if c == '\n' && (i == 0 || normalized[i-1] != '\r') {
			out.WriteString("\r\n")
			continue
		}
		out.WriteByte(c)
	}
	return out.String()
}

// FormatSingleLineComments rewrites every "<!-- ... -->" comment that
// contains no line break: leading/trailing spaces around its content are
// trimmed, internal runs of spaces are collapsed to one, and exactly one
// space is left just inside each delimiter. Multi-line comments are left
// untouched.
func FormatSingleLineComments(xml string) string {
	var out strings.Builder
	out.Grow(len(xml))
	pos := 0
	for {
		start := strings.Index(xml[pos:], "<!--")
		if start < 0 {
			out.WriteString(xml[pos:])
			break
		}
		start += pos
		out.WriteString(xml[pos:start])

		end := strings.Index(xml[start:], "-->")
		if end < 0 {
			out.WriteString(xml[start:])
			break
		}
		end += start

		commentText := xml[start : end+3]
		if strings.ContainsAny(commentText, "\r\n") {
			out.WriteString(commentText)
			pos = end + 3
			continue
		}

		content := strings.Trim(xml[start+4:end], " ")
		out.WriteString(rewriteComment(collapseSpaces(content)))
		pos = end + 3
	}
	return out.String()
}

func collapseSpaces(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	lastWasSpace := false
	for i := 0; i < len(s); i++ {
		if s[i] == ' ' {
			if !lastWasSpace {
				b.WriteByte(' ')
				lastWasSpace = true
			}
			continue
		}
		b.WriteByte(s[i])
		lastWasSpace = false
	}
	return b.String()
}

func rewriteComment(content string) string {
	if content == "" {
		return "<!-- -->"
	}
	return "<!-- " + content + " -->"
}

// SpaceSelfClosingTags ensures a space precedes every "/>": one is
// inserted after a quote or any other non-space byte, and a space that is
// already there is left as it is. "</>" becomes "< />".
func SpaceSelfClosingTags(xml string) string {
	xml = strings.ReplaceAll(xml, "\"/>", "\" />")
	xml = strings.ReplaceAll(xml, "</>", "< />")

	var out strings.Builder
	out.Grow(len(xml))
	pos := 0
	for {
		idx := strings.Index(xml[pos:], "/>")
		if idx < 0 {
			out.WriteString(xml[pos:])
			break
		}
		idx += pos
		out.WriteString(xml[pos:idx])
		if idx > 0 && xml[idx-1] != ' ' && xml[idx-1] != '"' {
			out.WriteByte(' ')
		}
		out.WriteString("/>")
		pos = idx + 2
	}
	return out.String()
}

// SpaceCommentsAfterTag inserts a single space between a tag's closing
// ">" and an immediately following comment, whether or not a tab
// originally separated them.
func SpaceCommentsAfterTag(xml string) string {
	xml = strings.ReplaceAll(xml, ">\t<!--", "> <!--")
	xml = strings.ReplaceAll(xml, "><!--", "> <!--")
	return xml
}

// Apply runs the full cosmetic pass over already pretty-printed XML, in
// the fixed order: comment-after-tag spacing, self-closing tag spacing,
// single-line comment reflow, then a final line-ending normalization.
func Apply(prettyPrinted string) string {
	result := SpaceCommentsAfterTag(prettyPrinted)
	result = SpaceSelfClosingTags(result)
	result = FormatSingleLineComments(result)
	result = NormalizeLineEndings(result)
	return result
}
