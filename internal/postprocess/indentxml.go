package postprocess

import "github.com/PantelisAndrianakis/XmlCleanup/xmlfmt"

// Options mirrors the handful of knobs XmlCleanup exposes to callers of
// IndentXMLString, independent of the full xmlfmt.Params surface.
type Options struct {
	IndentChars            string
	EOLChars               string
	IndentOnly             bool
	AutoCloseEmptyElements bool
}

// DefaultOptions matches XmlIndenter's zero-argument constructor: tab
// indentation, "\n" internal line breaks, indent-only mode, auto-closing
// of empty elements.
func DefaultOptions() Options {
	return Options{
		IndentChars:            "\t",
		EOLChars:               "\n",
		IndentOnly:             true,
		AutoCloseEmptyElements: true,
	}
}

// IndentXMLString runs the complete pipeline described by spec.md §6:
// strip any content before the first "<", normalize line endings,
// pretty-print with xml:space="preserve" honored, then apply the
// cosmetic rewrite pass and a final line-ending normalization.
func IndentXMLString(xml string, opts Options) string {
	content := StripToFirstTag(xml)
	content = NormalizeLineEndings(content)

	params := xmlfmt.DefaultParams()
	params.IndentChars = opts.IndentChars
	params.EOLChars = opts.EOLChars
	params.MaxIndentLevel = 255
	params.EnsureConformity = true
	params.AutoCloseTags = opts.AutoCloseEmptyElements
	params.IndentAttributes = false
	params.IndentOnly = opts.IndentOnly
	params.ApplySpacePreserve = true

	f := xmlfmt.NewFormatter([]byte(content), params)
	formatted := string(f.PrettyPrint())

	return Apply(formatted)
}
