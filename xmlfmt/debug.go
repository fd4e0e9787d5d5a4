package xmlfmt

import (
	"fmt"
	"strings"
)

// DebugTokens scans src from the beginning and returns a separator-joined
// dump of every recognized token's kind, with the trailing EndOfFile
// included. When detailed is true each entry also carries the token's
// offset and length. It never disturbs the receiver's own parse position:
// the scan runs over a fresh Tokenizer. This exists purely to help a test
// failure message or a debugging session show what the tokenizer actually
// saw.
func (thiz *Tokenizer) DebugTokens(separator string, detailed bool) string {
	scan := NewTokenizer(thiz.src)
	var parts []string
	for {
		t := scan.ParseNext()
		if detailed {
			parts = append(parts, fmt.Sprintf("%s(%d,%d)", t.Kind, t.Offset, t.Length))
		} else {
			parts = append(parts, t.Kind.String())
		}
		if t.Kind == EndOfFile {
			break
		}
	}
	return strings.Join(parts, separator)
}
