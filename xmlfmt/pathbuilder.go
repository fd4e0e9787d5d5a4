package xmlfmt

import (
	"strconv"
	"strings"
)

// PathMode selects which predicates CurrentPath includes for each path
// segment.
type PathMode uint32

const (
	// PathModeBasic includes only element names.
	PathModeBasic PathMode = 1 << iota
	// PathModeWithNamespace prefixes each segment with its namespace
	// alias, if the element name carries one (name contains ":").
	PathModeWithNamespace
	// PathModeWithNodeIndex appends "[n]" giving the 1-based index of
	// this element among same-named siblings at its depth.
	PathModeWithNodeIndex
	// PathModeKeepIdentityAttribute appends a `[name="value"]` predicate
	// for the first attribute on the element whose name is one of the
	// Formatter's Params.IdentityAttributes.
	PathModeKeepIdentityAttribute
)

// pathFrame tracks one currently-open element during a CurrentPath scan.
type pathFrame struct {
	name         string
	childIndex   map[string]int
	lastAttrName []byte
	identityName string
	identityVal  string
	identitySeen bool
}

// CurrentPath performs a scan-only walk of the source buffer from the
// beginning, independent of any in-progress PrettyPrint/Linearize run, and
// returns a "/"-separated path describing the innermost element open at
// byte offset pos. It never mutates thiz's formatting state.
func (thiz *Formatter) CurrentPath(pos int, mode PathMode) string {
	tz := NewTokenizer(thiz.src)
	var stack []pathFrame
	rootIndex := make(map[string]int)
	var result string

	childCounter := func() *map[string]int {
		if len(stack) == 0 {
			return &rootIndex
		}
		top := &stack[len(stack)-1]
		if top.childIndex == nil {
			top.childIndex = make(map[string]int)
		}
		return &top.childIndex
	}

	for {
		tok := tz.ParseNext()
		if tok.Kind == EndOfFile || tok.Offset > pos {
			break
		}
		switch tok.Kind {
		case TagOpening:
			name := string(tok.Bytes(thiz.src)[1:])
			counter := childCounter()
			(*counter)[name]++
			stack = append(stack, pathFrame{name: name})
		case AttrName:
			if len(stack) > 0 {
				stack[len(stack)-1].lastAttrName = tok.Bytes(thiz.src)
			}
		case AttrValue:
			if len(stack) > 0 && mode&PathModeKeepIdentityAttribute != 0 {
				top := &stack[len(stack)-1]
				if !top.identitySeen && isIdentityAttribute(thiz.params.IdentityAttributes, top.lastAttrName) {
					top.identitySeen = true
					top.identityName = string(top.lastAttrName)
					top.identityVal = string(trimQuotes(tok.Bytes(thiz.src)))
				}
			}
		case TagOpeningEnd, TagSelfClosingEnd:
			if tok.End() > pos {
				result = renderPath(stack, rootIndex, mode, thiz.params.DumpIdentityAttributeNames)
				return result
			}
			if tok.Kind == TagSelfClosingEnd && len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		case TagClosingEnd:
			if tok.End() > pos && len(stack) > 0 {
				return renderPath(stack, rootIndex, mode, thiz.params.DumpIdentityAttributeNames)
			}
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		}
		result = renderPath(stack, rootIndex, mode, thiz.params.DumpIdentityAttributeNames)
	}
	return result
}

func isIdentityAttribute(names []string, attrName []byte) bool {
	for _, n := range names {
		if n == string(attrName) {
			return true
		}
	}
	return false
}

func renderPath(stack []pathFrame, rootIndex map[string]int, mode PathMode, dumpNames bool) string {
	var b strings.Builder
	for i, fr := range stack {
		b.WriteByte('/')
		name := fr.name
		if mode&PathModeWithNamespace == 0 {
			if idx := strings.IndexByte(name, ':'); idx >= 0 {
				name = name[idx+1:]
			}
		}
		b.WriteString(name)
		if mode&PathModeWithNodeIndex != 0 {
			var counter map[string]int
			if i == 0 {
				counter = rootIndex
			} else {
				counter = stack[i-1].childIndex
			}
			n := counter[fr.name]
			if n == 0 {
				n = 1
			}
			b.WriteByte('[')
			b.WriteString(strconv.Itoa(n))
			b.WriteByte(']')
		}
		if mode&PathModeKeepIdentityAttribute != 0 && fr.identitySeen {
			b.WriteByte('[')
			if dumpNames {
				b.WriteString(fr.identityName)
				b.WriteByte('=')
			}
			b.WriteByte('"')
			b.WriteString(fr.identityVal)
			b.WriteByte('"')
			b.WriteByte(']')
		}
	}
	return b.String()
}
