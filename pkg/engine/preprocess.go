package engine

import "strings"

// kwPrefix marks keyword tokens after preprocessing: :grain reads as the
// string "__kw_grain".
const kwPrefix = "__kw_"

// preprocessSource rewrites Kerf source into a form zygomys accepts.
//
//   - :keyword becomes "__kw_keyword", so keywords never need globals that
//     could shadow user variables.
//   - butt-joint becomes butt_joint; zygomys reads a hyphen as minus.
//   - ; comments become // comments.
//
// String literals pass through untouched.
func preprocessSource(source string) string {
	r := &rewriter{src: source}
	r.out.Grow(len(source) + len(source)/4)
	for r.pos < len(r.src) {
		c := r.src[r.pos]
		switch {
		case c == '"':
			r.quoted('"', true)
		case c == '`':
			r.quoted('`', false)
		case c == ';':
			r.comment()
		case c == ':' && r.peek(1) == '=':
			r.copy(2)
		case c == ':' && isLetter(r.peek(1)):
			r.keyword()
		case c == '-' && r.pos > 0 && isIdentChar(r.src[r.pos-1]) && isLetter(r.peek(1)):
			r.out.WriteByte('_')
			r.pos++
		default:
			r.copy(1)
		}
	}
	return r.out.String()
}

type rewriter struct {
	src string
	pos int
	out strings.Builder
}

// peek returns the byte off positions ahead, or 0 past the end.
func (r *rewriter) peek(off int) byte {
	if r.pos+off < len(r.src) {
		return r.src[r.pos+off]
	}
	return 0
}

func (r *rewriter) copy(n int) {
	end := min(r.pos+n, len(r.src))
	r.out.WriteString(r.src[r.pos:end])
	r.pos = end
}

// quoted copies a literal up to and including its closing delimiter.
func (r *rewriter) quoted(delim byte, escapes bool) {
	r.copy(1)
	for r.pos < len(r.src) && r.src[r.pos] != delim {
		if escapes && r.src[r.pos] == '\\' {
			r.copy(2)
			continue
		}
		r.copy(1)
	}
	r.copy(1)
}

func (r *rewriter) comment() {
	r.out.WriteString("//")
	for r.pos < len(r.src) && r.src[r.pos] == ';' {
		r.pos++
	}
	n := strings.IndexByte(r.src[r.pos:], '\n')
	if n < 0 {
		n = len(r.src) - r.pos
	}
	r.copy(n)
}

func (r *rewriter) keyword() {
	end := r.pos + 1
	for end < len(r.src) && isKWChar(r.src[end]) {
		end++
	}
	r.out.WriteString(`"` + kwPrefix + r.src[r.pos+1:end] + `"`)
	r.pos = end
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '_'
}

func isKWChar(c byte) bool {
	return isIdentChar(c) || c == '-'
}
