// Package printer renders JSON values as compact or indented text.
package printer

import (
	"bytes"
	"io"
	"math"
	"strconv"
	"strings"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/mcncl/jsonast/internal/models"
)

// DefaultIndent is the indent used by Pretty.
const DefaultIndent = "  "

// Options controls the rendering. An empty Indent renders compact output.
type Options struct {
	Indent        string
	EscapeUnicode bool
}

// Compact renders v with no insignificant whitespace.
//
// Nothing renders as the empty string, and Nothing elements and fields are
// left out of their container. Invalid UTF-8 in a string is written as
// U+FFFD. Parsing the output gives back v only when v holds neither.
func Compact(v models.Value) string {
	return Format(v, Options{})
}

// Pretty renders v indented by two spaces, one member per line.
func Pretty(v models.Value) string {
	return Format(v, Options{Indent: DefaultIndent})
}

// Format renders v according to opts, dropping Nothing and replacing
// invalid UTF-8 the same way Compact does.
func Format(v models.Value, opts Options) string {
	var buf bytes.Buffer
	p := &printer{buf: &buf, opts: opts}
	p.value(v, 0)
	return buf.String()
}

// Write renders v to w according to opts. Indented output ends with a
// newline.
func Write(w io.Writer, v models.Value, opts Options) error {
	var buf bytes.Buffer
	p := &printer{buf: &buf, opts: opts}
	p.value(v, 0)
	if opts.Indent != "" && buf.Len() > 0 {
		buf.WriteByte('\n')
	}
	_, err := w.Write(buf.Bytes())
	return err
}

type printer struct {
	buf  *bytes.Buffer
	opts Options
}

func (p *printer) pretty() bool { return p.opts.Indent != "" }

func (p *printer) newline(level int) {
	if !p.pretty() {
		return
	}
	p.buf.WriteByte('\n')
	for i := 0; i < level; i++ {
		p.buf.WriteString(p.opts.Indent)
	}
}

func (p *printer) value(v models.Value, level int) {
	switch v.Kind() {
	case models.Nothing:
	case models.Null:
		p.buf.WriteString("null")
	case models.Bool:
		b, _ := v.AsBool()
		p.buf.WriteString(strconv.FormatBool(b))
	case models.Int:
		n, _ := v.AsInt()
		p.buf.WriteString(n.String())
	case models.Double:
		f, _ := v.AsDouble()
		p.buf.WriteString(FormatDouble(f))
	case models.String:
		s, _ := v.AsString()
		p.str(s)
	case models.Array:
		p.array(v.Elems(), level)
	case models.Object:
		p.object(v.Fields(), level)
	}
}

func (p *printer) array(elems []models.Value, level int) {
	p.buf.WriteByte('[')
	n := 0
	for _, e := range elems {
		if e.IsNothing() {
			continue
		}
		if n > 0 {
			p.buf.WriteByte(',')
		}
		p.newline(level + 1)
		p.value(e, level+1)
		n++
	}
	if n > 0 {
		p.newline(level)
	}
	p.buf.WriteByte(']')
}

func (p *printer) object(fields []models.Field, level int) {
	p.buf.WriteByte('{')
	n := 0
	for _, f := range fields {
		if f.Value.IsNothing() {
			continue
		}
		if n > 0 {
			p.buf.WriteByte(',')
		}
		p.newline(level + 1)
		p.str(f.Name)
		p.buf.WriteByte(':')
		if p.pretty() {
			p.buf.WriteByte(' ')
		}
		p.value(f.Value, level+1)
		n++
	}
	if n > 0 {
		p.newline(level)
	}
	p.buf.WriteByte('}')
}

const hex = "0123456789abcdef"

func (p *printer) str(s string) {
	p.buf.WriteByte('"')
	for _, r := range s {
		switch {
		case r == '"':
			p.buf.WriteString(`\"`)
		case r == '\\':
			p.buf.WriteString(`\\`)
		case r == '\n':
			p.buf.WriteString(`\n`)
		case r == '\r':
			p.buf.WriteString(`\r`)
		case r == '\t':
			p.buf.WriteString(`\t`)
		case r == '\b':
			p.buf.WriteString(`\b`)
		case r == '\f':
			p.buf.WriteString(`\f`)
		case r < 0x20:
			p.escape(r)
		case r >= utf8.RuneSelf && p.opts.EscapeUnicode:
			if r > 0xFFFF {
				r1, r2 := utf16.EncodeRune(r)
				p.escape(r1)
				p.escape(r2)
			} else {
				p.escape(r)
			}
		default:
			p.buf.WriteRune(r)
		}
	}
	p.buf.WriteByte('"')
}

func (p *printer) escape(r rune) {
	p.buf.WriteString(`\u`)
	p.buf.WriteByte(hex[r>>12&0xF])
	p.buf.WriteByte(hex[r>>8&0xF])
	p.buf.WriteByte(hex[r>>4&0xF])
	p.buf.WriteByte(hex[r&0xF])
}

// FormatDouble renders f in its shortest form that still reads back as a
// Double: a fraction or exponent is always present. NaN and infinities have
// no JSON form and render as null.
func FormatDouble(f float64) string {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return "null"
	}
	abs := math.Abs(f)
	var s string
	if abs != 0 && (abs < 1e-6 || abs >= 1e21) {
		s = strconv.FormatFloat(f, 'e', -1, 64)
	} else {
		s = strconv.FormatFloat(f, 'f', -1, 64)
	}
	if !strings.ContainsAny(s, ".e") {
		s += ".0"
	}
	return s
}
