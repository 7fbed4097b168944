package parser

import (
	"fmt"
	"strings"
	"unicode/utf16"
	"unicode/utf8"
)

// lexer is a pull scanner over a complete input buffer. After returning an
// error it must not be used again.
type lexer struct {
	data []byte
	pos  int
}

func newLexer(data []byte) *lexer {
	return &lexer{data: data}
}

func (l *lexer) skipWhitespace() {
	for l.pos < len(l.data) {
		switch l.data[l.pos] {
		case ' ', '\t', '\n', '\r':
			l.pos++
		default:
			return
		}
	}
}

// next returns the following token, or eofToken once the input is consumed.
func (l *lexer) next() (token, error) {
	l.skipWhitespace()
	if l.pos >= len(l.data) {
		return token{typ: eofToken, offset: l.pos}, nil
	}
	start := l.pos
	switch c := l.data[l.pos]; c {
	case '{', '}', '[', ']', ',', ':':
		l.pos++
		return token{typ: punctuation[c], offset: start}, nil
	case '"':
		return l.lexString()
	case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		return l.lexNumber()
	case 'n':
		return l.lexLiteral("null", nullToken)
	case 't':
		return l.lexLiteral("true", trueToken)
	case 'f':
		return l.lexLiteral("false", falseToken)
	default:
		r, _ := utf8.DecodeRune(l.data[l.pos:])
		return token{}, l.errorf(start, "invalid character %q looking for beginning of value", r)
	}
}

var punctuation = map[byte]tokenType{
	'{': objectOToken,
	'}': objectCToken,
	'[': arrayOToken,
	']': arrayCToken,
	',': commaToken,
	':': colonToken,
}

func (l *lexer) lexLiteral(word string, typ tokenType) (token, error) {
	start := l.pos
	if !strings.HasPrefix(string(l.data[l.pos:min(len(l.data), l.pos+len(word))]), word) {
		end := start
		for end < len(l.data) && isLetter(l.data[end]) {
			end++
		}
		return token{}, l.errorf(start, "invalid literal %q", string(l.data[start:max(end, start+1)]))
	}
	l.pos += len(word)
	return token{typ: typ, offset: start}, nil
}

func (l *lexer) lexNumber() (token, error) {
	start := l.pos
	if l.data[l.pos] == '-' {
		l.pos++
	}
	switch {
	case l.pos < len(l.data) && l.data[l.pos] == '0':
		l.pos++
		if l.pos < len(l.data) && isDigit(l.data[l.pos]) {
			return token{}, l.errorf(l.pos, "invalid number: leading zero")
		}
	case l.pos < len(l.data) && isDigit(l.data[l.pos]):
		l.skipDigits()
	default:
		return token{}, l.errorf(l.pos, "invalid number: expected digit after '-'")
	}
	double := false
	if l.pos < len(l.data) && l.data[l.pos] == '.' {
		double = true
		l.pos++
		if l.pos >= len(l.data) || !isDigit(l.data[l.pos]) {
			return token{}, l.errorf(l.pos, "invalid number: expected digit after decimal point")
		}
		l.skipDigits()
	}
	if l.pos < len(l.data) && (l.data[l.pos] == 'e' || l.data[l.pos] == 'E') {
		double = true
		l.pos++
		if l.pos < len(l.data) && (l.data[l.pos] == '+' || l.data[l.pos] == '-') {
			l.pos++
		}
		if l.pos >= len(l.data) || !isDigit(l.data[l.pos]) {
			return token{}, l.errorf(l.pos, "invalid number: expected digit in exponent")
		}
		l.skipDigits()
	}
	return token{
		typ:    numberToken,
		text:   string(l.data[start:l.pos]),
		offset: start,
		double: double,
	}, nil
}

func (l *lexer) skipDigits() {
	for l.pos < len(l.data) && isDigit(l.data[l.pos]) {
		l.pos++
	}
}

func (l *lexer) lexString() (token, error) {
	start := l.pos
	l.pos++ // opening quote

	// fast path: no escapes
	for i := l.pos; i < len(l.data); i++ {
		c := l.data[i]
		if c == '"' {
			s := l.data[l.pos:i]
			l.pos = i + 1
			return token{typ: stringToken, text: validUTF8(string(s)), offset: start}, nil
		}
		if c == '\\' || c < 0x20 {
			break
		}
	}

	var b strings.Builder
	for l.pos < len(l.data) {
		c := l.data[l.pos]
		switch {
		case c == '"':
			l.pos++
			return token{typ: stringToken, text: validUTF8(b.String()), offset: start}, nil
		case c < 0x20:
			return token{}, l.errorf(l.pos, "invalid control character %U in string", rune(c))
		case c == '\\':
			if err := l.lexEscape(&b); err != nil {
				return token{}, err
			}
		default:
			b.WriteByte(c)
			l.pos++
		}
	}
	return token{}, l.errorf(start, "unterminated string")
}

// lexEscape decodes one escape sequence starting at the backslash.
func (l *lexer) lexEscape(b *strings.Builder) error {
	at := l.pos
	l.pos++
	if l.pos >= len(l.data) {
		return l.errorf(at, "unterminated escape sequence")
	}
	c := l.data[l.pos]
	l.pos++
	switch c {
	case '"', '\\', '/':
		b.WriteByte(c)
	case 'b':
		b.WriteByte('\b')
	case 'f':
		b.WriteByte('\f')
	case 'n':
		b.WriteByte('\n')
	case 'r':
		b.WriteByte('\r')
	case 't':
		b.WriteByte('\t')
	case 'u':
		r, err := l.lexHex4(at)
		if err != nil {
			return err
		}
		if utf16.IsSurrogate(r) {
			r = l.lexLowSurrogate(r)
		}
		b.WriteRune(r)
	default:
		return l.errorf(at, "invalid escape sequence \\%c", c)
	}
	return nil
}

// lexLowSurrogate combines hi with a directly following \uXXXX low
// surrogate. Unpaired surrogates decode to U+FFFD.
func (l *lexer) lexLowSurrogate(hi rune) rune {
	if hi >= 0xDC00 {
		return utf8.RuneError
	}
	if l.pos+6 > len(l.data) || l.data[l.pos] != '\\' || l.data[l.pos+1] != 'u' {
		return utf8.RuneError
	}
	save := l.pos
	l.pos += 2
	lo, err := l.lexHex4(save)
	if err != nil {
		l.pos = save
		return utf8.RuneError
	}
	r := utf16.DecodeRune(hi, lo)
	if r == utf8.RuneError {
		// not a low surrogate; let the caller decode it on its own
		l.pos = save
	}
	return r
}

func (l *lexer) lexHex4(at int) (rune, error) {
	if l.pos+4 > len(l.data) {
		return 0, l.errorf(at, "invalid unicode escape: need 4 hex digits")
	}
	var r rune
	for _, c := range l.data[l.pos : l.pos+4] {
		var d byte
		switch {
		case c >= '0' && c <= '9':
			d = c - '0'
		case c >= 'a' && c <= 'f':
			d = c - 'a' + 10
		case c >= 'A' && c <= 'F':
			d = c - 'A' + 10
		default:
			return 0, l.errorf(at, "invalid unicode escape: %q is not a hex digit", c)
		}
		r = r<<4 | rune(d)
	}
	l.pos += 4
	return r, nil
}

func (l *lexer) errorf(offset int, format string, args ...any) *ParseError {
	return newParseError(l.data, offset, fmt.Sprintf(format, args...))
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isLetter(c byte) bool { return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' }

func validUTF8(s string) string {
	if utf8.ValidString(s) {
		return s
	}
	return strings.ToValidUTF8(s, "\uFFFD")
}
