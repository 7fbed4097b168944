package parser

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"math/big"
	"os"
	"strconv"
	"strings"

	"github.com/mcncl/jsonast/internal/errors"
	"github.com/mcncl/jsonast/internal/models"
)

// MaxDepth bounds the nesting of arrays and objects.
const MaxDepth = 10000

// parser builds a value tree from the lexer's tokens by recursive descent.
type parser struct {
	lex   *lexer
	depth int
}

// parse reads exactly one JSON value from data. Any non-whitespace content
// after it is an error.
func parse(data []byte) (models.Value, *ParseError) {
	p := &parser{lex: newLexer(data)}
	t, err := p.next()
	if err != nil {
		return models.Value{}, err
	}
	v, err := p.parseValue(t)
	if err != nil {
		return models.Value{}, err
	}
	t, err = p.next()
	if err != nil {
		return models.Value{}, err
	}
	if t.typ != eofToken {
		pe := newParseError(data, t.offset, fmt.Sprintf("unexpected %s after top-level value", t))
		if t.startsValue() {
			pe.cause = errors.ErrMultipleJSON
		}
		return models.Value{}, pe
	}
	return v, nil
}

func (p *parser) next() (token, *ParseError) {
	t, err := p.lex.next()
	if err != nil {
		return token{}, err.(*ParseError)
	}
	return t, nil
}

func (p *parser) errorf(t token, format string, args ...any) *ParseError {
	return newParseError(p.lex.data, t.offset, fmt.Sprintf(format, args...))
}

func (p *parser) parseValue(t token) (models.Value, *ParseError) {
	switch t.typ {
	case nullToken:
		return models.NullValue(), nil
	case trueToken:
		return models.BoolValue(true), nil
	case falseToken:
		return models.BoolValue(false), nil
	case stringToken:
		return models.StringValue(t.text), nil
	case numberToken:
		return p.parseNumber(t)
	case arrayOToken:
		return p.parseArray(t)
	case objectOToken:
		return p.parseObject(t)
	case eofToken:
		return models.Value{}, p.errorf(t, "unexpected end of input, expected value")
	default:
		return models.Value{}, p.errorf(t, "unexpected %s, expected value", t)
	}
}

// parseNumber turns a literal into an Int, or into a Double when it has a
// fraction or an exponent.
func (p *parser) parseNumber(t token) (models.Value, *ParseError) {
	if t.double {
		f, err := strconv.ParseFloat(t.text, 64)
		if err != nil || math.IsInf(f, 0) {
			return models.Value{}, p.errorf(t, "number %s out of range", t.text)
		}
		return models.DoubleValue(f), nil
	}
	n, ok := new(big.Int).SetString(t.text, 10)
	if !ok {
		return models.Value{}, p.errorf(t, "invalid integer %s", t.text)
	}
	return models.BigIntValue(n), nil
}

func (p *parser) enter(t token) *ParseError {
	p.depth++
	if p.depth > MaxDepth {
		return p.errorf(t, "exceeded max depth of %d", MaxDepth)
	}
	return nil
}

func (p *parser) parseArray(open token) (models.Value, *ParseError) {
	if err := p.enter(open); err != nil {
		return models.Value{}, err
	}
	defer func() { p.depth-- }()

	t, err := p.next()
	if err != nil {
		return models.Value{}, err
	}
	if t.typ == arrayCToken {
		return models.ArrayValue(), nil
	}
	var elems []models.Value
	for {
		v, err := p.parseValue(t)
		if err != nil {
			return models.Value{}, err
		}
		elems = append(elems, v)

		t, err = p.next()
		if err != nil {
			return models.Value{}, err
		}
		switch t.typ {
		case commaToken:
			if t, err = p.next(); err != nil {
				return models.Value{}, err
			}
		case arrayCToken:
			return models.ArrayValue(elems...), nil
		default:
			return models.Value{}, p.errorf(t, "unexpected %s, expected ',' or ']' after array element", t)
		}
	}
}

func (p *parser) parseObject(open token) (models.Value, *ParseError) {
	if err := p.enter(open); err != nil {
		return models.Value{}, err
	}
	defer func() { p.depth-- }()

	t, err := p.next()
	if err != nil {
		return models.Value{}, err
	}
	if t.typ == objectCToken {
		return models.ObjectValue(), nil
	}
	var fields []models.Field
	for {
		if t.typ != stringToken {
			return models.Value{}, p.errorf(t, "unexpected %s, expected string key", t)
		}
		name := t.text

		if t, err = p.next(); err != nil {
			return models.Value{}, err
		}
		if t.typ != colonToken {
			return models.Value{}, p.errorf(t, "unexpected %s, expected ':' after key %q", t, name)
		}

		if t, err = p.next(); err != nil {
			return models.Value{}, err
		}
		v, err := p.parseValue(t)
		if err != nil {
			return models.Value{}, err
		}
		fields = append(fields, models.F(name, v))

		if t, err = p.next(); err != nil {
			return models.Value{}, err
		}
		switch t.typ {
		case commaToken:
			if t, err = p.next(); err != nil {
				return models.Value{}, err
			}
		case objectCToken:
			return models.ObjectValue(fields...), nil
		default:
			return models.Value{}, p.errorf(t, "unexpected %s, expected ',' or '}' after value of %q", t, name)
		}
	}
}

// ParseBytes parses a complete JSON text.
func ParseBytes(data []byte) (models.Value, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return models.Value{}, errors.NewParsingError("input is empty or contains only whitespace", errors.ErrEmptyInput)
	}
	v, perr := parse(data)
	if perr != nil {
		if perr.cause == errors.ErrMultipleJSON {
			return models.Value{}, errors.NewParsingError("multiple JSON values found at the root", perr)
		}
		return models.Value{}, errors.NewParsingError("invalid JSON", perr)
	}
	return v, nil
}

// Parse reads r to the end and parses its content as one JSON value.
func Parse(reader io.Reader) (models.Value, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return models.Value{}, errors.NewInputError("failed to read input", err)
	}
	return ParseBytes(data)
}

// ParseString parses JSON from a string
func ParseString(jsonString string) (models.Value, error) {
	if strings.TrimSpace(jsonString) == "" {
		return models.Value{}, errors.NewInputError("input string is empty", errors.ErrEmptyInput)
	}
	return ParseBytes([]byte(jsonString))
}

// MustParse is like ParseString but panics on error. It is meant for
// literals in tests and examples.
func MustParse(jsonString string) models.Value {
	v, err := ParseString(jsonString)
	if err != nil {
		panic(err)
	}
	return v
}

// ParseFile parses JSON from a file path
func ParseFile(filePath string) (models.Value, error) {
	if strings.TrimSpace(filePath) == "" {
		return models.Value{}, errors.NewInputError("file path is empty", errors.ErrInvalidFilePath)
	}
	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return models.Value{}, errors.NewInputError(
				fmt.Sprintf("file '%s' not found", filePath),
				errors.ErrFileNotFound,
			)
		}
		return models.Value{}, errors.NewInputError(
			fmt.Sprintf("failed to open file '%s'", filePath),
			err,
		)
	}
	if len(data) == 0 {
		return models.Value{}, errors.NewInputError(
			fmt.Sprintf("input file '%s' is empty", filePath),
			errors.ErrFileEmpty,
		)
	}
	return ParseBytes(data)
}

// Valid reports whether data is a single valid JSON value.
func Valid(data []byte) bool {
	_, err := parse(data)
	return err == nil && len(bytes.TrimSpace(data)) > 0
}
