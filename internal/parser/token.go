package parser

import "fmt"

type tokenType uint8

const (
	eofToken tokenType = iota
	nullToken
	trueToken
	falseToken
	numberToken
	stringToken
	commaToken
	colonToken
	arrayOToken
	arrayCToken
	objectOToken
	objectCToken
)

// token is one lexeme. For strings text holds the decoded content, for
// numbers the literal as written.
type token struct {
	typ    tokenType
	text   string
	offset int
	// fraction or exponent present
	double bool
}

func (t token) String() string {
	switch t.typ {
	case eofToken:
		return "end of input"
	case nullToken:
		return "'null'"
	case trueToken:
		return "'true'"
	case falseToken:
		return "'false'"
	case numberToken:
		return "number " + t.text
	case stringToken:
		return fmt.Sprintf("string %q", t.text)
	case commaToken:
		return "','"
	case colonToken:
		return "':'"
	case arrayOToken:
		return "'['"
	case arrayCToken:
		return "']'"
	case objectOToken:
		return "'{'"
	case objectCToken:
		return "'}'"
	default:
		return "unknown token"
	}
}

// startsValue reports whether t can begin a JSON value.
func (t token) startsValue() bool {
	switch t.typ {
	case nullToken, trueToken, falseToken, numberToken, stringToken, arrayOToken, objectOToken:
		return true
	}
	return false
}
