package literal

import (
	"fmt"
	"strconv"
	"strings"
)

// MalformedArgumentError reports source text that does not conform to the
// literal grammar.
type MalformedArgumentError struct {
	Input  string
	Offset int
	Reason string
}

func (e *MalformedArgumentError) Error() string {
	return fmt.Sprintf("malformed argument list %q: %s at offset %d", e.Input, e.Reason, e.Offset)
}

// ParseArgs parses a comma separated list of literals, the text between the
// outer parentheses of a step reference. An empty or blank input yields an
// empty list. A trailing comma after the last argument is accepted.
func ParseArgs(src string) ([]Value, error) {
	p := &parser{src: src}
	p.skipSpace()
	var args []Value
	for !p.eof() {
		v, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		args = append(args, v)
		p.skipSpace()
		if p.eof() {
			break
		}
		if !p.consume(',') {
			return nil, p.errorf("expected ',' between arguments")
		}
		p.skipSpace()
	}
	return args, nil
}

// ParseOne parses exactly one literal value with no trailing content.
func ParseOne(src string) (Value, error) {
	p := &parser{src: src}
	p.skipSpace()
	if p.eof() {
		return Value{}, p.errorf("empty literal")
	}
	v, err := p.parseValue()
	if err != nil {
		return Value{}, err
	}
	p.skipSpace()
	if !p.eof() {
		return Value{}, p.errorf("unexpected trailing content")
	}
	return v, nil
}

type parser struct {
	src string
	pos int
}

func (p *parser) errorf(format string, args ...any) error {
	return &MalformedArgumentError{
		Input:  p.src,
		Offset: p.pos,
		Reason: fmt.Sprintf(format, args...),
	}
}

func (p *parser) eof() bool { return p.pos >= len(p.src) }

func (p *parser) peek() byte {
	if p.eof() {
		return 0
	}
	return p.src[p.pos]
}

func (p *parser) consume(c byte) bool {
	if !p.eof() && p.src[p.pos] == c {
		p.pos++
		return true
	}
	return false
}

func (p *parser) skipSpace() {
	for !p.eof() {
		switch p.src[p.pos] {
		case ' ', '\t', '\n', '\r':
			p.pos++
		default:
			return
		}
	}
}

func (p *parser) parseValue() (Value, error) {
	p.skipSpace()
	if p.eof() {
		return Value{}, p.errorf("unexpected end of input")
	}
	switch c := p.peek(); {
	case c == '\'' || c == '"':
		return p.parseString()
	case c == '[':
		return p.parseList()
	case c == '{':
		return p.parseMap()
	case c == '-' || c == '+' || c >= '0' && c <= '9' || c == '.':
		return p.parseNumber()
	case isWordStart(c):
		return p.parseKeyword()
	default:
		return Value{}, p.errorf("unexpected character %q", string(c))
	}
}

func (p *parser) parseString() (Value, error) {
	quote := p.src[p.pos]
	p.pos++
	var sb strings.Builder
	for {
		if p.eof() {
			return Value{}, p.errorf("unterminated string")
		}
		c := p.src[p.pos]
		switch c {
		case quote:
			p.pos++
			return StringVal(sb.String()), nil
		case '\\':
			p.pos++
			if p.eof() {
				return Value{}, p.errorf("unterminated string escape")
			}
			esc := p.src[p.pos]
			switch esc {
			case '\\', '\'', '"':
				sb.WriteByte(esc)
			case 'n':
				sb.WriteByte('\n')
			case 't':
				sb.WriteByte('\t')
			case 'r':
				sb.WriteByte('\r')
			case '0':
				sb.WriteByte(0)
			default:
				return Value{}, p.errorf("unsupported escape %q", "\\"+string(esc))
			}
			p.pos++
		default:
			sb.WriteByte(c)
			p.pos++
		}
	}
}

func (p *parser) parseNumber() (Value, error) {
	start := p.pos
	if c := p.peek(); c == '-' || c == '+' {
		p.pos++
	}
	digits := 0
	for !p.eof() && isDigit(p.src[p.pos]) {
		p.pos++
		digits++
	}
	isFloat := false
	if p.consume('.') {
		isFloat = true
		for !p.eof() && isDigit(p.src[p.pos]) {
			p.pos++
			digits++
		}
	}
	if digits == 0 {
		p.pos = start
		return Value{}, p.errorf("malformed number")
	}
	if c := p.peek(); c == 'e' || c == 'E' {
		isFloat = true
		p.pos++
		if c := p.peek(); c == '-' || c == '+' {
			p.pos++
		}
		expDigits := 0
		for !p.eof() && isDigit(p.src[p.pos]) {
			p.pos++
			expDigits++
		}
		if expDigits == 0 {
			return Value{}, p.errorf("malformed exponent")
		}
	}
	text := p.src[start:p.pos]
	if isFloat {
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return Value{}, p.errorf("invalid float %q", text)
		}
		return FloatVal(f), nil
	}
	i, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return Value{}, p.errorf("invalid integer %q", text)
	}
	return IntVal(i), nil
}

// parseKeyword accepts the boolean and null keywords in both their
// Python-style and lowercase spellings. Any other bare word is rejected,
// which is what keeps identifiers and function calls out of the grammar.
func (p *parser) parseKeyword() (Value, error) {
	start := p.pos
	for !p.eof() && isWordChar(p.src[p.pos]) {
		p.pos++
	}
	word := p.src[start:p.pos]
	switch word {
	case "True", "true":
		return BoolVal(true), nil
	case "False", "false":
		return BoolVal(false), nil
	case "None", "null":
		return NullVal(), nil
	}
	p.pos = start
	return Value{}, p.errorf("%q is not a literal; only strings, numbers, booleans, null, lists and maps are supported", word)
}

func (p *parser) parseList() (Value, error) {
	p.pos++ // consume '['
	var elems []Value
	p.skipSpace()
	for {
		if p.eof() {
			return Value{}, p.errorf("unterminated list")
		}
		if p.consume(']') {
			return ListVal(elems...), nil
		}
		v, err := p.parseValue()
		if err != nil {
			return Value{}, err
		}
		elems = append(elems, v)
		p.skipSpace()
		if p.consume(',') {
			p.skipSpace()
			continue
		}
		if !p.consume(']') {
			return Value{}, p.errorf("expected ',' or ']' in list")
		}
		return ListVal(elems...), nil
	}
}

func (p *parser) parseMap() (Value, error) {
	p.pos++ // consume '{'
	var entries []MapEntry
	seen := map[string]struct{}{}
	p.skipSpace()
	for {
		if p.eof() {
			return Value{}, p.errorf("unterminated map")
		}
		if p.consume('}') {
			return MapVal(entries...), nil
		}
		keyVal, err := p.parseValue()
		if err != nil {
			return Value{}, err
		}
		key, ok := keyVal.keyString()
		if !ok {
			return Value{}, p.errorf("%s is not usable as a map key", keyVal.Kind())
		}
		if _, dup := seen[key]; dup {
			return Value{}, p.errorf("duplicate map key %q", key)
		}
		seen[key] = struct{}{}
		p.skipSpace()
		if !p.consume(':') {
			return Value{}, p.errorf("expected ':' after map key")
		}
		v, err := p.parseValue()
		if err != nil {
			return Value{}, err
		}
		entries = append(entries, MapEntry{Key: key, Value: v})
		p.skipSpace()
		if p.consume(',') {
			p.skipSpace()
			continue
		}
		if !p.consume('}') {
			return Value{}, p.errorf("expected ',' or '}' in map")
		}
		return MapVal(entries...), nil
	}
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isWordStart(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c == '_'
}

func isWordChar(c byte) bool {
	return isWordStart(c) || isDigit(c)
}
