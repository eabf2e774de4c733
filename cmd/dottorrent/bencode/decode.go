package bencode

import (
	"errors"
	"fmt"
	"strconv"
)

// MaxDepth bounds how many lists and dictionaries may be nested inside each other.
const MaxDepth = 512

var (
	ErrMalformedInteger = errors.New("malformed integer")
	ErrMalformedLength  = errors.New("malformed string length")
	ErrUnexpectedEOF    = errors.New("unexpected end of input")
	ErrUnexpectedToken  = errors.New("unexpected token")
	ErrTrailingData     = errors.New("trailing data after value")
	ErrNestingTooDeep   = errors.New("nesting too deep")
	ErrDuplicateKey     = errors.New("duplicate dictionary key")
)

// SyntaxError describes malformed bencode input. Err is one of the Err* values above.
type SyntaxError struct {
	Offset int
	Err    error
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("bencode: %v at offset %d", e.Err, e.Offset)
}

func (e *SyntaxError) Unwrap() error {
	return e.Err
}

type decoder struct {
	data  []byte
	pos   int
	depth int
}

// Decode parses a single bencode value that must span all of data.
// Byte strings in the result are copied, so data may be reused afterwards.
func Decode(data []byte) (Value, error) {
	d := &decoder{data: data}

	v, err := d.value()
	if err != nil {
		return Value{}, err
	}
	if d.pos != len(d.data) {
		return Value{}, d.fail(ErrTrailingData)
	}
	return v, nil
}

func (d *decoder) fail(err error) error {
	return &SyntaxError{Offset: d.pos, Err: err}
}

func (d *decoder) value() (Value, error) {
	if d.pos >= len(d.data) {
		return Value{}, d.fail(ErrUnexpectedEOF)
	}

	switch c := d.data[d.pos]; {
	case isDigit(c):
		str, err := d.byteString()
		if err != nil {
			return Value{}, err
		}
		return Bytes(str), nil
	case c == 'i':
		n, err := d.integer()
		if err != nil {
			return Value{}, err
		}
		return Int(n), nil
	case c == 'l':
		return d.list()
	case c == 'd':
		return d.dictionary()
	default:
		return Value{}, d.fail(ErrUnexpectedToken)
	}
}

func (d *decoder) integer() (int64, error) {
	d.pos++ // 'i'
	start := d.pos

	for {
		if d.pos >= len(d.data) {
			return 0, d.fail(ErrUnexpectedEOF)
		}
		c := d.data[d.pos]
		if c == 'e' {
			break
		}
		if !isDigit(c) && (c != '-' || d.pos != start) {
			return 0, d.fail(ErrMalformedInteger)
		}
		d.pos++
	}

	digits := d.data[start:d.pos]
	if !canonicalInteger(digits) {
		return 0, &SyntaxError{Offset: start, Err: ErrMalformedInteger}
	}
	n, err := strconv.ParseInt(string(digits), 10, 64)
	if err != nil {
		return 0, &SyntaxError{Offset: start, Err: ErrMalformedInteger}
	}

	d.pos++ // 'e'
	return n, nil
}

func (d *decoder) byteString() ([]byte, error) {
	start := d.pos

	for {
		if d.pos >= len(d.data) {
			return nil, d.fail(ErrUnexpectedEOF)
		}
		c := d.data[d.pos]
		if c == ':' {
			break
		}
		if !isDigit(c) {
			return nil, d.fail(ErrMalformedLength)
		}
		d.pos++
	}

	digits := d.data[start:d.pos]
	if len(digits) > 1 && digits[0] == '0' {
		return nil, &SyntaxError{Offset: start, Err: ErrMalformedLength}
	}
	length, err := strconv.ParseUint(string(digits), 10, 64)
	if err != nil {
		return nil, &SyntaxError{Offset: start, Err: ErrMalformedLength}
	}

	d.pos++ // ':'
	if length > uint64(len(d.data)-d.pos) {
		return nil, d.fail(ErrUnexpectedEOF)
	}

	str := make([]byte, length)
	copy(str, d.data[d.pos:])
	d.pos += int(length)
	return str, nil
}

func (d *decoder) list() (Value, error) {
	if err := d.enter(); err != nil {
		return Value{}, err
	}
	defer d.leave()

	d.pos++ // 'l'
	items := make([]Value, 0)

	for {
		if d.pos >= len(d.data) {
			return Value{}, d.fail(ErrUnexpectedEOF)
		}
		if d.data[d.pos] == 'e' {
			d.pos++
			return List(items...), nil
		}

		item, err := d.value()
		if err != nil {
			return Value{}, err
		}
		items = append(items, item)
	}
}

// Keys are accepted in any order; duplicates are rejected.
func (d *decoder) dictionary() (Value, error) {
	if err := d.enter(); err != nil {
		return Value{}, err
	}
	defer d.leave()

	d.pos++ // 'd'
	entries := make(map[string]Value)

	for {
		if d.pos >= len(d.data) {
			return Value{}, d.fail(ErrUnexpectedEOF)
		}
		c := d.data[d.pos]
		if c == 'e' {
			d.pos++
			return Dict(entries), nil
		}
		if !isDigit(c) {
			return Value{}, d.fail(ErrUnexpectedToken)
		}

		keyOffset := d.pos
		key, err := d.byteString()
		if err != nil {
			return Value{}, err
		}
		if _, ok := entries[string(key)]; ok {
			return Value{}, &SyntaxError{Offset: keyOffset, Err: ErrDuplicateKey}
		}

		value, err := d.value()
		if err != nil {
			return Value{}, err
		}
		entries[string(key)] = value
	}
}

func (d *decoder) enter() error {
	d.depth++
	if d.depth > MaxDepth {
		return d.fail(ErrNestingTooDeep)
	}
	return nil
}

func (d *decoder) leave() {
	d.depth--
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

// canonicalInteger rejects empty digits, leading zeros and "-0".
func canonicalInteger(digits []byte) bool {
	if len(digits) > 0 && digits[0] == '-' {
		digits = digits[1:]
		if len(digits) == 1 && digits[0] == '0' {
			return false
		}
	}
	if len(digits) == 0 {
		return false
	}
	return len(digits) == 1 || digits[0] != '0'
}
