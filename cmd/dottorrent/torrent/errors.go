package torrent

import (
	"errors"
	"fmt"

	"github.com/dottorrent/dottorrent/cmd/dottorrent/bencode"
)

var (
	ErrMissingField        = errors.New("missing required field")
	ErrTypeMismatch        = errors.New("type mismatch")
	ErrInvalidPieceBuffer  = errors.New("pieces length is not a multiple of 20")
	ErrAmbiguousFileLayout = errors.New("both length and files are present")
	ErrInvalidValue        = errors.New("invalid value")
	ErrIndexOutOfRange     = errors.New("piece index out of range")
)

// FieldError reports well-formed bencode that does not fit the metainfo
// schema. Field is a dotted path such as "info.files[2].length"; it is
// empty when the root value itself is wrong.
type FieldError struct {
	Field string
	// Expected is set when Err is ErrTypeMismatch.
	Expected bencode.Kind
	Err      error
}

func (e *FieldError) Error() string {
	field := e.Field
	if field == "" {
		field = "(root)"
	}
	if errors.Is(e.Err, ErrTypeMismatch) {
		return fmt.Sprintf("torrent: %s: %v, expected %s", field, e.Err, e.Expected)
	}
	return fmt.Sprintf("torrent: %s: %v", field, e.Err)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}
