package loader

import (
	"errors"
	"strconv"

	"github.com/sarchlab/y86sim/translate"
)

var f = translate.From

var (
	// ErrMissingAddress reports a listing line with bytes but no address.
	ErrMissingAddress = errors.New(f("missing address"))
	// ErrBadAddress reports an address that is not a number.
	ErrBadAddress = errors.New(f("malformed address"))
	// ErrBadHex reports object bytes that are not an even run of hex digits.
	ErrBadHex = errors.New(f("malformed hex bytes"))
)

// ParseError describes a malformed line of an object listing.
type ParseError struct {
	Line int
	Err  error
}

func (err *ParseError) Error() string {
	return f("line %s: %v", strconv.Itoa(err.Line), err.Err)
}

func (err *ParseError) Unwrap() error {
	return err.Err
}
