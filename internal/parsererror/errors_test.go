package parsererror

import (
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseError(t *testing.T) {
	base := errors.New("bad number")

	err := &ParseError{Parser: "csv", Line: 4, Field: "amount", Value: "abc", Err: base}
	assert.Equal(t, "csv: line 4: failed to parse amount='abc': bad number", err.Error())
	assert.ErrorIs(t, err, base)

	noLine := &ParseError{Parser: "csv", Field: "date", Value: "x", Err: base}
	assert.Equal(t, "csv: failed to parse date='x': bad number", noLine.Error())

	var pe *ParseError
	assert.True(t, errors.As(error(err), &pe))
	assert.Equal(t, "amount", pe.Field)
}

func TestOtherErrors(t *testing.T) {
	v := &ValidationError{Subject: "--frequency", Reason: "expected MERCHANT=FREQUENCY"}
	assert.Contains(t, v.Error(), "--frequency")

	f := &InvalidFormatError{FilePath: "in.csv", ExpectedFormat: "date,description,amount", Msg: "missing header"}
	assert.Contains(t, f.Error(), "missing header")

	s := &StoreError{Op: "save", Key: "rules", Err: io.ErrShortWrite}
	assert.ErrorIs(t, s, io.ErrShortWrite)
	assert.Contains(t, s.Error(), `"rules"`)
}
