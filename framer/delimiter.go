package framer

import (
	"bytes"
	"fmt"

	"github.com/lduchosal/asyncsocket/errors"
)

// DelimiterFramer splits a byte stream on a single delimiter byte, producing
// messages of type string that include the trailing delimiter. It operates
// on raw bytes rather than decoding UTF-8 incrementally (spec §9, "Text
// framing vs. UTF-8", strategy (a)): the delimiter search never has to
// reason about split multi-byte runes, and the message text is only decoded
// to a string once a complete frame is known, which is safe for any
// single-byte delimiter including the default '\n'.
type DelimiterFramer struct {
	delimiter   byte
	maxUnframed int
	buf         []byte
}

// NewDelimiterFramer constructs a DelimiterFramer. maxUnframed is the number
// of bytes the framer will hold without observing a delimiter before
// reporting overflow; it must be positive.
func NewDelimiterFramer(delimiter byte, maxUnframed int) (*DelimiterFramer, error) {
	if maxUnframed <= 0 {
		return nil, errors.ErrConfig{Context: errors.ConfigContext{
			Field:  "maxUnframed",
			Reason: fmt.Sprintf("must be positive, got %d", maxUnframed),
		}}
	}
	return &DelimiterFramer{delimiter: delimiter, maxUnframed: maxUnframed}, nil
}

// Feed appends chunk to the internal buffer. It is a no-op for an empty
// chunk. If the buffer exceeds maxUnframed bytes and contains no delimiter,
// it returns ErrOverflow; the framer is then poisoned and must not be fed
// further.
func (f *DelimiterFramer) Feed(chunk []byte) error {
	if len(chunk) == 0 {
		return nil
	}
	f.buf = append(f.buf, chunk...)
	if len(f.buf) > f.maxUnframed && bytes.IndexByte(f.buf, f.delimiter) < 0 {
		return errors.ErrOverflow{Context: errors.OverflowContext{Limit: f.maxUnframed}}
	}
	return nil
}

// Next returns the next complete message (including its trailing delimiter)
// and true, or ("", false) if no delimiter is currently buffered. A
// delimiter at position 0 yields a valid one-character message (spec §9,
// open question: resolved as valid, matching the source's behavior).
func (f *DelimiterFramer) Next() (string, bool) {
	idx := bytes.IndexByte(f.buf, f.delimiter)
	if idx < 0 {
		return "", false
	}
	msg := string(f.buf[:idx+1])
	f.buf = f.buf[idx+1:]
	return msg, true
}
