package framer

import (
	"fmt"

	"github.com/lduchosal/asyncsocket/errors"
)

// LengthPrefixFramer splits a byte stream into messages prefixed by a
// fixed-width, big-endian, unsigned length header. Messages are raw byte
// slices of exactly the declared length; the header itself is not included.
type LengthPrefixFramer struct {
	headerSize     int
	maxMessageSize int
	buf            []byte
	// length is the decoded payload length once the header has been fully
	// buffered, or -1 if the header for the current message is not yet
	// available.
	length int64
}

// NewLengthPrefixFramer constructs a LengthPrefixFramer. headerSize is the
// prefix width in bytes (commonly 1, 2, 4, or 8, but any positive width is
// supported); maxMessageSize is the largest payload length that will be
// accepted. Both must be positive.
func NewLengthPrefixFramer(headerSize, maxMessageSize int) (*LengthPrefixFramer, error) {
	if headerSize <= 0 {
		return nil, errors.ErrConfig{Context: errors.ConfigContext{
			Field:  "headerSize",
			Reason: fmt.Sprintf("must be positive, got %d", headerSize),
		}}
	}
	if maxMessageSize <= 0 {
		return nil, errors.ErrConfig{Context: errors.ConfigContext{
			Field:  "maxMessageSize",
			Reason: fmt.Sprintf("must be positive, got %d", maxMessageSize),
		}}
	}
	return &LengthPrefixFramer{headerSize: headerSize, maxMessageSize: maxMessageSize, length: -1}, nil
}

// Feed appends raw bytes to the internal buffer. It is a no-op for an empty
// chunk. If no declared length is pending and headerSize bytes are
// available, the declared length is decoded immediately; a declared length of zero, or one exceeding
// maxMessageSize, is reported as ErrOverflow right away rather than waiting
// for Next, since the framer can never produce a valid message from it.
func (f *LengthPrefixFramer) Feed(chunk []byte) error {
	if len(chunk) == 0 {
		return nil
	}
	f.buf = append(f.buf, chunk...)
	if f.length < 0 && len(f.buf) >= f.headerSize {
		length, ok := decodeBigEndianLength(f.buf[:f.headerSize])
		if !ok || length == 0 || length > uint64(f.maxMessageSize) {
			return errors.ErrOverflow{Context: errors.OverflowContext{Limit: f.maxMessageSize}}
		}
		f.length = int64(length)
	}
	return nil
}

// Next returns the next complete payload and true, or (nil, false) if the
// header or the full payload is not yet buffered. Successive Next calls
// drain every complete message left over from a single Feed: a header that
// follows a drained message is decoded here. If that header declares an
// invalid length, Next returns (nil, false) and the next non-empty Feed
// reports ErrOverflow.
func (f *LengthPrefixFramer) Next() ([]byte, bool) {
	if f.length < 0 {
		if len(f.buf) < f.headerSize {
			return nil, false
		}
		length, ok := decodeBigEndianLength(f.buf[:f.headerSize])
		if !ok || length == 0 || length > uint64(f.maxMessageSize) {
			return nil, false
		}
		f.length = int64(length)
	}
	total := f.headerSize + int(f.length)
	if len(f.buf) < total {
		return nil, false
	}
	payload := make([]byte, f.length)
	copy(payload, f.buf[f.headerSize:total])
	f.buf = f.buf[total:]
	f.length = -1
	return payload, true
}

// decodeBigEndianLength decodes b as an unsigned big-endian integer. b may be
// longer than 8 bytes (an unusually wide header_size); any leading bytes
// beyond the low 8 must be zero or the value is reported as undecodable,
// since it cannot fit the lengths this framer can ever accept.
func decodeBigEndianLength(b []byte) (uint64, bool) {
	if len(b) > 8 {
		for _, v := range b[:len(b)-8] {
			if v != 0 {
				return 0, false
			}
		}
		b = b[len(b)-8:]
	}
	var v uint64
	for _, c := range b {
		v = v<<8 | uint64(c)
	}
	return v, true
}
