package classfile

import (
	"encoding/binary"
	"fmt"
)

// cursor is a sequential big-endian reader over a fixed byte buffer.
// Every read is bounds-checked; running past the end of the buffer is
// the only failure mode.
type cursor struct {
	data []byte
	pos  int
}

func newCursor(data []byte) *cursor {
	return &cursor{data: data}
}

// remaining reports the number of unread bytes.
func (c *cursor) remaining() int {
	return len(c.data) - c.pos
}

func (c *cursor) u1() (uint8, error) {
	if c.remaining() < 1 {
		return 0, ErrUnexpectedEOF
	}
	v := c.data[c.pos]
	c.pos++
	return v, nil
}

func (c *cursor) u2() (uint16, error) {
	if c.remaining() < 2 {
		return 0, ErrUnexpectedEOF
	}
	v := binary.BigEndian.Uint16(c.data[c.pos:])
	c.pos += 2
	return v, nil
}

func (c *cursor) u4() (uint32, error) {
	if c.remaining() < 4 {
		return 0, ErrUnexpectedEOF
	}
	v := binary.BigEndian.Uint32(c.data[c.pos:])
	c.pos += 4
	return v, nil
}

// bytes returns the next n bytes as a sub-slice of the underlying buffer.
func (c *cursor) bytes(n int) ([]byte, error) {
	if n < 0 || c.remaining() < n {
		return nil, fmt.Errorf("%w: need %d bytes, have %d", ErrUnexpectedEOF, n, c.remaining())
	}
	b := c.data[c.pos : c.pos+n]
	c.pos += n
	return b, nil
}
