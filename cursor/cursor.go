// Package cursor provides a bounds-checked sequential reader over an in-memory buffer.
//
// Every read either advances the offset by exactly the number of bytes consumed
// or fails with the offset left untouched, so callers may retry with another strategy.
package cursor

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
)

var (
	ErrBufferUnderrun    = errors.New("pzmap: buffer underrun")
	ErrDelimiterNotFound = errors.New("pzmap: line delimiter not found")
	ErrMarkerNotFound    = errors.New("pzmap: marker not found")
	ErrTrailingBytes     = errors.New("pzmap: trailing bytes")
	ErrInvalidOffset     = errors.New("pzmap: invalid offset")
	ErrInvalidCount      = errors.New("pzmap: invalid count")
)

const lineEnd = '\n'

// Cursor reads from a borrowed buffer. It never modifies the buffer and
// returned byte slices are copies.
type Cursor struct {
	buf    []byte
	offset int
}

func New(buf []byte) *Cursor {
	return &Cursor{buf: buf}
}

func (c *Cursor) Offset() int    { return c.offset }
func (c *Cursor) Len() int       { return len(c.buf) }
func (c *Cursor) Remaining() int { return len(c.buf) - c.offset }

// Seek repositions the cursor to an absolute offset in [0, Len()].
func (c *Cursor) Seek(offset int) error {
	if offset < 0 || offset > len(c.buf) {
		return fmt.Errorf("%w: %d (size %d)", ErrInvalidOffset, offset, len(c.buf))
	}
	c.offset = offset
	return nil
}

// EnsureEnd reports ErrTrailingBytes unless the whole buffer was consumed.
func (c *Cursor) EnsureEnd() error {
	if c.offset != len(c.buf) {
		return fmt.Errorf("%w: end not reached: %d / %d", ErrTrailingBytes, c.offset, len(c.buf))
	}
	return nil
}

func (c *Cursor) underrun(size int) error {
	return fmt.Errorf("%w: need %d bytes at offset %d, have %d", ErrBufferUnderrun, size, c.offset, c.Remaining())
}

func (c *Cursor) take(size int) ([]byte, error) {
	if size < 0 || size > c.Remaining() {
		return nil, c.underrun(size)
	}
	data := c.buf[c.offset : c.offset+size]
	c.offset += size
	return data, nil
}

// ReadFixedChars returns exactly size bytes as a string.
func (c *Cursor) ReadFixedChars(size int) (string, error) {
	data, err := c.take(size)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// PeekFixedChars is ReadFixedChars without advancing the offset.
func (c *Cursor) PeekFixedChars(size int) (string, error) {
	if size < 0 || size > c.Remaining() {
		return "", c.underrun(size)
	}
	return string(c.buf[c.offset : c.offset+size]), nil
}

func (c *Cursor) ReadInt32() (int32, error) {
	value, err := c.ReadUint32()
	return int32(value), err
}

func (c *Cursor) ReadUint32() (uint32, error) {
	data, err := c.take(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(data), nil
}

// ReadInt32At reads a little-endian int32 at an absolute offset without moving the cursor.
func (c *Cursor) ReadInt32At(offset int) (int32, error) {
	if offset < 0 || offset > len(c.buf)-4 {
		return 0, fmt.Errorf("%w: need 4 bytes at offset %d (size %d)", ErrBufferUnderrun, offset, len(c.buf))
	}
	return int32(binary.LittleEndian.Uint32(c.buf[offset:])), nil
}

// ReadLineTrimmed returns the bytes up to the next '\n' and moves past the delimiter.
func (c *Cursor) ReadLineTrimmed() (string, error) {
	idx := bytes.IndexByte(c.buf[c.offset:], lineEnd)
	if idx < 0 {
		return "", fmt.Errorf("%w: at offset %d", ErrDelimiterNotFound, c.offset)
	}
	line := string(c.buf[c.offset : c.offset+idx])
	c.offset += idx + 1
	return line, nil
}

func (c *Cursor) ReadLengthPrefixedString() (string, error) {
	data, err := c.readLengthPrefixed()
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func (c *Cursor) ReadLengthPrefixedBytes() ([]byte, error) {
	data, err := c.readLengthPrefixed()
	if err != nil {
		return nil, err
	}
	return bytes.Clone(data), nil
}

func (c *Cursor) readLengthPrefixed() ([]byte, error) {
	start := c.offset
	size, err := c.ReadInt32()
	if err != nil {
		return nil, err
	}
	data, err := c.take(int(size))
	if err != nil {
		c.offset = start
		return nil, err
	}
	return data, nil
}

// ReadExact returns a copy of exactly size bytes.
func (c *Cursor) ReadExact(size int) ([]byte, error) {
	data, err := c.take(size)
	if err != nil {
		return nil, err
	}
	return bytes.Clone(data), nil
}

// ReadUntilMarker returns a copy of the bytes preceding the first occurrence of
// marker and moves past the marker.
func (c *Cursor) ReadUntilMarker(marker []byte) ([]byte, error) {
	idx := bytes.Index(c.buf[c.offset:], marker)
	if len(marker) == 0 || idx < 0 {
		return nil, fmt.Errorf("%w: %x after offset %d", ErrMarkerNotFound, marker, c.offset)
	}
	data := bytes.Clone(c.buf[c.offset : c.offset+idx])
	c.offset += idx + len(marker)
	return data, nil
}

// ReadCount reads an int32 element count and rejects negative values.
func (c *Cursor) ReadCount() (int, error) {
	start := c.offset
	count, err := c.ReadInt32()
	if err != nil {
		return 0, err
	}
	if count < 0 {
		c.offset = start
		return 0, fmt.Errorf("%w: %d at offset %d", ErrInvalidCount, count, start)
	}
	return int(count), nil
}
