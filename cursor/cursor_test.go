package cursor_test

import (
	"errors"
	"testing"

	"github.com/eak1mov/go-pzmap/cursor"
	"github.com/eak1mov/go-pzmap/internal/testbuf"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestReadFixedChars(t *testing.T) {
	c := cursor.New([]byte("Hello"))

	s, err := c.ReadFixedChars(5)
	require.NoError(t, err)
	require.Equal(t, "Hello", s)
	require.Equal(t, 5, c.Offset())

	require.NoError(t, c.Seek(3))
	_, err = c.ReadFixedChars(5)
	require.ErrorIs(t, err, cursor.ErrBufferUnderrun)
	require.Equal(t, 3, c.Offset())
}

func TestReadInt32(t *testing.T) {
	c := cursor.New([]byte{0x78, 0x56, 0x34, 0x12, 0xff, 0xff, 0xff, 0xff, 0x01})

	v, err := c.ReadInt32()
	require.NoError(t, err)
	require.Equal(t, int32(0x12345678), v)

	v, err = c.ReadInt32()
	require.NoError(t, err)
	require.Equal(t, int32(-1), v)
	require.Equal(t, 8, c.Offset())

	_, err = c.ReadInt32()
	require.ErrorIs(t, err, cursor.ErrBufferUnderrun)
	require.Equal(t, 8, c.Offset())
}

func TestReadLineTrimmed(t *testing.T) {
	c := cursor.New([]byte("Hello\nWorld\n\nrest"))

	for _, want := range []string{"Hello", "World", ""} {
		line, err := c.ReadLineTrimmed()
		require.NoError(t, err)
		require.Equal(t, want, line)
	}
	require.Equal(t, 13, c.Offset())

	_, err := c.ReadLineTrimmed()
	require.ErrorIs(t, err, cursor.ErrDelimiterNotFound)
	require.Equal(t, 13, c.Offset())
}

func TestReadLengthPrefixed(t *testing.T) {
	buf := new(testbuf.Builder).String("abc").Blob([]byte{1, 2}).Int32(100).Raw(9, 9).Bytes()
	c := cursor.New(buf)

	s, err := c.ReadLengthPrefixedString()
	require.NoError(t, err)
	require.Equal(t, "abc", s)

	data, err := c.ReadLengthPrefixedBytes()
	require.NoError(t, err)
	require.Equal(t, []byte{1, 2}, data)

	offset := c.Offset()
	_, err = c.ReadLengthPrefixedBytes()
	require.ErrorIs(t, err, cursor.ErrBufferUnderrun)
	require.Equal(t, offset, c.Offset())

	_, err = c.ReadLengthPrefixedString()
	require.ErrorIs(t, err, cursor.ErrBufferUnderrun)
	require.Equal(t, offset, c.Offset())
}

func TestReadLengthPrefixedNegative(t *testing.T) {
	c := cursor.New(new(testbuf.Builder).Int32(-4).Raw(1, 2, 3, 4).Bytes())
	_, err := c.ReadLengthPrefixedBytes()
	require.ErrorIs(t, err, cursor.ErrBufferUnderrun)
	require.Equal(t, 0, c.Offset())
}

func TestReadExact(t *testing.T) {
	buf := []byte{1, 2, 3, 4, 5}
	c := cursor.New(buf)

	data, err := c.ReadExact(3)
	require.NoError(t, err)
	require.Equal(t, []byte{1, 2, 3}, data)

	data[0] = 42
	require.Equal(t, byte(1), buf[0], "ReadExact must copy")

	_, err = c.ReadExact(3)
	require.ErrorIs(t, err, cursor.ErrBufferUnderrun)
	require.Equal(t, 3, c.Offset())

	data, err = c.ReadExact(2)
	require.NoError(t, err)
	require.Equal(t, []byte{4, 5}, data)
	require.NoError(t, c.EnsureEnd())
}

func TestReadUntilMarker(t *testing.T) {
	marker := []byte{0xEF, 0xBE, 0xAD, 0xDE}
	buf := new(testbuf.Builder).Raw(1, 2, 3).Raw(marker...).Raw(7).Bytes()
	c := cursor.New(buf)

	data, err := c.ReadUntilMarker(marker)
	require.NoError(t, err)
	require.Equal(t, []byte{1, 2, 3}, data)
	require.Equal(t, 7, c.Offset())

	_, err = c.ReadUntilMarker(marker)
	require.ErrorIs(t, err, cursor.ErrMarkerNotFound)
	require.Equal(t, 7, c.Offset())
}

func TestEnsureEnd(t *testing.T) {
	c := cursor.New([]byte{1, 2, 3, 4, 5})
	_, err := c.ReadInt32()
	require.NoError(t, err)

	err = c.EnsureEnd()
	require.True(t, errors.Is(err, cursor.ErrTrailingBytes), "%v", err)
}

func TestSeek(t *testing.T) {
	c := cursor.New(new(testbuf.Builder).Int32(1, 2, 3).Bytes())

	require.NoError(t, c.Seek(8))
	v, err := c.ReadInt32()
	require.NoError(t, err)
	require.Equal(t, int32(3), v)

	require.ErrorIs(t, c.Seek(13), cursor.ErrInvalidOffset)
	require.ErrorIs(t, c.Seek(-1), cursor.ErrInvalidOffset)
	require.Equal(t, 12, c.Offset())

	v, err = c.ReadInt32At(4)
	require.NoError(t, err)
	require.Equal(t, int32(2), v)
	_, err = c.ReadInt32At(9)
	require.ErrorIs(t, err, cursor.ErrBufferUnderrun)
}

func TestReadCount(t *testing.T) {
	c := cursor.New(new(testbuf.Builder).Int32(3, -2).Bytes())

	n, err := c.ReadCount()
	require.NoError(t, err)
	require.Equal(t, 3, n)

	_, err = c.ReadCount()
	require.ErrorIs(t, err, cursor.ErrInvalidCount)
	require.Equal(t, 4, c.Offset())
}

// Failed reads of every kind leave the offset where it was.
func TestFailedReadsKeepOffset(t *testing.T) {
	buf := new(testbuf.Builder).Int32(7).Raw(1, 2).Bytes()
	reads := map[string]func(c *cursor.Cursor) error{
		"FixedChars": func(c *cursor.Cursor) error { _, err := c.ReadFixedChars(3); return err },
		"Int32":      func(c *cursor.Cursor) error { _, err := c.ReadInt32(); return err },
		"Line":       func(c *cursor.Cursor) error { _, err := c.ReadLineTrimmed(); return err },
		"Exact":      func(c *cursor.Cursor) error { _, err := c.ReadExact(3); return err },
		"Marker":     func(c *cursor.Cursor) error { _, err := c.ReadUntilMarker([]byte{9}); return err },
	}
	for name, read := range reads {
		t.Run(name, func(t *testing.T) {
			c := cursor.New(buf)
			require.NoError(t, c.Seek(4))
			if err := read(c); err == nil {
				t.Fatalf("read succeeded, want error")
			}
			if diff := cmp.Diff(4, c.Offset()); diff != "" {
				t.Errorf("offset mismatch (-want+got):\n%v", diff)
			}
		})
	}

	c := cursor.New(buf)
	_, err := c.ReadLengthPrefixedBytes()
	require.ErrorIs(t, err, cursor.ErrBufferUnderrun)
	require.Equal(t, 0, c.Offset())
}
