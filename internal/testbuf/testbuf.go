// Package testbuf builds little-endian test buffers in the layout of the game files.
package testbuf

import "encoding/binary"

type Builder struct {
	data []byte
}

func (b *Builder) Bytes() []byte { return b.data }
func (b *Builder) Len() int      { return len(b.data) }

func (b *Builder) Raw(data ...byte) *Builder {
	b.data = append(b.data, data...)
	return b
}

func (b *Builder) Chars(s string) *Builder {
	b.data = append(b.data, s...)
	return b
}

func (b *Builder) Int32(values ...int32) *Builder {
	for _, v := range values {
		b.data = binary.LittleEndian.AppendUint32(b.data, uint32(v))
	}
	return b
}

// Line appends s followed by '\n'.
func (b *Builder) Line(s string) *Builder {
	b.data = append(b.data, s...)
	b.data = append(b.data, '\n')
	return b
}

// String appends an int32 length followed by s.
func (b *Builder) String(s string) *Builder {
	b.Int32(int32(len(s)))
	return b.Chars(s)
}

// Blob appends an int32 length followed by data.
func (b *Builder) Blob(data []byte) *Builder {
	b.Int32(int32(len(data)))
	return b.Raw(data...)
}

// Zeros appends n zero bytes.
func (b *Builder) Zeros(n int) *Builder {
	b.data = append(b.data, make([]byte, n)...)
	return b
}

// PutInt32 overwrites 4 bytes at offset, used to patch offset tables.
func (b *Builder) PutInt32(offset int, v int32) *Builder {
	binary.LittleEndian.PutUint32(b.data[offset:], uint32(v))
	return b
}
