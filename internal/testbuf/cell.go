package testbuf

import (
	"os"
	"testing"

	"github.com/eak1mov/go-pzmap/cell"
	"github.com/eak1mov/go-pzmap/lot"
)

// Header builds a single-layer cell header with the given tile names and
// no rooms or buildings.
func Header(tileNames ...string) *Builder {
	b := new(Builder)
	b.Chars(lot.HeaderMagic).Int32(1).Int32(int32(len(tileNames)))
	for _, name := range tileNames {
		b.Line(name)
	}
	b.Int32(cell.CellSizeInSquares, cell.CellSizeInSquares, 0, 0)
	b.Int32(0).Int32(0)
	return b.Zeros(cell.BlocksPerCell)
}

// Pack builds a cell grid; blocks are laid out after the 8-byte stride offset table.
func Pack(blocks ...[]int32) *Builder {
	b := new(Builder)
	b.Chars(lot.PackMagic).Int32(1).Int32(int32(len(blocks)))
	tableOffset := b.Len()
	b.Zeros(len(blocks) * 8)
	for i, block := range blocks {
		b.PutInt32(tableOffset+i*8, int32(b.Len()))
		b.Int32(block...)
	}
	return b
}

// SquareBlock returns a single-layer block where square (0,0) holds the given
// tile indices and all other squares are empty.
func SquareBlock(tiles ...int32) []int32 {
	if len(tiles) == 0 {
		return []int32{-1, cell.SquaresPerBlock}
	}
	block := []int32{int32(len(tiles) + 1), -1}
	block = append(block, tiles...)
	return append(block, -1, cell.SquaresPerBlock-1)
}

// WriteCell writes the header and grid files of a cell in the map directory layout.
func WriteCell(t testing.TB, headerPath, packPath string, header, pack *Builder) {
	t.Helper()
	if err := os.WriteFile(headerPath, header.Bytes(), 0644); err != nil {
		t.Fatal(err)
	}
	if pack == nil {
		return
	}
	if err := os.WriteFile(packPath, pack.Bytes(), 0644); err != nil {
		t.Fatal(err)
	}
}
