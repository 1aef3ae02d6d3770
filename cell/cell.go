// Package cell provides world layout constants and coordinate types for map cells.
package cell

import (
	"errors"
	"fmt"

	"github.com/eak1mov/go-pzmap/fnvhash"
	"github.com/google/hilbert"
)

const (
	MinLayer = -32
	MaxLayer = 32 // exclusive

	// MaxCellsSize bounds cell positions on both axes.
	MaxCellsSize = 1024

	BlockSizeInSquares = 8
	SquaresPerBlock    = BlockSizeInSquares * BlockSizeInSquares

	CellSizeInBlocks = 32
	BlocksPerCell    = CellSizeInBlocks * CellSizeInBlocks

	CellSizeInSquares = CellSizeInBlocks * BlockSizeInSquares
)

var ErrOutOfRange = errors.New("pzmap: coordinate out of range")

// Position identifies a cell in the world grid.
type Position struct {
	X int32
	Y int32
}

func (p Position) String() string {
	return fmt.Sprintf("%d_%d", p.X, p.Y)
}

func (p Position) Valid() bool {
	return p.X >= 0 && p.X < MaxCellsSize && p.Y >= 0 && p.Y < MaxCellsSize
}

// Hash is the FNV-1a hash of the (x, y) pair.
func (p Position) Hash() uint32 {
	return fnvhash.Int32s([]int32{p.X, p.Y})
}

// Code returns the position index along a Hilbert curve covering the world grid.
// Neighbouring cells get close codes, so sorting by Code keeps spatial locality.
func (p Position) Code() (uint32, error) {
	if !p.Valid() {
		return 0, fmt.Errorf("%w: cell %v", ErrOutOfRange, p)
	}
	h, _ := hilbert.NewHilbert(MaxCellsSize)
	code, err := h.MapInverse(int(p.X), int(p.Y))
	if err != nil {
		return 0, err
	}
	return uint32(code), nil
}

// PositionFromCode is the inverse of Position.Code.
func PositionFromCode(code uint32) (Position, error) {
	h, _ := hilbert.NewHilbert(MaxCellsSize)
	x, y, err := h.Map(int(code))
	if err != nil {
		return Position{}, fmt.Errorf("%w: %w", ErrOutOfRange, err)
	}
	return Position{X: int32(x), Y: int32(y)}, nil
}
